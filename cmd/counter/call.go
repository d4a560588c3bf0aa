package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/counter"
	"github.com/weegigs/wee-counter-go/we"
)

var callCmd = &cobra.Command{
	Use:   "call <key> <method> [args]",
	Short: "execute one call against a counter",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, cleanup, err := counterService(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		call := we.RemoteCall{Method: we.MethodName(args[1])}
		if len(args) == 3 {
			call.Args = json.RawMessage(args[2])
		}

		outcome, err := service.Execute(cmd.Context(), slot(args[0]), call)
		if err != nil {
			return err
		}

		response, err := wehttp.Respond(we.NewResourceEncoder[counter.Counter](), outcome)
		if err != nil {
			return err
		}

		return output(cmd, response)
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <key>",
	Short: "show the stored state of a counter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, cleanup, err := counterService(cmd.Context(), cfg, nil)
		if err != nil {
			return err
		}
		defer cleanup()

		entity, err := service.Load(cmd.Context(), slot(args[0]))
		if err != nil {
			return err
		}

		resource, err := we.NewResourceEncoder[counter.Counter]().Resource(&entity)
		if err != nil {
			return err
		}

		return output(cmd, resource)
	},
}

func slot(key string) we.SlotId {
	return we.SlotId{Type: counter.EntityType.String(), Key: key}
}

func output(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
