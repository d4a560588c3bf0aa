package welambda

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-counter-go/connectors/wehttp"
	"github.com/weegigs/wee-counter-go/we"
)

type Option[T any] func(handler *Handler[T])

func Logger[T any](log *zerolog.Logger) Option[T] {
	return func(handler *Handler[T]) {
		handler.log = log
	}
}

// Handler serves API Gateway HTTP API requests routed as /{type}/{key}.
type Handler[T any] struct {
	service    we.EntityService[T]
	encoder    we.ResourceEncoder[T]
	entityType we.EntityType
	log        *zerolog.Logger
}

func NewHandler[T any](service we.EntityService[T], options ...Option[T]) *Handler[T] {
	handler := &Handler[T]{
		service:    service,
		encoder:    we.NewResourceEncoder[T](),
		entityType: we.EntityTypeFor[T](),
	}
	for _, option := range options {
		option(handler)
	}
	if handler.log == nil {
		handler.log = &log.Logger
	}

	return handler
}

func (h *Handler[T]) Handle(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	id := we.SlotId{Type: request.PathParameters["type"], Key: request.PathParameters["key"]}
	if we.EntityType(id.Type) != h.entityType || id.Key == "" {
		return respond(http.StatusNotFound, wehttp.ErrorResponse{Error: "not found"})
	}

	if requestId := request.RequestContext.RequestID; requestId != "" {
		ctx = we.WithCorrelation(ctx, we.CorrelationID(requestId))
	}

	switch request.RequestContext.HTTP.Method {
	case http.MethodGet:
		return h.get(ctx, id)
	case http.MethodPost:
		return h.post(ctx, id, request)
	default:
		return respond(http.StatusMethodNotAllowed, wehttp.ErrorResponse{Error: "method not allowed"})
	}
}

func (h *Handler[T]) get(ctx context.Context, id we.SlotId) (events.APIGatewayV2HTTPResponse, error) {
	entity, err := h.service.Load(ctx, id)
	if err != nil {
		h.log.Info().Err(err).Str("slot", id.String()).Msg("failed to load resource")
		return failure(err)
	}

	if !entity.Initialized() {
		return respond(http.StatusNotFound, wehttp.ErrorResponse{Error: "not found"})
	}

	resource, err := h.encoder.Resource(&entity)
	if err != nil {
		return failure(err)
	}

	return respond(http.StatusOK, resource)
}

func (h *Handler[T]) post(ctx context.Context, id we.SlotId, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return respond(http.StatusBadRequest, wehttp.ErrorResponse{Error: "invalid request body"})
		}
		body = decoded
	}

	var call we.RemoteCall
	if err := json.Unmarshal(body, &call); err != nil || call.Method == "" {
		h.log.Info().Err(err).Msg("failed to unmarshal call")
		return respond(http.StatusBadRequest, wehttp.ErrorResponse{Error: "invalid request body"})
	}

	outcome, err := h.service.Execute(ctx, id, call)
	if err != nil {
		h.log.Info().Err(err).Str("slot", id.String()).Str("method", call.Method.String()).Msg("failed to execute call")
		return failure(err)
	}

	response, err := wehttp.Respond(h.encoder, outcome)
	if err != nil {
		return failure(err)
	}

	return respond(http.StatusOK, response)
}

func failure(err error) (events.APIGatewayV2HTTPResponse, error) {
	status, message := wehttp.StatusOf(err)
	return respond(status, wehttp.ErrorResponse{Error: message})
}

func respond(status int, body any) (events.APIGatewayV2HTTPResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(data),
	}, nil
}
