package jetstream

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"github.com/weegigs/wee-counter-go/we"
)

// LogMessages is the payload published for each committed call.
type LogMessages struct {
	Slot     we.SlotId   `json:"slot"`
	Revision we.Revision `json:"revision"`
	Messages []string    `json:"messages"`
}

type LogPublisherOption func(*LogPublisher)

// WithEncoder replaces the JSON encoding of published log payloads.
func WithEncoder(encode func(v any) ([]byte, error)) LogPublisherOption {
	return func(publisher *LogPublisher) {
		if encode != nil {
			publisher.encode = encode
		}
	}
}

// LogPublisher publishes call logs to "<subject>.<type>.<key>".
type LogPublisher struct {
	connection *nats.Conn
	subject    string
	encode     func(v any) ([]byte, error)
}

func NewLogPublisher(connection *nats.Conn, subject string, options ...LogPublisherOption) *LogPublisher {
	publisher := &LogPublisher{
		connection: connection,
		subject:    subject,
		encode:     json.Marshal,
	}

	for _, option := range options {
		option(publisher)
	}

	return publisher
}

func (p *LogPublisher) Subject(id we.SlotId) string {
	return p.subject + "." + id.Encode().String()
}

func (p *LogPublisher) PublishLogs(ctx context.Context, id we.SlotId, revision we.Revision, messages []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := p.encode(LogMessages{Slot: id, Revision: revision, Messages: messages})
	if err != nil {
		return err
	}

	msg := nats.NewMsg(p.Subject(id))
	msg.Data = data
	if correlation := we.CorrelationFrom(ctx); correlation != "" {
		msg.Header.Set(correlationHeader, correlation.String())
	}

	return p.connection.PublishMsg(msg)
}
