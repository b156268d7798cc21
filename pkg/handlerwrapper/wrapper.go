// Package handlerwrapper adapts typed event handlers to watermill handler functions.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result is an outgoing message produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped decodes the incoming JSON payload into T, calls handler,
// and encodes its results as outgoing messages. A payload that cannot be decoded
// is logged and acknowledged so it does not redeliver forever.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	handler func(context.Context, *T) ([]Result, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := tracer.Start(msg.Context(), handlerName,
			trace.WithAttributes(
				attribute.String("message.id", msg.UUID),
				attribute.String("handler", handlerName),
			),
		)
		defer span.End()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Failed to decode message payload",
				slog.String("handler", handlerName),
				slog.String("message_id", msg.UUID),
				slog.Any("error", err),
			)
			span.SetStatus(codes.Error, "decode failed")
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "Handler failed",
				slog.String("handler", handlerName),
				slog.String("message_id", msg.UUID),
				slog.Any("error", err),
			)
			return nil, err
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			m, err := newMessage(ctx, msg, r)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", handlerName, err)
			}
			out = append(out, m)
		}
		return out, nil
	}
}

// NewMessage encodes payload as JSON and stamps topic metadata on a new message.
func NewMessage(ctx context.Context, topic string, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload for %s: %w", topic, err)
	}
	m := message.NewMessage(watermill.NewUUID(), body)
	m.Metadata.Set("topic", topic)
	m.SetContext(ctx)
	return m, nil
}

func newMessage(ctx context.Context, parent *message.Message, r Result) (*message.Message, error) {
	m, err := NewMessage(ctx, r.Topic, r.Payload)
	if err != nil {
		return nil, err
	}
	if cid := parent.Metadata.Get("correlation_id"); cid != "" {
		m.Metadata.Set("correlation_id", cid)
	}
	for k, v := range r.Metadata {
		m.Metadata.Set(k, v)
	}
	return m, nil
}
