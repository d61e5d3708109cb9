package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusUpdated = "OrderStatusUpdated"
)

// Topics double as Kafka topics and RabbitMQ routing keys.
const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusUpdated = "order.status.updated"
)

const envelopeVersion = 1

// Envelope wraps every published event.
type Envelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	EventVersion  int             `json:"eventVersion"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlationId,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

// New builds an envelope around payload.
func New(eventType, producer, correlationID string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  envelopeVersion,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: correlationID,
		Payload:       raw,
	}, nil
}

// UnwrapPayload decodes the payload of an envelope.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

type OrderCreatedPayload struct {
	OrderID       string  `json:"orderId"`
	ProductID     string  `json:"productId"`
	ProductName   string  `json:"productName"`
	Size          string  `json:"size"`
	Price         float64 `json:"price"`
	PaymentMethod string  `json:"paymentMethod"`
	Email         string  `json:"email"`
}

type OrderStatusUpdatedPayload struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
	Notes   string `json:"notes,omitempty"`
}

// Publisher delivers an encoded event to a broker.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, body []byte) error
}

// Emit marshals env and hands it to p, keyed by the correlation id.
func Emit(ctx context.Context, p Publisher, topic string, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", env.EventType, err)
	}
	return p.Publish(ctx, topic, env.CorrelationID, body)
}
