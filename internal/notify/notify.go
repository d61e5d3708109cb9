package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log"

	"secondarypro/internal/models"

	"github.com/shopspring/decimal"
	amqp "github.com/streadway/amqp"
)

// ConfirmationSubject is the subject line of every confirmation email.
const ConfirmationSubject = "Order Confirmation - SecondaryPro"

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<h2>Thank you for your preorder!</h2>
<p>Dear {{.CustomerName}},</p>
<p>We've received your preorder for <strong>{{.ProductName}}</strong>.</p>
<p><strong>Order Details:</strong></p>
<ul>
  <li>Product: {{.ProductName}}</li>
  <li>Size: {{.Size}}</li>
  <li>Price: ${{.Price}}</li>
  <li>Payment Method: {{.PaymentMethod}}</li>
  <li>Order ID: {{.OrderID}}</li>
</ul>
<p>We'll contact you soon to confirm your order and arrange delivery.</p>
<p>Best regards,<br>SecondaryPro Team</p>
`))

// RenderConfirmation renders the HTML body of a confirmation email.
func RenderConfirmation(c models.OrderConfirmation) (string, error) {
	data := struct {
		models.OrderConfirmation
		Price string
	}{
		OrderConfirmation: c,
		Price:             decimal.NewFromFloat(c.Price).StringFixed(2),
	}
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render confirmation for order %s: %w", c.OrderID, err)
	}
	return buf.String(), nil
}

// LogNotifier only logs confirmations.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, recipient string, c models.OrderConfirmation) error {
	log.Printf("Order %s confirmed for %s (%s, size %s)", c.OrderID, recipient, c.ProductName, c.Size)
	return nil
}

// Message is the queued form of a confirmation.
type Message struct {
	Recipient    string                   `json:"recipient"`
	Confirmation models.OrderConfirmation `json:"confirmation"`
}

// QueuePublisher puts an encoded notification on a queue.
type QueuePublisher interface {
	PublishNotification(ctx context.Context, key string, body []byte) error
}

// QueueNotifier hands confirmations to a queue for asynchronous delivery.
type QueueNotifier struct {
	queue QueuePublisher
}

func NewQueueNotifier(queue QueuePublisher) *QueueNotifier {
	return &QueueNotifier{queue: queue}
}

func (n *QueueNotifier) Notify(ctx context.Context, recipient string, c models.OrderConfirmation) error {
	body, err := json.Marshal(Message{Recipient: recipient, Confirmation: c})
	if err != nil {
		return fmt.Errorf("encode notification for order %s: %w", c.OrderID, err)
	}
	return n.queue.PublishNotification(ctx, c.OrderID, body)
}

// Sender delivers a confirmation synchronously.
type Sender interface {
	Notify(ctx context.Context, recipient string, c models.OrderConfirmation) error
}

// DeliveryHandler decodes queued notifications and passes them to sender.
func DeliveryHandler(sender Sender) func(amqp.Delivery) error {
	return func(d amqp.Delivery) error {
		var msg Message
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			return fmt.Errorf("decode notification: %w", err)
		}
		return sender.Notify(context.Background(), msg.Recipient, msg.Confirmation)
	}
}
