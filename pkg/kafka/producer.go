package kafka

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("kafka producer closed")

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer queues messages and writes them from a single goroutine.
type Producer struct {
	w         MessageWriter
	inbox     chan kafka.Message
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewWriter builds an async writer; the topic is set per message.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Printf("Warning: failed to deliver %d kafka message(s): %v", len(messages), err)
			}
		},
	}
}

// NewProducer starts the write loop over w.
func NewProducer(w MessageWriter, buf int) *Producer {
	if buf < 1 {
		buf = 64
	}
	p := &Producer{
		w:     w,
		inbox: make(chan kafka.Message, buf),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go p.loop()
	return p
}

func (p *Producer) loop() {
	defer close(p.done)
	for {
		select {
		case m := <-p.inbox:
			p.write(m)
		case <-p.quit:
			// flush whatever is still queued
			for {
				select {
				case m := <-p.inbox:
					p.write(m)
				default:
					if err := p.w.Close(); err != nil {
						log.Printf("Warning: failed to close kafka writer: %v", err)
					}
					return
				}
			}
		}
	}
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		log.Printf("Warning: failed to write kafka message to %s: %v", m.Topic, err)
	}
}

// Publish enqueues body on topic with the given key. A Publish blocked on a
// full queue returns ErrClosed as soon as Close is called.
func (p *Producer) Publish(ctx context.Context, topic, key string, body []byte) error {
	select {
	case <-p.quit:
		return ErrClosed
	default:
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: body,
		Time:  time.Now(),
	}
	select {
	case p.inbox <- msg:
		return nil
	case <-p.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes queued messages and waits for the writer to close. Safe to call twice.
func (p *Producer) Close() error {
	p.closeOnce.Do(func() { close(p.quit) })
	<-p.done
	return nil
}
