package main

import (
	"context"
	"fmt"
	"log"

	"secondarypro/internal/config"
	"secondarypro/internal/events"
	"secondarypro/internal/notify"
	"secondarypro/internal/repositories"
	"secondarypro/internal/services"
	"secondarypro/pkg/kafka"
	"secondarypro/pkg/rabbitmq"
	"secondarypro/pkg/redisx"
)

// closers are run in reverse order on shutdown.
type closers []func() error

func (cs *closers) add(fn func() error) { *cs = append(*cs, fn) }

func (cs closers) closeAll() {
	for i := len(cs) - 1; i >= 0; i-- {
		if err := cs[i](); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}
}

// openStores connects the product and order repositories selected by STORE_DRIVER.
func openStores(ctx context.Context, cfg config.Config, cs *closers) (repositories.ProductRepository, repositories.OrderRepository, error) {
	switch cfg.StoreDriver {
	case "memory":
		return repositories.NewMemoryProductRepository(), repositories.NewMemoryOrderRepository(), nil
	case "mongo":
		client, db, err := repositories.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		cs.add(func() error { return client.Disconnect(context.Background()) })
		log.Printf("Connected to MongoDB database %s", cfg.MongoDatabase)
		return repositories.NewMongoProductRepository(db), repositories.NewMongoOrderRepository(db), nil
	default:
		db, err := repositories.OpenGORM(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		cs.add(sqlDB.Close)
		log.Printf("Connected to %s database", cfg.StoreDriver)
		return repositories.NewGORMProductRepository(db), repositories.NewGORMOrderRepository(db), nil
	}
}

// connectRabbitMQ is only called when the event broker or the notifier needs it.
func connectRabbitMQ(cfg config.Config, cs *closers) (*rabbitmq.Client, error) {
	client, err := rabbitmq.NewClient(rabbitmq.Config{
		URL:         cfg.RabbitMQURL,
		Exchange:    cfg.RabbitMQExchange,
		NotifyQueue: cfg.NotifyQueue,
	})
	if err != nil {
		return nil, err
	}
	cs.add(client.Close)
	return client, nil
}

func needsRabbitMQ(cfg config.Config) bool {
	return cfg.EventBroker == "rabbitmq" || cfg.Notifier == "queue"
}

// newPublisher returns the event publisher selected by EVENT_BROKER, or nil.
func newPublisher(cfg config.Config, mq *rabbitmq.Client, cs *closers) events.Publisher {
	switch cfg.EventBroker {
	case "kafka":
		producer := kafka.NewProducer(kafka.NewWriter(cfg.KafkaBrokers), 256)
		cs.add(producer.Close)
		log.Printf("Publishing order events to Kafka at %v", cfg.KafkaBrokers)
		return producer
	case "rabbitmq":
		log.Printf("Publishing order events to RabbitMQ exchange %s", cfg.RabbitMQExchange)
		return mq
	default:
		return nil
	}
}

func newMailer(cfg config.Config) (*notify.Mailer, error) {
	return notify.NewMailer(notify.MailerConfig{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPass,
		From:     cfg.EmailFrom,
	})
}

// newNotifier returns the notifier selected by NOTIFIER. For "queue" it also
// starts the consumer that delivers queued confirmations through SMTP.
func newNotifier(cfg config.Config, mq *rabbitmq.Client) (services.Notifier, error) {
	switch cfg.Notifier {
	case "smtp":
		return newMailer(cfg)
	case "queue":
		mailer, err := newMailer(cfg)
		if err != nil {
			return nil, err
		}
		if err := mq.ConsumeNotifications(notify.DeliveryHandler(mailer)); err != nil {
			return nil, fmt.Errorf("failed to start notification consumer: %w", err)
		}
		return notify.NewQueueNotifier(mq), nil
	default:
		return notify.LogNotifier{}, nil
	}
}

// newFeaturedCache returns nil when REDIS_ADDR is empty or Redis is unreachable.
func newFeaturedCache(ctx context.Context, cfg config.Config, cs *closers) services.ProductCache {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redisx.New(cfg.RedisAddr)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis at %s unreachable, featured cache disabled: %v", cfg.RedisAddr, err)
		_ = rdb.Close()
		return nil
	}
	cs.add(rdb.Close)
	log.Printf("Featured cache enabled on Redis %s", cfg.RedisAddr)
	return redisx.NewFeaturedCache(rdb, cfg.FeaturedCacheTTL)
}
