package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/solace/internal/models"
)

// KafkaProducer publishes analyzed results to a single topic.
type KafkaProducer struct {
	producer *kafka.Producer
	topic    string
	done     chan struct{}
}

func NewKafkaProducer(broker, topic string) (*KafkaProducer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", broker),
		slog.String("topic", topic))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":   broker,
		"security.protocol":   "PLAINTEXT", // Force PLAINTEXT
		"api.version.request": "true",      // Ensure correct API version request
		"enable.idempotence":  true,
		"acks":                "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	kp := &KafkaProducer{producer: p, topic: topic, done: make(chan struct{})}
	go kp.watchDeliveries()

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return kp, nil
}

func (kp *KafkaProducer) watchDeliveries() {
	defer close(kp.done)
	for e := range kp.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				slog.Warn("[KafkaClient] Delivery failed",
					slog.String("topic", kp.topic),
					slog.String("error", ev.TopicPartition.Error.Error()))
			}
		case kafka.Error:
			slog.Warn("[KafkaClient] Producer error",
				slog.String("error", ev.Error()))
		}
	}
}

func buildMessage(topic string, event models.SentimentEvent) (*kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(resultKey(event.Text)),
		Value:          value,
	}, nil
}

// Publish enqueues the event. Delivery is reported asynchronously.
func (kp *KafkaProducer) Publish(ctx context.Context, event models.SentimentEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := buildMessage(kp.topic, event)
	if err != nil {
		return err
	}

	if err := kp.producer.Produce(msg, nil); err != nil {
		return fmt.Errorf("[KafkaClient] failed to produce message: %w", err)
	}
	return nil
}

func (kp *KafkaProducer) Close() {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := kp.producer.Flush(5000); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	kp.producer.Close()
	<-kp.done
	slog.Info("[KafkaClient] Kafka producer shut down")
}
