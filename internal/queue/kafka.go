package queue

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

const DefaultTopic = "modelhub.notifications"

var _ Notifier = (*KafkaNotifier)(nil)

// KafkaNotifier appends notifications to a kafka topic keyed by model id, so
// the events of one model stay ordered.
type KafkaNotifier struct {
	producer *kafka.Producer
	topic    string
	done     chan struct{}
}

func NewKafkaNotifier(brokers, topic string) (*KafkaNotifier, error) {
	if topic == "" {
		topic = DefaultTopic
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"client.id":         "modelhub",
		"acks":              "all",
	})
	if err != nil {
		return nil, err
	}

	k := &KafkaNotifier{producer: producer, topic: topic, done: make(chan struct{})}
	go k.report()

	return k, nil
}

func (k *KafkaNotifier) Notify(_ context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &k.topic, Partition: kafka.PartitionAny},
		Key:            []byte(n.ModelID),
		Value:          payload,
		Headers:        []kafka.Header{{Key: "kind", Value: []byte(n.Kind)}},
	}, nil)
}

// Close flushes pending messages and closes the producer.
func (k *KafkaNotifier) Close() {
	if left := k.producer.Flush(5000); left > 0 {
		logrus.Warnf("kafka: %d notifications were not delivered", left)
	}
	k.producer.Close()
	<-k.done
}

func (k *KafkaNotifier) report() {
	defer close(k.done)

	for e := range k.producer.Events() {
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				logrus.Errorf("kafka: delivery of %s failed: %v", ev.Key, ev.TopicPartition.Error)
			}
		case kafka.Error:
			logrus.Errorf("kafka: %v", ev)
		}
	}
}
