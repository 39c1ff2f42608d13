package kafka_client

import "github.com/spacesedan/centiment-forwarder/config"

type KafkaConfig struct {
	Broker  string
	GroupID string
	Topic   string
}

func GetKafkaConfig(cfg config.Config) KafkaConfig {
	return KafkaConfig{
		Broker:  cfg.KafkaBroker,
		GroupID: cfg.KafkaGroupID,
		Topic:   cfg.KafkaTopic,
	}
}
