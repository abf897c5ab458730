package config

import (
	"log"

	"github.com/spf13/viper"
)

type Server struct {
	Port string `mapstructure:"port"`
}

type Greenfield struct {
	ServerURL string `mapstructure:"server-url"`
	APIKey    string `mapstructure:"api-key"`
	StoreID   string `mapstructure:"store-id"`
	TimeoutMs int    `mapstructure:"timeout-ms"`
}

type Webhook struct {
	Secret string `mapstructure:"secret"`
}

type KafkaWriter struct {
	BatchSize      int `mapstructure:"batch-size"`
	BatchTimeoutMs int `mapstructure:"batch-timeout-ms"`
}

type KafkaBroker struct {
	URL string `mapstructure:"url"`
}

type KafkaTopic struct {
	InvoiceEvents string `mapstructure:"invoice-events"`
}

type Kafka struct {
	Writer KafkaWriter `mapstructure:"writer"`
	Broker KafkaBroker `mapstructure:"broker"`
	Topic  KafkaTopic  `mapstructure:"topic"`
}

type Metrics struct {
	URL          string `mapstructure:"url"`
	IntervalMs   int    `mapstructure:"interval-ms"`
	CommonLabels string `mapstructure:"common-labels"`
}

type Logs struct {
	URL   string `mapstructure:"url"`
	Level string `mapstructure:"level"`
}

type Config struct {
	Server     Server     `mapstructure:"server"`
	Greenfield Greenfield `mapstructure:"greenfield"`
	Webhook    Webhook    `mapstructure:"webhook"`
	Kafka      Kafka      `mapstructure:"kafka"`
	Metrics    Metrics    `mapstructure:"metrics"`
	Logs       Logs       `mapstructure:"logs"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func MustLoadConfig(path string) *Config {
	config, err := LoadConfig(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("greenfield.timeout-ms", defaultTimeoutMs)
	v.SetDefault("kafka.topic.invoice-events", "invoice-events")
	v.SetDefault("kafka.writer.batch-size", 1)
	v.SetDefault("kafka.writer.batch-timeout-ms", 100)
	v.SetDefault("metrics.interval-ms", 10_000)
	v.SetDefault("logs.level", "info")
}

// secrets are usually provided through the environment rather than config.yaml
func bindEnv(v *viper.Viper) {
	loadDotEnv()

	_ = v.BindEnv("greenfield.server-url", "GREENFIELD_SERVER_URL")
	_ = v.BindEnv("greenfield.api-key", "GREENFIELD_API_KEY")
	_ = v.BindEnv("greenfield.store-id", "GREENFIELD_STORE_ID")
	_ = v.BindEnv("webhook.secret", "WEBHOOK_SECRET")
	_ = v.BindEnv("kafka.broker.url", "KAFKA_BROKER_URL")
	_ = v.BindEnv("logs.url", "LOKI_URL")
}
