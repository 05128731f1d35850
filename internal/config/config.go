package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Chat   ChatConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// ChatConfig holds the relay tuning knobs.
type ChatConfig struct {
	HistoryLimit    int // number of backlog messages replayed on join
	DeliveryDelayMs int // delay before a message is marked Delivered
}

// DeliveryDelay returns the Delivered transition delay as a duration.
func (c ChatConfig) DeliveryDelay() time.Duration {
	return time.Duration(c.DeliveryDelayMs) * time.Millisecond
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetDefault("server.address", ":5000")
	viper.SetDefault("chat.historylimit", 50)
	viper.SetDefault("chat.deliverydelayms", 500)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
