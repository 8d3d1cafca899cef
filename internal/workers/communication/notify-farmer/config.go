package notifyfarmer

import "time"

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
