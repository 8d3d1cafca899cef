package searchschemes

import "time"

type Config struct {
	Index         string
	MaxSearchSize int
	DefaultSize   int
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Index:         "schemes",
		MaxSearchSize: 50,
		DefaultSize:   10,
		Timeout:       10 * time.Second,
	}
}
