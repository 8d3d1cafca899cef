package rankeligibleschemes

import "time"

type Config struct {
	MaxCatalogSize int
	Timeout        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxCatalogSize: 100,
		Timeout:        5 * time.Second,
	}
}
