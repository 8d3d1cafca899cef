package generateschemecatalog

import "time"

type Config struct {
	Timeout time.Duration
	Seed    int64 // 0 uses the process-wide random source
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
