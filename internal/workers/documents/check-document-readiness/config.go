package checkdocumentreadiness

import "time"

type Config struct {
	MaxDocuments int
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxDocuments: 50,
		Timeout:      5 * time.Second,
	}
}
