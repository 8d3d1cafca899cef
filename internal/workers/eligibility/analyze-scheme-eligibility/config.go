package analyzeschemeeligibility

import "time"

type Config struct {
	CacheTTL time.Duration
	Timeout  time.Duration
	Seed     int64 // 0 uses the process-wide random source
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  10 * time.Second,
	}
}
