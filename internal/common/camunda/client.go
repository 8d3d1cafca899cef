package camunda

import (
	"context"
	"fmt"
	"time"

	"kisan-scheme-workers/internal/common/config"
	"kisan-scheme-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// RetryConfig defines backoff for dependencies that come up after the workers.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxRetries: 10,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

// NewClient dials the Zeebe gateway and verifies it with a topology request.
func NewClient(ctx context.Context, cfg config.CamundaConfig) (zbc.Client, error) {
	client, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: cfg.UsePlaintext,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	if err := HealthCheck(ctx, client, time.Duration(cfg.RequestTimeout)*time.Millisecond); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// HealthCheck sends a topology request bounded by timeout.
func HealthCheck(ctx context.Context, client zbc.Client, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// Retry runs fn until it succeeds, doubling the delay between attempts.
func Retry(ctx context.Context, rc RetryConfig, operation string, log logger.Logger, fn func() error) error {
	var err error
	delay := rc.BaseDelay

	for attempt := 1; attempt <= rc.MaxRetries; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == rc.MaxRetries {
			break
		}

		log.Warn(operation+" failed, retrying", map[string]interface{}{
			"error":       err.Error(),
			"attempt":     attempt,
			"maxRetries":  rc.MaxRetries,
			"nextRetryIn": delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled after %d attempts: %w", operation, attempt, ctx.Err())
		}

		delay *= 2
		if rc.MaxDelay > 0 && delay > rc.MaxDelay {
			delay = rc.MaxDelay
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, rc.MaxRetries, err)
}
