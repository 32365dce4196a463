package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/bjacksonJaxSun/Epstein-sub000/internal/domain"
)

const probeAttempts = 3

// Probe polls the health endpoint until it answers or attempts run out.
// An auth failure stops the probe immediately.
func Probe(ctx context.Context, client *Client, delay time.Duration, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	err := retry.Do(
		func() error {
			return client.Health(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(probeAttempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, domain.ErrAuthFailed)
		}),
		retry.OnRetry(func(n uint, err error) {
			logger.Info("health probe retry", "attempt", n+1, "url", client.BaseURL(), "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("server at %s not ready: %w", client.BaseURL(), err)
	}
	return nil
}
