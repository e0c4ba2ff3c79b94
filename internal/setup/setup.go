// Package setup builds the service's components from configuration, each one
// at most once per process.
package setup

import (
	"context"
	"sync"

	"github.com/bornholm/transmute/internal/config"
)

func createFromConfigOnce[T any](fn func(ctx context.Context, conf *config.Config) (T, error)) func(ctx context.Context, conf *config.Config) (T, error) {
	var (
		once   sync.Once
		value  T
		onceEr error
	)

	return func(ctx context.Context, conf *config.Config) (T, error) {
		once.Do(func() {
			value, onceEr = fn(ctx, conf)
		})

		return value, onceEr
	}
}
