package settings

import "context"

type RateConfigRepository interface {
	Get(ctx context.Context) (RateConfig, error)
	Upsert(ctx context.Context, cfg RateConfig) (RateConfig, error)
}
