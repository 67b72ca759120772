package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/turnilab/turni-backend-go/internal/domain/settings"
	"github.com/turnilab/turni-backend-go/internal/pkg/database"
)

type rateConfigRepository struct {
	db *database.DB
}

func NewRateConfigRepository(db *database.DB) settings.RateConfigRepository {
	return &rateConfigRepository{db: db}
}

// Get implements settings.RateConfigRepository. The table holds at most
// one row; an empty table maps to ErrRateConfigNotFound.
func (r *rateConfigRepository) Get(ctx context.Context) (settings.RateConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, default_rate, default_type, updated_by, updated_at
		FROM rate_config
		ORDER BY updated_at DESC
		LIMIT 1
	`

	var cfg settings.RateConfig
	err := q.QueryRow(ctx, query).Scan(
		&cfg.ID, &cfg.DefaultRate, &cfg.DefaultType, &cfg.UpdatedBy, &cfg.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings.RateConfig{}, settings.ErrRateConfigNotFound
		}
		return settings.RateConfig{}, fmt.Errorf("failed to get rate config: %w", err)
	}

	return cfg, nil
}

// Upsert implements settings.RateConfigRepository.
func (r *rateConfigRepository) Upsert(ctx context.Context, cfg settings.RateConfig) (settings.RateConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO rate_config (id, default_rate, default_type, updated_by, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			default_rate = EXCLUDED.default_rate,
			default_type = EXCLUDED.default_type,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at
		RETURNING id, default_rate, default_type, updated_by, updated_at
	`

	var out settings.RateConfig
	err := q.QueryRow(ctx, query,
		cfg.ID, cfg.DefaultRate, cfg.DefaultType, cfg.UpdatedBy, time.Now(),
	).Scan(&out.ID, &out.DefaultRate, &out.DefaultType, &out.UpdatedBy, &out.UpdatedAt)
	if err != nil {
		return settings.RateConfig{}, fmt.Errorf("failed to upsert rate config: %w", err)
	}

	return out, nil
}
