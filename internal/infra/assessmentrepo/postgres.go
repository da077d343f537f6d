package assessmentrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AnshBhanushali/Healytics/internal/domain/assessment"
)

// PostgresRepository implements assessment.Repository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert persists one completed assessment.
func (r *PostgresRepository) Insert(ctx context.Context, rec assessment.Record) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO assessments (id, mode, prediction, confidence, top_factors, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.ID, string(rec.Mode), string(rec.Prediction), rec.Confidence, rec.TopFactors, rec.CreatedAt)
	return err
}

// ListRecent returns the newest assessments first.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]assessment.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, mode, prediction, confidence, top_factors, created_at
		FROM assessments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]assessment.Record, 0, limit)
	for rows.Next() {
		var (
			rec        assessment.Record
			mode       string
			prediction string
		)
		if err := rows.Scan(&rec.ID, &mode, &prediction, &rec.Confidence, &rec.TopFactors, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Mode = assessment.Mode(mode)
		rec.Prediction = assessment.RiskTier(prediction)
		records = append(records, rec)
	}
	return records, rows.Err()
}

var _ assessment.Repository = (*PostgresRepository)(nil)
