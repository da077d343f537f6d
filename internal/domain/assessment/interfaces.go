package assessment

import (
	"context"
	"io"
	"time"
)

// Analyzer derives a vitals-equivalent signal from an uploaded image. The
// derivation itself is owned by an external service; this engine only
// consumes the result.
type Analyzer interface {
	ExtractVitals(ctx context.Context, mode Mode, upload Upload) (PatientVitals, error)
}

// ObjectStorage archives uploaded files (S3-compatible or in-memory).
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredObject, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// StoredObject captures persisted blob metadata.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}

// Repository persists completed assessments for the history listing.
type Repository interface {
	Insert(ctx context.Context, rec Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

// Store caches results and tracks factor frequency.
type Store interface {
	GetCached(ctx context.Context, key string) (RiskAssessment, bool, error)
	SaveCached(ctx context.Context, key string, res RiskAssessment, ttl time.Duration) error
	IncrementFactor(ctx context.Context, factor string) error
	TopFactors(ctx context.Context, limit int) ([]FactorCount, error)
}
