package assessment

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/AnshBhanushali/Healytics/pkg/errors"
	"github.com/AnshBhanushali/Healytics/pkg/util"
)

// Service exposes the risk-assessment engine to the transport layer.
type Service interface {
	AssessForm(ctx context.Context, in FormInput) (RiskAssessment, error)
	AssessImage(ctx context.Context, mode Mode, upload Upload) (RiskAssessment, error)
	History(ctx context.Context, limit int) ([]Record, error)
	TrendingFactors(ctx context.Context) ([]FactorCount, error)
}

type service struct {
	cfg      Config
	repo     Repository
	store    Store
	analyzer Analyzer
	storage  ObjectStorage
	logger   *slog.Logger
	newRand  func() Rand
	now      func() time.Time
	newID    func() uuid.UUID
}

// NewService wires up the assessment domain.
func NewService(cfg Config, repo Repository, store Store, analyzer Analyzer, storage ObjectStorage, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		repo:     repo,
		store:    store,
		analyzer: analyzer,
		storage:  storage,
		logger:   logger.With("component", "assessment.service"),
		newRand: func() Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		now:   util.NowUTC,
		newID: uuid.New,
	}
}

func (s *service) AssessForm(ctx context.Context, in FormInput) (RiskAssessment, error) {
	vitals, err := ParseVitals(in)
	if err != nil {
		return RiskAssessment{}, err
	}

	key := cacheKey(vitals)
	if cached, ok, err := s.store.GetCached(ctx, key); err != nil {
		s.logger.Warn("assessment cache lookup failed", "error", err)
	} else if ok {
		s.logger.Info("assessment served from cache", "prediction", cached.Prediction)
		return cached, nil
	}

	res := s.run(ModeForm, vitals)
	s.record(ctx, res)
	if err := s.store.SaveCached(ctx, key, res, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("assessment cache save failed", "error", err)
	}
	return res, nil
}

func (s *service) AssessImage(ctx context.Context, mode Mode, upload Upload) (RiskAssessment, error) {
	if mode != ModePrescription && mode != ModeVision {
		return RiskAssessment{}, apperrors.Wrap("invalid_input", fmt.Sprintf("mode %q does not accept uploads", mode), nil)
	}
	if len(upload.Content) == 0 {
		return RiskAssessment{}, apperrors.Wrap("invalid_input", "uploaded file is empty", nil)
	}

	key := objectKey(mode, upload.Filename, s.newID())
	if _, err := s.storage.Put(ctx, key, upload.Content, upload.MimeType); err != nil {
		// The archive is an audit trail, not an assessment input.
		s.logger.Warn("upload archive failed", "key", key, "error", err)
	}

	vitals, err := s.analyzer.ExtractVitals(ctx, mode, upload)
	if err != nil {
		return RiskAssessment{}, apperrors.Wrap("analyzer_error", "vitals extraction failed", err)
	}
	if vitals.Age <= 0 || vitals.SystolicBP <= 0 || vitals.DiastolicBP <= 0 || vitals.Cholesterol <= 0 {
		return RiskAssessment{}, apperrors.Wrap("analyzer_error", "analyzer returned incomplete vitals", nil)
	}

	res := s.run(mode, vitals)
	s.record(ctx, res)
	return res, nil
}

func (s *service) History(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}
	records, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "history lookup failed", err)
	}
	return records, nil
}

func (s *service) TrendingFactors(ctx context.Context) ([]FactorCount, error) {
	items, err := s.store.TopFactors(ctx, s.cfg.TrendingLimit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "trending lookup failed", err)
	}
	return items, nil
}

// run executes the engine pipeline: score, classify, extract factors, map
// recommendations, assemble. One fresh randomness source per assessment.
func (s *service) run(mode Mode, vitals PatientVitals) RiskAssessment {
	rng := s.newRand()
	score := riskScore(vitals, rng)
	tier := classify(score)
	factors := extractFactors(vitals, rng)
	actions := recommendations(factors)
	res := assemble(mode, score, tier, factors, actions)
	s.logger.Info("assessment computed", "mode", mode, "prediction", res.Prediction, "confidence", res.Confidence, "factors", len(factors))
	return res
}

// record persists the assessment and bumps factor counters. Both are best
// effort; a storage hiccup never voids a computed result.
func (s *service) record(ctx context.Context, res RiskAssessment) {
	rec := Record{
		ID:         s.newID(),
		Mode:       res.Mode,
		Prediction: res.Prediction,
		Confidence: res.Confidence,
		TopFactors: factorStrings(res.TopFactors),
		CreatedAt:  s.now(),
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		s.logger.Warn("assessment persist failed", "error", err)
	}
	for _, factor := range res.TopFactors {
		if err := s.store.IncrementFactor(ctx, string(factor)); err != nil {
			s.logger.Warn("factor counter update failed", "factor", factor, "error", err)
			break
		}
	}
}

func cacheKey(v PatientVitals) string {
	return fmt.Sprintf("vitals:%g:%g:%g:%g:%t", v.Age, v.SystolicBP, v.DiastolicBP, v.Cholesterol, v.FamilyHistory)
}

func objectKey(mode Mode, filename string, id uuid.UUID) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%s/%s%s", mode, id, ext)
}

func factorStrings(factors []Factor) []string {
	out := make([]string, len(factors))
	for i, factor := range factors {
		out[i] = string(factor)
	}
	return out
}
