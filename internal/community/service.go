package community

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/spigell/talentgraph/internal/logger"
	"github.com/spigell/talentgraph/internal/profile"
)

// Snapshot is a published partition of a candidate population.
type Snapshot struct {
	ID          uuid.UUID          `json:"id"`
	ComputedAt  time.Time          `json:"computed_at"`
	Fingerprint string             `json:"fingerprint"`
	Communities []CommunityProfile `json:"communities"`
	Fallback    bool               `json:"fallback"`
}

// Service keeps the last computed partition and recomputes it on its own
// worker pool, away from per-pair scoring.
type Service struct {
	detector *Detector
	pool     *ants.Pool
	latest   atomic.Pointer[Snapshot]
	running  atomic.Bool
	logger   *zap.Logger
}

// NewService creates a service running detections on a pool of the given size.
func NewService(d *Detector, workers int, log *zap.Logger) (*Service, error) {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("creating detection pool: %w", err)
	}

	return &Service{detector: d, pool: pool, logger: log}, nil
}

// Release stops the worker pool.
func (s *Service) Release() {
	s.pool.Release()
}

// Latest returns the last published snapshot or nil. It never blocks on a
// running detection.
func (s *Service) Latest() *Snapshot {
	return s.latest.Load()
}

// Stale reports whether candidates differ from the population of the latest snapshot.
func (s *Service) Stale(candidates []*profile.Candidate) bool {
	latest := s.Latest()
	if latest == nil {
		return true
	}
	return latest.Fingerprint != Fingerprint(candidates)
}

// Run detects communities synchronously and publishes the snapshot.
func (s *Service) Run(ctx context.Context, candidates []*profile.Candidate) (*Snapshot, error) {
	detection, err := s.detector.Detect(ctx, candidates)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{
		ID:          uuid.New(),
		ComputedAt:  time.Now().UTC(),
		Fingerprint: Fingerprint(candidates),
		Communities: detection.Communities,
		Fallback:    detection.Fallback,
	}
	s.latest.Store(snapshot)

	s.logger.Info("community snapshot published",
		zap.String(logger.FieldSnapshot, snapshot.ID.String()),
		zap.Int("communities", len(snapshot.Communities)),
	)
	return snapshot, nil
}

// Refresh schedules a detection on the service pool and returns a channel
// closed when it finishes. It returns false without scheduling anything when
// a detection is already in flight.
func (s *Service) Refresh(ctx context.Context, candidates []*profile.Candidate) (<-chan struct{}, bool) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Debug("community refresh already in flight")
		return nil, false
	}

	done := make(chan struct{})
	err := s.pool.Submit(func() {
		defer close(done)
		defer s.running.Store(false)

		if _, err := s.Run(ctx, candidates); err != nil {
			s.logger.Error("community refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		s.running.Store(false)
		s.logger.Error("scheduling community refresh", zap.Error(err))
		return nil, false
	}
	return done, true
}

// Fingerprint identifies a candidate population independently of its order.
func Fingerprint(candidates []*profile.Candidate) string {
	sorted := make([]*profile.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c != nil {
			sorted = append(sorted, c)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, c := range sorted {
		// encoding a plain record cannot fail
		_ = enc.Encode(c)
	}
	return hex.EncodeToString(h.Sum(nil))
}
