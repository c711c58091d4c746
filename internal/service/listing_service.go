package service

import (
	"context"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/valdisdev1/mortgageProt/internal/domain"
)

// PropertyReader is the read half of the contract boundary.
type PropertyReader interface {
	TokenIDCounter(ctx context.Context) (*big.Int, error)
	GetAllProperties(ctx context.Context) ([]domain.PropertyRecord, error)
}

type Trigger int

const (
	// TriggerMount is the first load. Like TriggerManual it skips the
	// minimum interval.
	TriggerMount Trigger = iota
	TriggerManual
	TriggerAuto
)

func (t Trigger) String() string {
	switch t {
	case TriggerMount:
		return "mount"
	case TriggerManual:
		return "manual"
	case TriggerAuto:
		return "auto"
	default:
		return "unknown"
	}
}

func (t Trigger) forced() bool {
	return t != TriggerAuto
}

// ListingService keeps the displayed property list in step with the
// contract. At most one fetch runs at a time and overlapping requests are
// dropped.
type ListingService struct {
	reader       PropertyReader
	pollInterval time.Duration
	minInterval  time.Duration
	now          func() time.Time
	log          *zap.Logger

	mu        sync.Mutex
	fetching  bool
	lastStart time.Time

	stateMu sync.RWMutex
	state   domain.DisplayState
}

func NewListingService(reader PropertyReader, pollInterval, minInterval time.Duration, log *zap.Logger) *ListingService {
	return &ListingService{
		reader:       reader,
		pollInterval: pollInterval,
		minInterval:  minInterval,
		now:          time.Now,
		log:          log,
		state:        domain.DisplayState{TotalSupply: new(big.Int)},
	}
}

// SetClock replaces the time source.
func (s *ListingService) SetClock(now func() time.Time) {
	s.now = now
}

// State returns the displayed state. The Properties slice is shared and
// must not be modified.
func (s *ListingService) State() domain.DisplayState {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Refresh fetches the count and records if the trigger is admitted. It
// reports whether a fetch ran. On a read error the displayed state is kept.
func (s *ListingService) Refresh(ctx context.Context, trigger Trigger) (bool, error) {
	if !s.begin(trigger) {
		s.log.Debug("Refresh dropped", zap.Stringer("trigger", trigger))
		return false, nil
	}
	defer s.end()

	var (
		supply  *big.Int
		records []domain.PropertyRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		supply, err = s.reader.TokenIDCounter(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.reader.GetAllProperties(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Error fetching properties",
			zap.Stringer("trigger", trigger),
			zap.Error(err))
		return true, err
	}

	s.apply(supply, records)
	return true, nil
}

// Run loads once, then polls until ctx is cancelled.
func (s *ListingService) Run(ctx context.Context) {
	_, _ = s.Refresh(ctx, TriggerMount)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.Refresh(ctx, TriggerAuto)
		case <-ctx.Done():
			return
		}
	}
}

func (s *ListingService) begin(trigger Trigger) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetching {
		return false
	}
	now := s.now()
	if !trigger.forced() && !s.lastStart.IsZero() && now.Sub(s.lastStart) < s.minInterval {
		return false
	}
	s.fetching = true
	s.lastStart = now
	return true
}

func (s *ListingService) end() {
	s.mu.Lock()
	s.fetching = false
	s.mu.Unlock()
}

// apply replaces each part of the state only when its value changed.
func (s *ListingService) apply(supply *big.Int, records []domain.PropertyRecord) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	changed := false
	if supply != nil && (s.state.TotalSupply == nil || s.state.TotalSupply.Cmp(supply) != 0) {
		s.state.TotalSupply = supply
		changed = true
	}
	if !domain.RecordsEqual(s.state.Properties, records) {
		s.state.Properties = records
		changed = true
	}
	if !changed {
		return
	}

	s.state.Generation++
	s.state.UpdatedAt = s.now()
	s.log.Info("Property list updated",
		zap.String("total_supply", s.state.TotalSupply.String()),
		zap.Int("properties", len(s.state.Properties)),
		zap.Uint64("generation", s.state.Generation))
}
