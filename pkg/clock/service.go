// Zaparoo Storage
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Storage.
//
// Zaparoo Storage is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Storage is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Storage.  If not, see <http://www.gnu.org/licenses/>.

package clock

import (
	"context"
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-storage/pkg/helpers/syncutil"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultRefreshInterval is how often Run re-reads the clock sources.
const DefaultRefreshInterval = time.Minute

// State is the boot state of a Service.
type State int

const (
	StateUninitialized State = iota
	StateRecovering
	StateTrusted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRecovering:
		return "recovering"
	case StateTrusted:
		return "trusted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Service owns the epoch cache and the persisted record. Construct one per
// device and share it; tests construct as many independent ones as they like.
type Service struct {
	clock           clockwork.Clock
	chain           *Chain
	store           *Store
	loc             *time.Location
	bootID          string
	last            Timestamp
	refreshInterval time.Duration
	epoch           int64
	state           State
	mu              syncutil.Mutex
	hasTime         bool
}

type Option func(*Service)

// WithClock sets the clock driving the refresh ticker.
func WithClock(clk clockwork.Clock) Option {
	return func(s *Service) {
		if clk != nil {
			s.clock = clk
		}
	}
}

// WithRefreshInterval sets the Run refresh period.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithLocation sets the zone used to expand FAT timestamps.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService returns an uninitialized service. Call Boot before relying on
// Now or FatTime.
func NewService(chain *Chain, store *Store, opts ...Option) *Service {
	s := &Service{
		chain:           chain,
		store:           store,
		clock:           clockwork.NewRealClock(),
		loc:             time.UTC,
		refreshInterval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Boot establishes a trusted time. A live source wins; otherwise the record
// left in the scratch region by a previous run is validated and used. When
// both fail the returned error wraps ErrNoTimeSource and the cache stays at
// zero; callers decide whether that is fatal.
func (s *Service) Boot() error {
	bootID := uuid.New().String()
	s.mu.Lock()
	s.bootID = bootID
	s.state = StateUninitialized
	s.mu.Unlock()

	logger := log.With().Str("boot_id", bootID).Logger()

	ts, err := s.chain.ReadTime()
	if err == nil {
		s.trust(ts)
		logger.Info().Str("time", ts.String()).Msg("clock trusted from live source")
		return nil
	}

	s.setState(StateRecovering)
	logger.Info().Msg("no live clock source, recovering persisted time")

	rec, err := s.store.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("persisted clock record rejected")
		return fmt.Errorf("%w: %w", ErrNoTimeSource, err)
	}

	s.trust(rec.Stamp)
	logger.Info().Str("time", rec.Stamp.String()).Msg("clock recovered from persisted record")
	return nil
}

func (s *Service) trust(ts Timestamp) {
	if err := s.chain.SetTime(ts); err != nil {
		log.Warn().Err(err).Msg("failed to seed clock sources")
	}
	s.persist(ts)

	s.mu.Lock()
	s.cache(ts)
	s.state = StateTrusted
	s.mu.Unlock()
}

func (s *Service) persist(ts Timestamp) {
	if err := s.store.Save(ts); err != nil {
		log.Warn().Err(err).Msg("failed to persist clock record")
	}
}

// cache must be called with mu held.
func (s *Service) cache(ts Timestamp) {
	s.last = ts
	s.epoch = ts.Sec
	s.hasTime = true
}

func (s *Service) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

// Refresh re-reads the sources. On success the cache and the persisted
// record are updated; on failure the cache keeps its previous value.
func (s *Service) Refresh() bool {
	ts, err := s.chain.ReadTime()
	if err != nil {
		return false
	}
	s.persist(ts)

	s.mu.Lock()
	s.cache(ts)
	s.mu.Unlock()
	return true
}

// Now attempts one refresh and returns the cached epoch seconds: the
// latest good reading, or 0 if no time was ever obtained.
func (s *Service) Now() int64 {
	s.Refresh()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// NowTimestamp is Now with nanosecond precision. The bool is false when no
// time was ever obtained.
func (s *Service) NowTimestamp() (Timestamp, bool) {
	s.Refresh()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasTime
}

// FatTime is the filesystem time callback. It reads the sources directly
// and returns the zero sentinel when none is available.
func (s *Service) FatTime() FatTime {
	ts, err := s.chain.ReadTime()
	if err != nil {
		return 0
	}
	return Encode(ts, s.loc)
}

// Location returns the zone used for FAT timestamps.
func (s *Service) Location() *time.Location {
	return s.loc
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BootID identifies the latest Boot call in logs.
func (s *Service) BootID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bootID
}

// Run refreshes the cache every refresh interval until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	ticker := s.clock.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	log.Debug().Dur("interval", s.refreshInterval).Msg("clock refresh loop started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("clock refresh loop stopped")
			return nil
		case <-ticker.Chan():
			if !s.Refresh() {
				log.Debug().Int64("epoch", s.cachedEpoch()).Msg("clock refresh failed, keeping cached time")
			}
		}
	}
}

func (s *Service) cachedEpoch() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}
