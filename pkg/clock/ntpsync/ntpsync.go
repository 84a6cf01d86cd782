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

// Package ntpsync seeds local clock sources from NTP servers. Queries run in
// the background so the clock read path never waits on the network.
package ntpsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-storage/pkg/clock"
	"github.com/beevik/ntp"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	DefaultInterval = 15 * time.Minute
	DefaultTimeout  = 5 * time.Second
)

// QueryFunc matches ntp.QueryWithOptions.
type QueryFunc func(address string, opt ntp.QueryOptions) (*ntp.Response, error)

// Syncer periodically asks the configured servers for the time and seeds
// the setter with the corrected local clock.
type Syncer struct {
	setter   clock.Setter
	clock    clockwork.Clock
	query    QueryFunc
	servers  []string
	interval time.Duration
	timeout  time.Duration
}

type Option func(*Syncer)

func WithClock(clk clockwork.Clock) Option {
	return func(s *Syncer) {
		if clk != nil {
			s.clock = clk
		}
	}
}

func WithQuery(q QueryFunc) Option {
	return func(s *Syncer) {
		if q != nil {
			s.query = q
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New returns a syncer for servers, tried in order on every sync.
func New(setter clock.Setter, servers []string, opts ...Option) *Syncer {
	s := &Syncer{
		setter:   setter,
		servers:  servers,
		clock:    clockwork.NewRealClock(),
		query:    ntp.QueryWithOptions,
		interval: DefaultInterval,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enabled reports whether any server is configured.
func (s *Syncer) Enabled() bool {
	return len(s.servers) > 0
}

// Sync seeds the setter from the first server giving a valid response.
func (s *Syncer) Sync() error {
	if !s.Enabled() {
		return errors.New("no ntp servers configured")
	}

	errs := make([]error, 0, len(s.servers))
	for _, server := range s.servers {
		resp, err := s.query(server, ntp.QueryOptions{Timeout: s.timeout})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", server, err))
			continue
		}
		if err := resp.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid response: %w", server, err))
			continue
		}

		corrected := s.clock.Now().Add(resp.ClockOffset)
		if err := s.setter.SetTime(clock.FromTime(corrected)); err != nil {
			return fmt.Errorf("failed to seed clock from %s: %w", server, err)
		}

		log.Info().
			Str("server", server).
			Dur("offset", resp.ClockOffset).
			Dur("rtt", resp.RTT).
			Msg("clock seeded from ntp")
		return nil
	}
	return fmt.Errorf("ntp sync failed: %w", errors.Join(errs...))
}

// Run syncs immediately and then every interval until ctx is done. Failed
// syncs are logged and retried on the next tick.
func (s *Syncer) Run(ctx context.Context) error {
	if !s.Enabled() {
		log.Debug().Msg("ntp sync disabled")
		return nil
	}

	if err := s.Sync(); err != nil {
		log.Warn().Err(err).Msg("initial ntp sync failed")
	}

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			if err := s.Sync(); err != nil {
				log.Warn().Err(err).Msg("ntp sync failed")
			}
		}
	}
}
