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
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Source is something that can tell the time. ReadTime must not block and
// must return an error wrapping ErrUnavailable instead of failing hard when
// the hardware is absent, not initialized or reports an unset clock.
type Source interface {
	Name() string
	ReadTime() (Timestamp, error)
}

// Setter is implemented by sources that can be seeded with a known time.
type Setter interface {
	SetTime(ts Timestamp) error
}

// Chain queries sources in priority order. It is itself a Source and a
// Setter: seeding the chain seeds every settable member.
type Chain struct {
	sources []Source
}

// NewChain returns a chain over sources, highest priority first. Nil
// sources are skipped.
func NewChain(sources ...Source) *Chain {
	c := &Chain{sources: make([]Source, 0, len(sources))}
	for _, src := range sources {
		if src != nil {
			c.sources = append(c.sources, src)
		}
	}
	return c
}

func (*Chain) Name() string {
	return "chain"
}

// Sources returns the chain members in priority order.
func (c *Chain) Sources() []Source {
	out := make([]Source, len(c.sources))
	copy(out, c.sources)
	return out
}

// ReadTime returns the first successful reading.
func (c *Chain) ReadTime() (Timestamp, error) {
	for _, src := range c.sources {
		ts, err := src.ReadTime()
		if err == nil {
			return ts, nil
		}
		if !errors.Is(err, ErrUnavailable) {
			log.Debug().Err(err).Str("source", src.Name()).Msg("clock source read failed")
		}
	}
	return Timestamp{}, ErrUnavailable
}

// SetTime seeds every settable source with ts. Unavailable hardware is
// skipped quietly; other failures are joined.
func (c *Chain) SetTime(ts Timestamp) error {
	var errs []error
	for _, src := range c.sources {
		setter, ok := src.(Setter)
		if !ok {
			continue
		}
		if err := setter.SetTime(ts); err != nil {
			if errors.Is(err, ErrUnavailable) {
				log.Debug().Err(err).Str("source", src.Name()).Msg("skipping seed of unavailable source")
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
		}
	}
	return errors.Join(errs...)
}
