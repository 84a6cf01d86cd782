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

package storage

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Begin initializes the driver layer and then every card p provides. All
// cards are attempted; the returned error wraps ErrDeviceInit and each
// failure. Nothing is retried.
func Begin(drv Driver, p Provider) error {
	if drv != nil {
		if err := drv.Init(); err != nil {
			return fmt.Errorf("%w: driver: %w", ErrDeviceInit, err)
		}
	}

	var errs []error
	n := p.CardCount()
	for i := range n {
		card, ok := p.CardByIndex(i)
		if !ok {
			errs = append(errs, fmt.Errorf("card %d of %d missing", i, n))
			continue
		}

		err := card.Init()
		if err == nil && card.Status()&StatusNoInit != 0 {
			err = fmt.Errorf("status %s after init", card.Status())
		}
		if err != nil {
			log.Error().Err(err).Str("card", card.Name()).Msg("card init failed")
			errs = append(errs, fmt.Errorf("%s: %w", card.Name(), err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrDeviceInit, errors.Join(errs...))
	}
	log.Info().Int("cards", n).Msg("storage devices ready")
	return nil
}
