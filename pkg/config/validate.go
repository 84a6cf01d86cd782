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

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("duration", validateDuration)
	v.RegisterStructValidation(validateStorage, Storage{})
	return v
}

// Validate checks field formats and cross references between sections.
func Validate(vals *Values) error {
	err := validate.Struct(vals)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// validateDuration checks if string is a valid positive Go duration.
func validateDuration(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d > 0
}

// validateStorage requires unique names and that every card references a
// configured bus of its own. A bus is one port and chip select, so a second
// card on it would answer with the first card's responses.
func validateStorage(sl validator.StructLevel) {
	storage, ok := sl.Current().Interface().(Storage)
	if !ok {
		return
	}

	buses := make(map[string]bool, len(storage.SPI))
	for i, bus := range storage.SPI {
		if buses[bus.Name] {
			sl.ReportError(storage.SPI[i].Name, fmt.Sprintf("SPI[%d].Name", i), "Name", "unique", "")
		}
		buses[bus.Name] = true
	}

	cards := make(map[string]bool, len(storage.SDCards))
	claimed := make(map[string]bool, len(storage.SDCards))
	for i, card := range storage.SDCards {
		if cards[card.Name] {
			sl.ReportError(card.Name, fmt.Sprintf("SDCards[%d].Name", i), "Name", "unique", "")
		}
		cards[card.Name] = true

		switch {
		case card.SPI == "":
		case !buses[card.SPI]:
			sl.ReportError(card.SPI, fmt.Sprintf("SDCards[%d].SPI", i), "SPI", "spi_bus", "")
		case claimed[card.SPI]:
			sl.ReportError(card.SPI, fmt.Sprintf("SDCards[%d].SPI", i), "SPI", "spi_bus_shared", "")
		}
		claimed[card.SPI] = true
	}
}
