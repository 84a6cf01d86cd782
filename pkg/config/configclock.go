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
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultRefreshInterval = time.Minute
	defaultNTPInterval     = 15 * time.Minute
	defaultNTPTimeout      = 5 * time.Second
)

type Clock struct {
	RTCDevice       string   `toml:"rtc_device"`
	ScratchPath     string   `toml:"scratch_path" validate:"required"`
	Timezone        string   `toml:"timezone,omitempty" validate:"omitempty,timezone"`
	RefreshInterval string   `toml:"refresh_interval,omitempty" validate:"omitempty,duration"`
	NTPInterval     string   `toml:"ntp_interval,omitempty" validate:"omitempty,duration"`
	NTPTimeout      string   `toml:"ntp_timeout,omitempty" validate:"omitempty,duration"`
	NTPServers      []string `toml:"ntp_servers,omitempty,multiline" validate:"dive,required"`
	UseSystemClock  bool     `toml:"use_system_clock"`
}

// RTCDevice returns the hardware RTC node, or "" when the RTC is disabled.
func (c *Instance) RTCDevice() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Clock.RTCDevice
}

func (c *Instance) ScratchPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Clock.ScratchPath
}

// Location returns the zone FAT timestamps are written in. An empty
// timezone means UTC; "Local" means the host zone.
func (c *Instance) Location() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.vals.Clock.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.vals.Clock.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.vals.Clock.Timezone).Msg("invalid timezone, using UTC")
		return time.UTC
	}
	return loc
}

func (c *Instance) RefreshInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Clock.RefreshInterval, defaultRefreshInterval)
}

func (c *Instance) SetRefreshInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Clock.RefreshInterval = d.String()
}

func (c *Instance) NTPServers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Clock.NTPServers)
}

func (c *Instance) SetNTPServers(servers []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Clock.NTPServers = slices.Clone(servers)
}

func (c *Instance) NTPInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Clock.NTPInterval, defaultNTPInterval)
}

func (c *Instance) NTPTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Clock.NTPTimeout, defaultNTPTimeout)
}

func (c *Instance) UseSystemClock() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Clock.UseSystemClock
}

func (c *Instance) SetUseSystemClock(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Clock.UseSystemClock = enabled
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		log.Warn().Str("value", s).Msg("invalid duration in config, using default")
		return fallback
	}
	return d
}
