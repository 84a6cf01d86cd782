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

package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ZaparooProject/zaparoo-storage/pkg/config"
	"github.com/ZaparooProject/zaparoo-storage/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-storage/pkg/service"
	"github.com/ZaparooProject/zaparoo-storage/pkg/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type Flags struct {
	Version *bool
	Now     *bool
	FatTime *bool
	Status  *bool
	Debug   *bool
}

// SetupFlags defines the common CLI flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Now: fs.Bool(
			"now",
			false,
			"print the current epoch seconds and exit",
		),
		FatTime: fs.Bool(
			"fattime",
			false,
			"print the current FAT date/time word and exit",
		),
		Status: fs.Bool(
			"status",
			false,
			"boot the clock and cards, print their state and exit",
		),
		Debug: fs.Bool(
			"debug",
			false,
			"enable debug logging",
		),
	}
}

// Pre parses args and actions any immediate flags that don't require
// environment setup. It reports whether the program should exit.
func (f *Flags) Pre(fs *flag.FlagSet, args []string, out io.Writer) (bool, error) {
	if err := fs.Parse(args); err != nil {
		return true, fmt.Errorf("failed to parse flags: %w", err)
	}
	if *f.Version {
		_, _ = fmt.Fprintf(out, "Zaparoo Storage v%s\n", config.AppVersion)
		return true, nil
	}
	return false, nil
}

// Setup initializes logging and the user config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer) (*config.Instance, error) {
	if err := helpers.EnsureDirectories(helpers.ConfigDir(), helpers.LogDir()); err != nil {
		return nil, fmt.Errorf("error creating directories: %w", err)
	}

	if err := helpers.InitLogging(helpers.LogDir(), writers); err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(afero.NewOsFs(), helpers.ConfigDir(), defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	helpers.SetDebugLogging(cfg.DebugLogging())
	log.Info().Str("config", cfg.Path()).Msg("config loaded")

	return cfg, nil
}

// Post actions the one-shot query flags, which need config and hardware
// access but not the background loops. It reports whether a flag was
// handled and the program should exit.
func (f *Flags) Post(cfg *config.Instance, env service.Env, out io.Writer) (bool, error) {
	if *f.Debug {
		cfg.SetDebugLogging(true)
	}

	if !*f.Now && !*f.FatTime && !*f.Status {
		return false, nil
	}

	svc, err := service.Setup(cfg, env)
	if err != nil {
		return true, err
	}
	defer func() {
		if closeErr := svc.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing storage")
		}
	}()

	switch {
	case *f.Status:
		return true, printStatus(svc, out)
	case *f.Now:
		bootClock(svc)
		_, _ = fmt.Fprintf(out, "%d\n", svc.Clock.Now())
	case *f.FatTime:
		bootClock(svc)
		ft := svc.Clock.FatTime()
		_, _ = fmt.Fprintf(out, "0x%08x %s\n", uint32(ft), ft)
	}
	return true, nil
}

// bootClock boots only the time service. A missing time source is not an
// error for queries: they print the zero value.
func bootClock(svc *service.Services) {
	if err := svc.Clock.Boot(); err != nil {
		log.Warn().Err(err).Msg("clock boot failed")
	}
}

func printStatus(svc *service.Services, out io.Writer) error {
	bootErr := svc.Boot()

	ts, _ := svc.Clock.NowTimestamp()
	_, _ = fmt.Fprintf(out, "clock: state=%s time=%d fat=%s boot=%s\n",
		svc.Clock.State(), ts.Sec, svc.Clock.FatTime(), svc.Clock.BootID())

	for i := range svc.Storage.CardCount() {
		card, ok := svc.Storage.CardByIndex(i)
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(out, "card %s: %s\n", card.Name(), card.Status())
	}

	// a missing clock is shown above; only card failures fail the command
	if errors.Is(bootErr, storage.ErrDeviceInit) {
		return bootErr
	}
	return nil
}
