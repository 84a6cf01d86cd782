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

// Package service wires the clock and storage packages into the daemon:
// it boots the time service, brings up the configured cards and keeps the
// clock refreshed until stopped.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ZaparooProject/zaparoo-storage/pkg/clock"
	"github.com/ZaparooProject/zaparoo-storage/pkg/clock/ntpsync"
	"github.com/ZaparooProject/zaparoo-storage/pkg/config"
	"github.com/ZaparooProject/zaparoo-storage/pkg/storage"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Env holds the host dependencies. Zero fields use the real host.
type Env struct {
	Fs       afero.Fs
	Clock    clockwork.Clock
	Driver   storage.Driver
	Region   clock.Region
	OpenPort storage.PortOpener
	Query    ntpsync.QueryFunc
}

func (e Env) withDefaults() Env {
	if e.Fs == nil {
		e.Fs = afero.NewOsFs()
	}
	if e.Clock == nil {
		e.Clock = clockwork.NewRealClock()
	}
	if e.Driver == nil {
		e.Driver = storage.HostDriver{}
	}
	return e
}

// Services is the assembled daemon.
type Services struct {
	Clock    *clock.Service
	Chain    *clock.Chain
	Storage  *storage.DefaultProvider
	Syncer   *ntpsync.Syncer
	cfg      *config.Instance
	env      Env
	bootTook time.Duration
}

// Setup builds every component from cfg without touching hardware.
func Setup(cfg *config.Instance, env Env) (*Services, error) {
	env = env.withDefaults()

	chain := newChain(cfg, env.Clock)

	region := env.Region
	if region == nil {
		region = clock.NewFileRegion(env.Fs, cfg.ScratchPath(), clock.RecordSize)
	}

	clockSvc := clock.NewService(
		chain,
		clock.NewStore(region),
		clock.WithClock(env.Clock),
		clock.WithRefreshInterval(cfg.RefreshInterval()),
		clock.WithLocation(cfg.Location()),
	)

	provider, err := storage.NewProviderFromConfig(cfg.SPIBuses(), cfg.SDCards(), env.OpenPort)
	if err != nil {
		return nil, fmt.Errorf("failed to set up storage devices: %w", err)
	}

	syncer := ntpsync.New(
		chain,
		cfg.NTPServers(),
		ntpsync.WithClock(env.Clock),
		ntpsync.WithQuery(env.Query),
		ntpsync.WithInterval(cfg.NTPInterval()),
		ntpsync.WithTimeout(cfg.NTPTimeout()),
	)

	return &Services{
		Clock:   clockSvc,
		Chain:   chain,
		Storage: provider,
		Syncer:  syncer,
		cfg:     cfg,
		env:     env,
	}, nil
}

// newChain orders the sources: hardware RTC, the seeded timer and, when
// enabled, the host wall clock.
func newChain(cfg *config.Instance, clk clockwork.Clock) *clock.Chain {
	var sources []clock.Source
	if dev := cfg.RTCDevice(); dev != "" {
		sources = append(sources, clock.NewRTC(dev))
	}
	sources = append(sources, clock.NewTimer(clk))
	if cfg.UseSystemClock() {
		sources = append(sources, clock.NewSystem(clk))
	}

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name())
	}
	log.Debug().Strs("sources", names).Msg("clock sources")

	return clock.NewChain(sources...)
}

// Boot establishes the time and initializes the cards. Both halves always
// run; the returned error joins whatever failed. A clock failure leaves FAT
// times at zero, a card failure leaves that card unusable.
func (s *Services) Boot() error {
	start := s.env.Clock.Now()
	defer func() {
		s.bootTook = s.env.Clock.Since(start)
	}()

	var errs []error

	if err := s.Clock.Boot(); err != nil {
		log.Warn().Err(err).Msg("no trusted time, file timestamps will be unset")
		errs = append(errs, err)
	}

	if err := storage.Begin(s.env.Driver, s.Storage); err != nil {
		errs = append(errs, err)
	}

	s.writeBootLogs()
	return errors.Join(errs...)
}

// writeBootLogs appends a line to the log file of every ready card that
// has one configured.
func (s *Services) writeBootLogs() {
	for _, cc := range s.cfg.SDCards() {
		if cc.LogFile == "" || cc.MountPath == "" {
			continue
		}
		card, ok := s.Storage.CardByName(cc.Name)
		if !ok || card.Status()&storage.StatusNoInit != 0 {
			log.Debug().Str("card", cc.Name).Msg("skipping boot log, card not ready")
			continue
		}
		if err := s.writeBootLog(cc); err != nil {
			log.Warn().Err(err).Str("card", cc.Name).Msg("failed to write boot log")
		}
	}
}

func (s *Services) writeBootLog(cc config.SDCard) error {
	vol := s.Volume(cc.MountPath)
	f, err := vol.Append(cc.LogFile)
	if err != nil {
		return err
	}

	ts, _ := s.Clock.NowTimestamp()
	_, err = f.Printf("boot %s state=%s time=%d fat=%s version=%s\n",
		s.Clock.BootID(), s.Clock.State(), ts.Sec, s.Clock.FatTime(), config.AppVersion)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

// BootDuration is how long the last Boot took on the service clock.
func (s *Services) BootDuration() time.Duration {
	return s.bootTook
}

// Volume returns a volume at mountPath stamped by the clock service.
func (s *Services) Volume(mountPath string) *storage.Volume {
	return storage.NewVolume(s.env.Fs, mountPath, s.Clock.FatTime, s.Clock.Location())
}

// Run keeps the clock refreshed and NTP synced until ctx is done.
func (s *Services) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Clock.Run(ctx)
	})
	g.Go(func() error {
		return s.Syncer.Run(ctx)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("service loop failed: %w", err)
	}
	return nil
}

// Close releases the storage buses.
func (s *Services) Close() error {
	if err := s.Storage.Close(); err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}

// Start sets up and boots the daemon and runs it in the background. Boot
// failures are logged and the daemon keeps running degraded. Calling stop
// shuts it down and waits for cleanup; done closes once cleanup finished.
func Start(
	cfg *config.Instance,
	env Env,
) (svc *Services, stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	svc, err = Setup(cfg, env)
	if err != nil {
		return nil, nil, nil, err
	}

	if bootErr := svc.Boot(); bootErr != nil {
		log.Error().Err(bootErr).Dur("took", svc.BootDuration()).Msg("boot completed with errors")
	} else {
		log.Info().Dur("took", svc.BootDuration()).Msg("boot completed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	doneCh := make(chan struct{})
	runErr := make(chan error, 1)

	go func() {
		runErr <- svc.Run(ctx)

		log.Info().Msg("service context cancelled, running cleanup")
		if closeErr := svc.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing storage")
		}
		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = sync.OnceValue(func() error {
		cancel()
		<-doneCh
		return <-runErr
	})
	return svc, stop, doneCh, nil
}
