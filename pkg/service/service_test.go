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

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-storage/pkg/clock"
	"github.com/ZaparooProject/zaparoo-storage/pkg/config"
	"github.com/ZaparooProject/zaparoo-storage/pkg/storage"
	testhelpers "github.com/ZaparooProject/zaparoo-storage/pkg/testing/helpers"
	"github.com/beevik/ntp"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/spi"
)

const testConfig = `config_schema = 1

[clock]
rtc_device = ""
scratch_path = "/dev/shm/test.rtc"
refresh_interval = "1m"

[[storage.spi]]
name = "spi0"
port = "SPI0.0"

[[storage.sd_card]]
name = "sd0"
spi = "spi0"
mount_path = "/media/sd0"
log_file = "boot.log"
`

var errNoNetwork = errors.New("network unreachable")

func newTestConfig(t *testing.T, fs afero.Fs, extra string) *config.Instance {
	t.Helper()
	h := &testhelpers.FSHelper{Fs: fs}
	_, err := h.WriteConfig("/config", testConfig+extra)
	require.NoError(t, err)
	cfg, err := config.NewConfig(fs, "/config", config.BaseDefaults)
	require.NoError(t, err)
	return cfg
}

func testEnv(fs afero.Fs, clk clockwork.Clock, region clock.Region, port spi.PortCloser) Env {
	return Env{
		Fs:     fs,
		Clock:  clk,
		Region: region,
		Driver: storage.DriverFunc(func() error { return nil }),
		OpenPort: func(string) (spi.PortCloser, error) {
			return port, nil
		},
		Query: func(string, ntp.QueryOptions) (*ntp.Response, error) {
			return nil, errNoNetwork
		},
	}
}

func TestBootRecoversAndWritesLog(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs, "")
	fake := clockwork.NewFakeClock()

	// the scratch file left behind by the previous run
	h := &testhelpers.FSHelper{Fs: fs}
	require.NoError(t, h.SeedScratch(cfg.ScratchPath(), clock.Timestamp{Sec: 1_700_000_000}))

	svc, err := Setup(cfg, testEnv(fs, fake, nil, testhelpers.SDCardPort(0x01)))
	require.NoError(t, err)
	require.NoError(t, svc.Boot())

	assert.Equal(t, clock.StateTrusted, svc.Clock.State())
	assert.Equal(t, int64(1_700_000_000), svc.Clock.Now())
	testhelpers.AssertFatTime(t, svc.Clock.FatTime(), time.Unix(1_700_000_000, 0).UTC())

	data, err := afero.ReadFile(fs, "/media/sd0/boot.log")
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.HasPrefix(line, "boot "+svc.Clock.BootID()))
	assert.Contains(t, line, "state=trusted")
	assert.Contains(t, line, "time=1700000000")
	assert.Contains(t, line, "fat=2023-11-14 22:13:20")

	names, err := h.ListFiles("/media/sd0")
	require.NoError(t, err)
	assert.Equal(t, []string{"boot.log"}, names)

	mtime, err := h.ModTime("/media/sd0/boot.log")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC), mtime)

	require.NoError(t, svc.Close())
}

func TestBootWithoutTimeSource(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs, "")
	region := clock.NewMemRegion(clock.RecordSize, strings.NewReader(strings.Repeat("\x5a", clock.RecordSize)))

	svc, err := Setup(cfg, testEnv(fs, clockwork.NewFakeClock(), region, testhelpers.SDCardPort(0x01)))
	require.NoError(t, err)

	err = svc.Boot()
	require.ErrorIs(t, err, clock.ErrNoTimeSource)
	assert.NotErrorIs(t, err, storage.ErrDeviceInit)
	assert.Equal(t, int64(0), svc.Clock.Now())

	// the card still came up and logged an unknown time
	data, err := afero.ReadFile(fs, "/media/sd0/boot.log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "fat=unknown")
}

func TestBootCardMissing(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs, "")

	svc, err := Setup(cfg, testEnv(fs, clockwork.NewFakeClock(), clock.NewMemRegion(clock.RecordSize, nil), testhelpers.SDCardPort(0xff)))
	require.NoError(t, err)

	err = svc.Boot()
	require.ErrorIs(t, err, storage.ErrDeviceInit)
	require.ErrorIs(t, err, storage.ErrNoCard)

	h := &testhelpers.FSHelper{Fs: fs}
	assert.False(t, h.FileExists("/media/sd0/boot.log"))
}

func TestSetupChainOrder(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs, "")
	cfg.SetUseSystemClock(true)

	svc, err := Setup(cfg, testEnv(fs, clockwork.NewFakeClock(), nil, nil))
	require.NoError(t, err)

	names := make([]string, 0, 2)
	for _, src := range svc.Chain.Sources() {
		names = append(names, src.Name())
	}
	assert.Equal(t, []string{"timer", "system"}, names)
	assert.False(t, svc.Syncer.Enabled())
}

func TestSetupUnknownBus(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs, "")
	cfg.SetStorage(config.Storage{SDCards: []config.SDCard{{Name: "sd0", SPI: "nope"}}})

	_, err := Setup(cfg, testEnv(fs, clockwork.NewFakeClock(), nil, nil))
	require.ErrorIs(t, err, storage.ErrUnknownBus)
}

func TestRunSeedsFromNTP(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs, "")
	cfg.SetNTPServers([]string{"pool.ntp.org"})
	cfg.SetStorage(config.Storage{})

	now := time.Date(2025, time.June, 1, 8, 0, 0, 0, time.UTC)
	fake := clockwork.NewFakeClockAt(now)
	env := testEnv(fs, fake, clock.NewMemRegion(clock.RecordSize, nil), nil)
	env.Query = func(addr string, _ ntp.QueryOptions) (*ntp.Response, error) {
		return &ntp.Response{
			Time:          now,
			ReferenceTime: now.Add(-time.Minute),
			Stratum:       2,
		}, nil
	}

	svc, err := Setup(cfg, env)
	require.NoError(t, err)
	require.ErrorIs(t, svc.Boot(), clock.ErrNoTimeSource)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Run(ctx)
	}()

	// refresh ticker plus ntp ticker
	require.NoError(t, fake.BlockUntilContext(ctx, 2))
	fake.Advance(time.Minute)

	assert.Eventually(t, func() bool {
		ts, ok := svc.Clock.NowTimestamp()
		return ok && ts.Sec >= now.Unix()
	}, time.Second, 5*time.Millisecond)
	assert.False(t, svc.Clock.FatTime().IsZero())

	cancel()
	require.NoError(t, <-done)
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs, "")
	port := testhelpers.SDCardPort(0x01)

	svc, stop, done, err := Start(cfg, testEnv(fs, clockwork.NewFakeClock(), clock.NewMemRegion(clock.RecordSize, nil), port))
	require.NoError(t, err)
	require.NotNil(t, svc)

	require.NoError(t, stop())
	require.NoError(t, stop())

	select {
	case <-done:
	default:
		t.Fatal("done not closed after stop")
	}

	// closing the storage verified all expected SPI traffic happened
	assert.Equal(t, len(port.Ops), port.Count, fmt.Sprintf("spi ops consumed: %d", port.Count))
}

func TestStartTimesBootOnServiceClock(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := newTestConfig(t, fs, "")
	fake := clockwork.NewFakeClock()

	env := testEnv(fs, fake, clock.NewMemRegion(clock.RecordSize, nil), testhelpers.SDCardPort(0x01))
	env.Driver = storage.DriverFunc(func() error {
		// driver bring-up takes a while on real hardware
		fake.Advance(3 * time.Second)
		return nil
	})

	svc, stop, _, err := Start(cfg, env)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, svc.BootDuration())
	require.NoError(t, stop())
}
