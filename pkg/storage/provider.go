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
	"fmt"

	"github.com/ZaparooProject/zaparoo-storage/pkg/config"
	"periph.io/x/conn/v3/physic"
)

// Provider exposes the buses and cards of a device. Applications with a
// fixed hardware layout may supply their own implementation.
type Provider interface {
	SPICount() int
	SPIByIndex(i int) (*SPIBus, bool)
	SPIByName(name string) (*SPIBus, bool)
	CardCount() int
	CardByIndex(i int) (Card, bool)
	CardByName(name string) (Card, bool)
}

// DefaultProvider keeps buses and cards in registries populated at startup.
type DefaultProvider struct {
	spis  *Registry[*SPIBus]
	cards *Registry[Card]
}

func NewProvider() *DefaultProvider {
	return &DefaultProvider{
		spis:  NewRegistry[*SPIBus](),
		cards: NewRegistry[Card](),
	}
}

// NewProviderFromConfig registers every configured bus and card. open is
// passed to each bus; nil means spireg.Open.
func NewProviderFromConfig(buses []config.SPI, cards []config.SDCard, open PortOpener) (*DefaultProvider, error) {
	p := NewProvider()

	for _, bc := range buses {
		bus := NewSPIBus(bc.Name, bc.Port, physic.Frequency(bc.MaxHz)*physic.Hertz, open)
		if err := p.AddSPI(bus); err != nil {
			return nil, err
		}
	}

	for _, cc := range cards {
		bus, ok := p.SPIByName(cc.SPI)
		if !ok {
			return nil, fmt.Errorf("%w: card %s uses %q", ErrUnknownBus, cc.Name, cc.SPI)
		}
		if err := p.AddCard(NewSDCard(cc.Name, bus, cc.MountPath)); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *DefaultProvider) AddSPI(bus *SPIBus) error {
	if err := p.spis.Add(bus); err != nil {
		return fmt.Errorf("failed to add spi bus: %w", err)
	}
	return nil
}

// AddCard registers card. An SD card must be the only card on its bus.
func (p *DefaultProvider) AddCard(card Card) error {
	if sd, ok := card.(*SDCard); ok && sd.Bus() != nil {
		if owner, taken := p.busOwner(sd.Bus()); taken {
			return fmt.Errorf("%w: %s is on %s with %s", ErrBusInUse, sd.Name(), sd.Bus().Name(), owner)
		}
	}
	if err := p.cards.Add(card); err != nil {
		return fmt.Errorf("failed to add card: %w", err)
	}
	return nil
}

func (p *DefaultProvider) busOwner(bus *SPIBus) (string, bool) {
	for _, card := range p.cards.All() {
		if sd, ok := card.(*SDCard); ok && sd.Bus() == bus {
			return sd.Name(), true
		}
	}
	return "", false
}

func (p *DefaultProvider) SPICount() int {
	return p.spis.Count()
}

func (p *DefaultProvider) SPIByIndex(i int) (*SPIBus, bool) {
	return p.spis.ByIndex(i)
}

func (p *DefaultProvider) SPIByName(name string) (*SPIBus, bool) {
	return p.spis.ByName(name)
}

func (p *DefaultProvider) CardCount() int {
	return p.cards.Count()
}

func (p *DefaultProvider) CardByIndex(i int) (Card, bool) {
	return p.cards.ByIndex(i)
}

func (p *DefaultProvider) CardByName(name string) (Card, bool) {
	return p.cards.ByName(name)
}

// Close releases every bus.
func (p *DefaultProvider) Close() error {
	var firstErr error
	for _, bus := range p.spis.All() {
		if err := bus.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
