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

// Package storage enumerates the SPI buses and SD cards attached to the
// device, brings them up at boot and writes timestamped files to their
// mounted volumes.
package storage

import (
	"fmt"
	"slices"

	"github.com/ZaparooProject/zaparoo-storage/pkg/helpers/syncutil"
)

// Named is anything a Registry can look up by name.
type Named interface {
	Name() string
}

// Registry is an ordered, concurrency-safe collection of devices addressable
// by index or name.
type Registry[T Named] struct {
	items []T
	mu    syncutil.RWMutex
}

func NewRegistry[T Named]() *Registry[T] {
	return &Registry[T]{}
}

// Add appends item. Names must be unique within a registry.
func (r *Registry[T]) Add(item T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := item.Name()
	for _, existing := range r.items {
		if existing.Name() == name {
			return fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}
	r.items = append(r.items, item)
	return nil
}

func (r *Registry[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// ByIndex returns the item at i. Any i outside [0, Count()) reports false.
func (r *Registry[T]) ByIndex(i int) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.items) {
		var zero T
		return zero, false
	}
	return r.items[i], true
}

func (r *Registry[T]) ByName(name string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Name() == name {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// All returns a snapshot of the registered items in insertion order.
func (r *Registry[T]) All() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}
