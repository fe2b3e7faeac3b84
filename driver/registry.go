/*
 * Copyright © 2025 Luandevpro, All rights reserved.
 */

package driver

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs an unconnected driver instance.
type Factory func() Driver

var (
	factoryMu sync.RWMutex
	factories = make(map[string]Factory)
)

// Register makes a driver available under the given name. Driver packages
// call it from init, so a second registration for the same name panics to
// prevent accidental overrides.
func Register(name string, fn Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	if fn == nil {
		panic("driver registry: nil factory")
	}
	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("driver registry: driver %q already registered", name))
	}
	factories[name] = fn
}

// New returns a fresh driver instance for the given registered name.
func New(name string) (Driver, error) {
	factoryMu.RLock()
	fn, ok := factories[name]
	factoryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("driver registry: no driver registered with name %q (registered: %v)", name, Names())
	}
	return fn(), nil
}

// Names returns the registered driver names in sorted order.
func Names() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
