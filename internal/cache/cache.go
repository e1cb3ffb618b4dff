// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package cache provides request-coalescing memoization, used to avoid
// refetching registry responses within a run.
package cache

import (
	"sync"

	"github.com/pkg/errors"
)

// Cache memoizes the result of a fetch per key.
type Cache interface {
	Get(any) (any, error)
	Set(any, func() (any, error)) error
	GetOrSet(any, func() (any, error)) (any, error)
	Del(any)
}

// ErrNotExist is returned when a key does not exist in the cache.
var ErrNotExist = errors.New("does not exist")

// CoalescingMemoryCache is an in-memory Cache that coalesces concurrent
// requests for the same key: the fetch runs once and every caller shares its
// result. Failed fetches are evicted so a later access can retry.
type CoalescingMemoryCache struct {
	data sync.Map // key -> *fn
}

// fn wraps a func() so it can be stored and compared as a sync.Map value.
type fn struct {
	Func func() (any, error)
}

func (c *CoalescingMemoryCache) valueOrEvict(key, once any) (any, error) {
	val, err := once.(*fn).Func()
	if err != nil {
		c.data.CompareAndDelete(key, once)
	}
	return val, err
}

// Get returns the value for the given key, or ErrNotExist.
func (c *CoalescingMemoryCache) Get(key any) (any, error) {
	once, ok := c.data.Load(key)
	if !ok {
		return nil, ErrNotExist
	}
	return c.valueOrEvict(key, once)
}

// Set stores the result of fetch under key, replacing any existing entry,
// and returns fetch's error.
func (c *CoalescingMemoryCache) Set(key any, fetch func() (any, error)) error {
	once := &fn{sync.OnceValues(fetch)}
	c.data.Store(key, once)
	_, err := c.valueOrEvict(key, once)
	return err
}

// GetOrSet returns the value for the given key, running fetch to populate it
// if absent. Simultaneous accesses to the same key share a single fetch.
func (c *CoalescingMemoryCache) GetOrSet(key any, fetch func() (any, error)) (any, error) {
	once, _ := c.data.LoadOrStore(key, &fn{sync.OnceValues(fetch)})
	return c.valueOrEvict(key, once)
}

// Del removes the entry for the given key.
func (c *CoalescingMemoryCache) Del(key any) {
	c.data.Delete(key)
}

var _ Cache = &CoalescingMemoryCache{}
