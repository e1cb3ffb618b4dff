// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package httpx provides a minimal http.Client abstraction and composable
// client wrappers for the registry transport.
package httpx

import (
	"bufio"
	"bytes"
	"net/http"
	"time"

	"github.com/google/pypi-extras/internal/cache"
)

// BasicClient is a simpler http.Client that only requires a Do method.
type BasicClient interface {
	Do(*http.Request) (*http.Response, error)
}

var _ BasicClient = http.DefaultClient

// WithUserAgent is a BasicClient that stamps a User-Agent header on every
// request.
type WithUserAgent struct {
	BasicClient
	UserAgent string
}

var _ BasicClient = &WithUserAgent{}

// Do adds the User-Agent header and sends the request.
func (c *WithUserAgent) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.UserAgent)
	return c.BasicClient.Do(req)
}

// CachedClient is a BasicClient that replays recorded responses for repeated
// GET and HEAD requests.
type CachedClient struct {
	BasicClient
	ch cache.Cache
}

// NewCachedClient returns a new CachedClient.
func NewCachedClient(client BasicClient, c cache.Cache) *CachedClient {
	return &CachedClient{client, c}
}

// Do serves the request from cache when possible, otherwise fulfills it with
// the underlying client and records the response. Server errors (5xx) are
// returned but not recorded.
func (cc *CachedClient) Do(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return cc.BasicClient.Do(req)
	}
	key := req.Method + " " + req.URL.String()
	cached, err := cc.ch.Get(key)
	if err == cache.ErrNotExist {
		resp, err := cc.BasicClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		var buf bytes.Buffer
		if err := resp.Write(&buf); err != nil {
			return nil, err
		}
		if serverErr := resp.StatusCode >= 500 && resp.StatusCode <= 599; !serverErr {
			cc.ch.Set(key, func() (any, error) { return buf.Bytes(), nil })
		}
		cached = buf.Bytes()
	} else if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(cached.([]byte))), req)
}

var _ BasicClient = &CachedClient{}

// RateLimitedClient is a BasicClient that paces requests on a tick channel,
// as produced by time.Tick.
type RateLimitedClient struct {
	BasicClient
	Tick <-chan time.Time
}

// Do waits for the next tick, honoring request cancellation, then sends the
// request.
func (c *RateLimitedClient) Do(req *http.Request) (*http.Response, error) {
	select {
	case <-c.Tick:
	case <-req.Context().Done():
		return nil, req.Context().Err()
	}
	return c.BasicClient.Do(req)
}

var _ BasicClient = &RateLimitedClient{}
