// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package pypi describes the PyPI registry interface for project and extras
// metadata.
package pypi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/pypi-extras/internal/httpx"
	"github.com/google/pypi-extras/pkg/names"
	"github.com/pkg/errors"
)

var registryURL = mustParse("https://pypi.org")

func mustParse(rawURL string) *url.URL {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return u
}

// Project describes a single PyPI project with multiple releases.
type Project struct {
	Info     `json:"info"`
	Releases map[string][]Artifact `json:"releases"`
}

// Release describes a single PyPI project version with multiple artifacts.
type Release struct {
	Info      `json:"info"`
	Artifacts []Artifact `json:"urls"`
}

// Info about a project. Extras come from provides_extra; requires_dist is
// deliberately not modeled since requirement strings and their markers are
// never parsed here.
type Info struct {
	Name          string   `json:"name"`
	Version       string   `json:"version"`
	Summary       string   `json:"summary"`
	ProvidesExtra []string `json:"provides_extra"`
}

// Extras returns the declared extras, normalized, sorted, and deduplicated.
func (i Info) Extras() ([]names.ExtraName, error) {
	extras := make([]names.ExtraName, 0, len(i.ProvidesExtra))
	for _, raw := range i.ProvidesExtra {
		name, err := names.NewExtraName(raw)
		if err != nil {
			return nil, errors.Wrap(err, "parsing provides_extra")
		}
		extras = append(extras, name)
	}
	return names.UniqueExtras(extras), nil
}

// An Artifact is one of the files included in a release.
type Artifact struct {
	Filename    string    `json:"filename"`
	PackageType string    `json:"packagetype"`
	URL         string    `json:"url"`
	UploadTime  time.Time `json:"upload_time_iso_8601"`
}

// Registry is a PyPI package registry.
type Registry interface {
	Project(context.Context, names.PackageName) (*Project, error)
	Release(context.Context, names.PackageName, string) (*Release, error)
	Extras(context.Context, names.PackageName) ([]names.ExtraName, error)
}

// HTTPRegistry is a Registry implementation that uses the pypi.org HTTP API.
type HTTPRegistry struct {
	Client httpx.BasicClient
	// BaseURL overrides the registry endpoint. Defaults to https://pypi.org.
	BaseURL *url.URL
}

func (r HTTPRegistry) base() *url.URL {
	if r.BaseURL != nil {
		return r.BaseURL
	}
	return registryURL
}

func (r HTTPRegistry) get(ctx context.Context, apiPath string, out any) error {
	pathURL, err := url.Parse(apiPath)
	if err != nil {
		return err
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, r.base().ResolveReference(pathURL).String(), nil)
	resp, err := r.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return errors.New(resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Project provides all API information related to the given package.
func (r HTTPRegistry) Project(ctx context.Context, pkg names.PackageName) (*Project, error) {
	var p Project
	if err := r.get(ctx, path.Join("/pypi", pkg.String(), "json"), &p); err != nil {
		return nil, errors.Wrap(err, "fetching project")
	}
	return &p, nil
}

// Release provides all API information related to the given version of a
// package.
func (r HTTPRegistry) Release(ctx context.Context, pkg names.PackageName, version string) (*Release, error) {
	var release Release
	if err := r.get(ctx, path.Join("/pypi", pkg.String(), version, "json"), &release); err != nil {
		return nil, errors.Wrap(err, "fetching release")
	}
	return &release, nil
}

// Extras returns the extras declared by the latest release of the given
// package.
func (r HTTPRegistry) Extras(ctx context.Context, pkg names.PackageName) ([]names.ExtraName, error) {
	project, err := r.Project(ctx, pkg)
	if err != nil {
		return nil, err
	}
	return project.Extras()
}

var _ Registry = &HTTPRegistry{}
