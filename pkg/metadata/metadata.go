// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package metadata extracts declared extras from Python project manifests.
//
// Two manifest formats are understood: pyproject.toml, where extras are the
// keys of [project.optional-dependencies], and setup.cfg, where extras are
// the keys of [options.extras_require]. A pyproject.toml may additionally
// declare a default-extras policy under [tool.pyextras]. Requirement strings
// and environment markers are never parsed, only the names that key them.
package metadata

import (
	"io"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/google/pypi-extras/pkg/names"
	"github.com/pkg/errors"
)

// Source identifies a manifest format by its conventional basename.
type Source string

const (
	SourcePyProject Source = "pyproject.toml"
	SourceSetupCfg  Source = "setup.cfg"
)

// Manifest is the extras-relevant content of a single project manifest.
type Manifest struct {
	// Path locates the manifest relative to the scanned root.
	Path string
	// Source identifies the manifest format.
	Source Source
	// Name is the declared project name in canonical form, or the zero
	// value when the manifest does not declare one.
	Name names.PackageName
	// Extras lists the declared extras in canonical form, sorted with
	// duplicates removed.
	Extras []names.ExtraName
	// DefaultExtras is the manifest's default-extras policy, or nil when
	// the manifest does not declare one.
	DefaultExtras *names.DefaultExtras
}

// ParseFile parses the manifest at p, dispatching on its basename.
func ParseFile(fs billy.Filesystem, p string) (*Manifest, error) {
	f, err := fs.Open(p)
	if err != nil {
		return nil, errors.Wrap(err, "opening manifest")
	}
	defer f.Close()
	m, err := parse(f, path.Base(p))
	if err != nil {
		return nil, err
	}
	m.Path = p
	return m, nil
}

func parse(r io.Reader, basename string) (*Manifest, error) {
	switch Source(basename) {
	case SourcePyProject:
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, errors.Wrap(err, "reading manifest")
		}
		return ParsePyProject(content)
	case SourceSetupCfg:
		return ParseSetupCfg(r)
	default:
		return nil, errors.Errorf("unsupported manifest %q", basename)
	}
}
