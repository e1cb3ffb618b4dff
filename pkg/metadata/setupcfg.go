// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"io"
	"strings"

	"github.com/google/pypi-extras/pkg/ini"
	"github.com/google/pypi-extras/pkg/names"
	"github.com/pkg/errors"
)

// ParseSetupCfg extracts the extras declared in a setup.cfg document. Extras
// are the keys of [options.extras_require]; the project name comes from the
// [metadata] section.
func ParseSetupCfg(r io.Reader) (*Manifest, error) {
	f, err := ini.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing setup.cfg")
	}
	m := &Manifest{Source: SourceSetupCfg}
	if value, ok := f.GetValue("metadata", "name"); ok {
		if value = strings.TrimSpace(value); value != "" {
			name, err := names.NewPackageName(value)
			if err != nil {
				return nil, errors.Wrap(err, "parsing metadata.name")
			}
			m.Name = name
		}
	}
	if section := f.Section("options.extras_require"); section != nil {
		for _, key := range section.Keys {
			extra, err := names.NewExtraName(key.Name)
			if err != nil {
				return nil, errors.Wrap(err, "parsing options.extras_require")
			}
			m.Extras = append(m.Extras, extra)
		}
		m.Extras = names.UniqueExtras(m.Extras)
	}
	return m, nil
}
