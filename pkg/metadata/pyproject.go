// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"github.com/google/pypi-extras/pkg/names"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

type pyprojectProject struct {
	Name                 string              `toml:"name"`
	OptionalDependencies map[string][]string `toml:"optional-dependencies"`
}

type pyprojectPolicy struct {
	// Decoded as any: default-extras is either a string or an array.
	DefaultExtras any `toml:"default-extras"`
}

type pyprojectTool struct {
	PyExtras pyprojectPolicy `toml:"pyextras"`
}

type pyproject struct {
	Project pyprojectProject `toml:"project"`
	Tool    pyprojectTool    `toml:"tool"`
}

// ParsePyProject extracts the extras declared in a pyproject.toml document.
func ParsePyProject(content []byte) (*Manifest, error) {
	var doc pyproject
	if err := toml.Unmarshal(content, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding pyproject.toml")
	}
	m := &Manifest{Source: SourcePyProject}
	if doc.Project.Name != "" {
		name, err := names.NewPackageName(doc.Project.Name)
		if err != nil {
			return nil, errors.Wrap(err, "parsing project.name")
		}
		m.Name = name
	}
	for key := range doc.Project.OptionalDependencies {
		extra, err := names.NewExtraName(key)
		if err != nil {
			return nil, errors.Wrap(err, "parsing optional-dependencies")
		}
		m.Extras = append(m.Extras, extra)
	}
	m.Extras = names.UniqueExtras(m.Extras)
	if doc.Tool.PyExtras.DefaultExtras != nil {
		policy, err := names.DefaultExtrasFromValue(doc.Tool.PyExtras.DefaultExtras)
		if err != nil {
			return nil, errors.Wrap(err, "parsing tool.pyextras.default-extras")
		}
		m.DefaultExtras = &policy
	}
	return m, nil
}
