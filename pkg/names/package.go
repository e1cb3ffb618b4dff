// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package names

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PackageName is the normalized name of a Python package. It follows the
// same shape rule as ExtraName but is a distinct type so package and extra
// identifiers cannot be mixed up. The zero value is not a valid name.
type PackageName struct {
	name string
}

// NewPackageName validates and normalizes s into a PackageName.
func NewPackageName(s string) (PackageName, error) {
	n, err := Normalize(s)
	if err != nil {
		return PackageName{}, err
	}
	return PackageName{name: n}, nil
}

// String returns the canonical form.
func (n PackageName) String() string { return n.name }

// Compare orders package names byte-lexicographically by canonical form.
func (n PackageName) Compare(other PackageName) int { return strings.Compare(n.name, other.name) }

func (n PackageName) Equal(other PackageName) bool { return n.name == other.name }

func (n PackageName) MarshalText() ([]byte, error) { return []byte(n.name), nil }

func (n *PackageName) UnmarshalText(text []byte) error {
	parsed, err := NewPackageName(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func (n PackageName) MarshalYAML() (any, error) { return n.name, nil }

func (n *PackageName) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return errors.New("cannot parse package name: expected a string")
	}
	parsed, err := NewPackageName(value.Value)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
