// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package names

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ExtraName is the normalized name of an optional dependency group ("extra")
// of a Python package. The zero value is not a valid name; construct values
// with NewExtraName or by decoding.
type ExtraName struct {
	name string
}

// NewExtraName validates and normalizes s into an ExtraName.
func NewExtraName(s string) (ExtraName, error) {
	n, err := Normalize(s)
	if err != nil {
		return ExtraName{}, err
	}
	return ExtraName{name: n}, nil
}

// String returns the canonical form.
func (n ExtraName) String() string { return n.name }

// Compare orders extra names byte-lexicographically by canonical form.
func (n ExtraName) Compare(other ExtraName) int { return strings.Compare(n.name, other.name) }

func (n ExtraName) Equal(other ExtraName) bool { return n.name == other.name }

func (n ExtraName) MarshalText() ([]byte, error) { return []byte(n.name), nil }

func (n *ExtraName) UnmarshalText(text []byte) error {
	parsed, err := NewExtraName(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

func (n ExtraName) MarshalYAML() (any, error) { return n.name, nil }

func (n *ExtraName) UnmarshalYAML(value *yaml.Node) error {
	// A null node is a scalar, but "null" the token is not a name.
	if value.Kind != yaml.ScalarNode || value.ShortTag() == "!!null" {
		return errors.New("cannot parse extra name: expected a string")
	}
	parsed, err := NewExtraName(value.Value)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// SortExtras sorts extras in place into canonical order.
func SortExtras(extras []ExtraName) {
	slices.SortFunc(extras, ExtraName.Compare)
}

// UniqueExtras returns a sorted copy of extras with duplicates removed.
func UniqueExtras(extras []ExtraName) []ExtraName {
	out := slices.Clone(extras)
	SortExtras(out)
	return slices.CompactFunc(out, ExtraName.Equal)
}
