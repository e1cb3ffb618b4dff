// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package names

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// allSentinel is the scalar wire form of the "enable everything" policy.
// Matching is byte-exact: "All" and "ALL" are rejected, not folded.
const allSentinel = "all"

// defaultExtrasHint names the accepted wire shapes in decode errors.
const defaultExtrasHint = `the string "all" or a list of strings`

// DefaultExtras selects which of a project's declared extras are enabled by
// default. It has two forms: the sentinel "all", which enables every extra
// the project declares, and an explicit list of extra names. The zero value
// is the empty list, which is distinct from "all" even for projects that
// declare no extras.
type DefaultExtras struct {
	all  bool
	list []ExtraName
}

// AllExtras returns the policy that enables every declared extra.
func AllExtras() DefaultExtras { return DefaultExtras{all: true} }

// ExtrasList returns the policy that enables exactly the given extras,
// preserving their order and any duplicates.
func ExtrasList(extras ...ExtraName) DefaultExtras {
	return DefaultExtras{list: slices.Clone(extras)}
}

// IsAll reports whether the policy is the "all" sentinel.
func (d DefaultExtras) IsAll() bool { return d.all }

// Extras returns a copy of the explicit list, or nil for the "all" form.
func (d DefaultExtras) Extras() []ExtraName {
	if d.all {
		return nil
	}
	return slices.Clone(d.list)
}

func (d DefaultExtras) Equal(other DefaultExtras) bool {
	return d.all == other.all && slices.EqualFunc(d.list, other.list, ExtraName.Equal)
}

// Enabled resolves the policy against the extras a project declares: "all"
// enables every one of available, a list enables its members as given.
func (d DefaultExtras) Enabled(available []ExtraName) []ExtraName {
	if d.all {
		return slices.Clone(available)
	}
	return slices.Clone(d.list)
}

func (d DefaultExtras) String() string {
	if d.all {
		return allSentinel
	}
	parts := make([]string, len(d.list))
	for i, e := range d.list {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (d *DefaultExtras) setSentinel(s string) error {
	if s != allSentinel {
		return errors.New(`default-extras must be "all" or a ["list", "of", "extras"]`)
	}
	*d = DefaultExtras{all: true}
	return nil
}

func (d DefaultExtras) MarshalJSON() ([]byte, error) {
	if d.all {
		return json.Marshal(allSentinel)
	}
	if len(d.list) == 0 {
		// Not null: the empty list still serializes as a sequence.
		return []byte("[]"), nil
	}
	return json.Marshal(d.list)
}

func (d *DefaultExtras) UnmarshalJSON(data []byte) error {
	token := bytes.TrimSpace(data)
	if len(token) == 0 {
		return errors.Errorf("cannot parse default-extras: expected %s", defaultExtrasHint)
	}
	switch token[0] {
	case '"':
		var s string
		if err := json.Unmarshal(token, &s); err != nil {
			return err
		}
		return d.setSentinel(s)
	case '[':
		var elements []json.RawMessage
		if err := json.Unmarshal(token, &elements); err != nil {
			return err
		}
		// encoding/json never routes null elements to UnmarshalText, so
		// each element is checked for string shape before validation.
		list := make([]ExtraName, 0, len(elements))
		for _, raw := range elements {
			if len(raw) == 0 || raw[0] != '"' {
				return errors.New("cannot parse extra name: expected a string")
			}
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return err
			}
			name, err := NewExtraName(s)
			if err != nil {
				return err
			}
			list = append(list, name)
		}
		*d = DefaultExtras{list: list}
		return nil
	default:
		return errors.Errorf("cannot parse default-extras: expected %s", defaultExtrasHint)
	}
}

func (d DefaultExtras) MarshalYAML() (any, error) {
	if d.all {
		return allSentinel, nil
	}
	if len(d.list) == 0 {
		return []ExtraName{}, nil
	}
	return d.list, nil
}

func (d *DefaultExtras) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		return d.setSentinel(s)
	case yaml.SequenceNode:
		// Decoded node by node: yaml.v3 skips unmarshalers for null
		// elements, which would silently drop them from the list.
		list := make([]ExtraName, 0, len(value.Content))
		for _, node := range value.Content {
			var name ExtraName
			if err := name.UnmarshalYAML(node); err != nil {
				return err
			}
			list = append(list, name)
		}
		*d = DefaultExtras{list: list}
		return nil
	default:
		return errors.Errorf("cannot parse default-extras: expected %s", defaultExtrasHint)
	}
}

// DefaultExtrasFromValue converts a dynamically decoded value into a
// DefaultExtras. TOML decoders have no hook for string-or-array fields, so
// callers decode those into `any` and convert here under the same rules as
// the JSON and YAML forms.
func DefaultExtrasFromValue(v any) (DefaultExtras, error) {
	switch val := v.(type) {
	case string:
		var d DefaultExtras
		if err := d.setSentinel(val); err != nil {
			return DefaultExtras{}, err
		}
		return d, nil
	case []string:
		list := make([]ExtraName, 0, len(val))
		for _, s := range val {
			name, err := NewExtraName(s)
			if err != nil {
				return DefaultExtras{}, err
			}
			list = append(list, name)
		}
		return DefaultExtras{list: list}, nil
	case []any:
		list := make([]ExtraName, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return DefaultExtras{}, errors.Errorf("cannot parse default-extras: expected %s", defaultExtrasHint)
			}
			name, err := NewExtraName(s)
			if err != nil {
				return DefaultExtras{}, err
			}
			list = append(list, name)
		}
		return DefaultExtras{list: list}, nil
	default:
		return DefaultExtras{}, errors.Errorf("cannot parse default-extras: expected %s", defaultExtrasHint)
	}
}
