// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package names

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestNewExtraName(t *testing.T) {
	for _, tc := range []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "Server_TLS", want: "server-tls"},
		{input: "all", want: "all"},
		{input: "x2", want: "x2"},
		{input: "has space", wantErr: true},
		{input: "", wantErr: true},
	} {
		t.Run(tc.input, func(t *testing.T) {
			got, err := NewExtraName(tc.input)
			if tc.wantErr != (err != nil) {
				t.Fatalf("NewExtraName(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if err == nil && got.String() != tc.want {
				t.Errorf("NewExtraName(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestExtraNameEquivalence(t *testing.T) {
	a := must(NewExtraName("Foo_Bar"))
	b := must(NewExtraName("foo-bar"))
	if !a.Equal(b) {
		t.Errorf("Equal(%q, %q) = false, want true", a, b)
	}
	if a.Compare(b) != 0 {
		t.Errorf("Compare(%q, %q) = %d, want 0", a, b, a.Compare(b))
	}
	// Canonical values are usable as map keys.
	counts := map[ExtraName]int{a: 1}
	if counts[b] != 1 {
		t.Errorf("map lookup via %q missed entry stored via %q", b, a)
	}
}

func TestSortExtras(t *testing.T) {
	extras := mustExtras(t, "zlib", "server", "Aardvark", "all", "server_ssl")
	SortExtras(extras)
	var got []string
	for _, e := range extras {
		got = append(got, e.String())
	}
	want := []string{"aardvark", "all", "server", "server-ssl", "zlib"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortExtras() diff:\n%s", diff)
	}
}

func TestUniqueExtras(t *testing.T) {
	extras := mustExtras(t, "tests", "Docs", "tests", "TESTS", "docs")
	got := UniqueExtras(extras)
	var names []string
	for _, e := range got {
		names = append(names, e.String())
	}
	if diff := cmp.Diff([]string{"docs", "tests"}, names); diff != "" {
		t.Errorf("UniqueExtras() diff:\n%s", diff)
	}
	if len(extras) != 5 {
		t.Errorf("UniqueExtras() mutated its input: %v", extras)
	}
}

func TestExtraNameJSON(t *testing.T) {
	name := must(NewExtraName("Server_TLS"))
	encoded := must(json.Marshal(name))
	if diff := cmp.Diff(`"server-tls"`, string(encoded)); diff != "" {
		t.Errorf("json.Marshal() diff:\n%s", diff)
	}
	var decoded ExtraName
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() failed: %v", err)
	}
	if !decoded.Equal(name) {
		t.Errorf("round-trip = %q, want %q", decoded, name)
	}
	// Map keys serialize in canonical form too.
	deps := map[ExtraName][]string{name: {"cryptography"}}
	encoded = must(json.Marshal(deps))
	if diff := cmp.Diff(`{"server-tls":["cryptography"]}`, string(encoded)); diff != "" {
		t.Errorf("json.Marshal(map) diff:\n%s", diff)
	}
	var invalid ExtraName
	err := json.Unmarshal([]byte(`"has space"`), &invalid)
	var nameErr *InvalidNameError
	if !errors.As(err, &nameErr) {
		t.Errorf("json.Unmarshal error = %v, want *InvalidNameError", err)
	}
}

func TestExtraNameYAML(t *testing.T) {
	name := must(NewExtraName("Server_TLS"))
	encoded := must(yaml.Marshal(name))
	if diff := cmp.Diff("server-tls\n", string(encoded)); diff != "" {
		t.Errorf("yaml.Marshal() diff:\n%s", diff)
	}
	var decoded ExtraName
	if err := yaml.Unmarshal([]byte("Server_TLS"), &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal() failed: %v", err)
	}
	if decoded.String() != "server-tls" {
		t.Errorf("yaml.Unmarshal() = %q, want %q", decoded, "server-tls")
	}
	var fromSeq ExtraName
	err := yaml.Unmarshal([]byte("[a, b]"), &fromSeq)
	if err == nil || !strings.Contains(err.Error(), "a string") {
		t.Errorf("yaml.Unmarshal(sequence) error = %v, want mention of expected string", err)
	}
}
