// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/pypi-extras/pkg/names"
)

func TestParsePyProject(t *testing.T) {
	testCases := []struct {
		name     string
		content  string
		expected *Manifest
	}{
		{
			name: "optional dependencies",
			content: `
[project]
name = "Frobnicator"

[project.optional-dependencies]
server = ["uvicorn>=0.20", "fastapi"]
Server_TLS = ["cryptography"]
docs = ["sphinx; python_version >= '3.8'"]
`,
			expected: &Manifest{
				Source: SourcePyProject,
				Name:   mustPackage(t, "frobnicator"),
				Extras: mustExtras(t, "docs", "server", "server-tls"),
			},
		},
		{
			name: "extras collide after normalization",
			content: `
[project.optional-dependencies]
server_ssl = ["pyopenssl"]
"Server.SSL" = ["certifi"]
`,
			expected: &Manifest{
				Source: SourcePyProject,
				Extras: mustExtras(t, "server-ssl"),
			},
		},
		{
			name: "default extras all",
			content: `
[project]
name = "frobnicator"

[tool.pyextras]
default-extras = "all"
`,
			expected: &Manifest{
				Source:        SourcePyProject,
				Name:          mustPackage(t, "frobnicator"),
				DefaultExtras: extrasPolicy(names.AllExtras()),
			},
		},
		{
			name: "default extras list keeps order",
			content: `
[project.optional-dependencies]
cli = ["click"]
tracing = ["opentelemetry-sdk"]

[tool.pyextras]
default-extras = ["tracing", "CLI"]
`,
			expected: &Manifest{
				Source:        SourcePyProject,
				Extras:        mustExtras(t, "cli", "tracing"),
				DefaultExtras: extrasPolicy(names.ExtrasList(mustExtras(t, "tracing", "cli")...)),
			},
		},
		{
			name:     "no project table",
			content:  "[build-system]\nrequires = [\"setuptools\"]\n",
			expected: &Manifest{Source: SourcePyProject},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePyProject([]byte(tc.content))
			if err != nil {
				t.Fatalf("ParsePyProject() failed: %v", err)
			}
			if diff := cmp.Diff(got, tc.expected); diff != "" {
				t.Errorf("ParsePyProject() diff:\n%s", diff)
			}
		})
	}
}

func TestParsePyProjectErrors(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		wantErr     string
		invalidName bool
	}{
		{
			name:        "invalid extra key",
			content:     "[project.optional-dependencies]\n\"has space\" = []\n",
			wantErr:     "parsing optional-dependencies",
			invalidName: true,
		},
		{
			name:        "invalid project name",
			content:     "[project]\nname = \"-dangling\"\n",
			wantErr:     "parsing project.name",
			invalidName: true,
		},
		{
			name:    "uppercase sentinel",
			content: "[tool.pyextras]\ndefault-extras = \"ALL\"\n",
			wantErr: `default-extras must be "all" or a ["list", "of", "extras"]`,
		},
		{
			name:    "wrong default extras kind",
			content: "[tool.pyextras]\ndefault-extras = 42\n",
			wantErr: `the string "all" or a list of strings`,
		},
		{
			name:    "malformed toml",
			content: "[project\nname =",
			wantErr: "decoding pyproject.toml",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePyProject([]byte(tc.content))
			if err == nil {
				t.Fatal("ParsePyProject() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("ParsePyProject() error %q does not contain %q", err, tc.wantErr)
			}
			var invalid *names.InvalidNameError
			if got := errors.As(err, &invalid); got != tc.invalidName {
				t.Errorf("errors.As(err, *InvalidNameError) = %v, want %v", got, tc.invalidName)
			}
		})
	}
}
