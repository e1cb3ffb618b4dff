// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package names provides validated, normalized identifiers for the Python
// packaging ecosystem: package names, extra names, and the default-extras
// selection policy.
//
// Normalization follows PEP 503 and PEP 685: ASCII letters fold to
// lowercase and each run of '-', '_', and '.' collapses to a single '-'.
// Values of the exported name types exist only in this canonical form, so
// two names compare equal exactly when the ecosystem treats them as the
// same identifier.
package names

import (
	"fmt"
	"regexp"
	"strings"
)

// Adapted from: https://packaging.python.org/en/latest/specifications/name-normalization/
var validNameRE = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

var separatorRunRE = regexp.MustCompile(`[-_.]+`)

// InvalidNameError reports a string that cannot be a package or extra name.
type InvalidNameError struct {
	// Name is the rejected input, verbatim.
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: names must start and end with a letter or digit and may only contain '-', '_', '.', and alphanumeric characters", e.Name)
}

// Normalize validates s as a package or extra name and returns its canonical
// form. It is idempotent: normalizing a canonical name returns it unchanged.
// Rejections are reported as *InvalidNameError.
func Normalize(s string) (string, error) {
	if !validNameRE.MatchString(s) {
		return "", &InvalidNameError{Name: s}
	}
	return strings.ToLower(separatorRunRE.ReplaceAllString(s, "-")), nil
}
