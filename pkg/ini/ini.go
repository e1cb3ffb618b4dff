// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package ini parses the INI dialect used by Python packaging configuration
// files such as setup.cfg: '=' or ':' separators, '#' or ';' comments, and
// indented multiline values. Sections and keys preserve declaration order,
// which is significant for extras enumeration.
package ini

import (
	"bufio"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Key is a single key-value entry within a section.
type Key struct {
	Name  string
	Value string
}

// Section is a named group of keys in declaration order.
type Section struct {
	Name string
	Keys []Key
}

// Get returns the value of the named key. Later duplicates override earlier
// ones, matching configparser.
func (s *Section) Get(name string) (string, bool) {
	for i := len(s.Keys) - 1; i >= 0; i-- {
		if s.Keys[i].Name == name {
			return s.Keys[i].Value, true
		}
	}
	return "", false
}

// File is a parsed INI document. Keys that appear before any section header
// live in a section with the empty name.
type File struct {
	Sections []*Section
}

// Section returns the named section, or nil if the file has none.
func (f *File) Section(name string) *Section {
	for _, s := range f.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// GetValue returns the value for a key in a section and whether it was found.
func (f *File) GetValue(section, key string) (string, bool) {
	if s := f.Section(section); s != nil {
		return s.Get(key)
	}
	return "", false
}

func (f *File) ensureSection(name string) *Section {
	if s := f.Section(name); s != nil {
		return s
	}
	s := &Section{Name: name}
	f.Sections = append(f.Sections, s)
	return s
}

type parser struct {
	file      *File
	section   *Section
	key       string
	value     strings.Builder
	keyIndent int
	multiline bool
	pendingNL int
}

// Parse reads an INI document. Supported syntax:
//   - section headers: [section_name]
//   - key-value pairs with = or : separators
//   - comments starting with # or ;, including inline comments preceded by
//     whitespace
//   - multiline values: continuation lines indented deeper than their key
func Parse(r io.Reader) (*File, error) {
	p := parser{file: &File{}}
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := p.line(scanner.Text()); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
	}
	p.flush()
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	return p.file, nil
}

func (p *parser) line(raw string) error {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	indent := len(raw) - len(trimmed)
	isEmpty := len(trimmed) == 0
	isComment := !isEmpty && (trimmed[0] == '#' || trimmed[0] == ';')
	if p.multiline {
		switch {
		case isComment:
			// Comments do not terminate a continuation block.
			return nil
		case isEmpty:
			// Blank lines only count if another continuation follows.
			p.pendingNL++
			return nil
		case indent > p.keyIndent:
			line := trimmed
			if idx := inlineComment(line); idx != -1 {
				line = line[:idx]
			}
			for i := 0; i < p.pendingNL; i++ {
				p.value.WriteByte('\n')
			}
			p.pendingNL = 0
			p.value.WriteByte('\n')
			p.value.WriteString(strings.TrimSpace(line))
			return nil
		default:
			p.flush()
		}
	}
	if isEmpty || isComment {
		return nil
	}
	line := trimmed
	if idx := inlineComment(line); idx != -1 {
		line = strings.TrimSpace(line[:idx])
		if line == "" {
			return nil
		}
	}
	if line[0] == '[' {
		end := strings.LastIndexByte(line, ']')
		switch {
		case end > 1:
			p.section = p.file.ensureSection(line[1:end])
			return nil
		case strings.ContainsAny(line, "=:"):
			// configparser quirk: a malformed header containing a
			// separator parses as a key-value pair.
		case end == -1:
			return errors.New("unclosed section header")
		default:
			return errors.New("empty section name")
		}
	}
	sep := strings.IndexAny(line, "=:")
	if sep == -1 {
		return errors.New("no key-value separator found")
	}
	key := strings.TrimSpace(line[:sep])
	if key == "" {
		return errors.New("empty key name")
	}
	p.flush()
	p.key = key
	p.keyIndent = indent
	p.multiline = true
	p.value.WriteString(strings.TrimSpace(line[sep+1:]))
	return nil
}

func (p *parser) flush() {
	if p.key != "" {
		if p.section == nil {
			p.section = p.file.ensureSection("")
		}
		p.section.Keys = append(p.section.Keys, Key{Name: p.key, Value: p.value.String()})
	}
	p.key = ""
	p.value.Reset()
	p.multiline = false
	p.pendingNL = 0
}

// inlineComment returns the byte index of an inline comment (# or ; preceded
// by whitespace), or -1.
func inlineComment(s string) int {
	for i, r := range s {
		if (r == '#' || r == ';') && i > 0 {
			if prev, _ := utf8.DecodeLastRuneInString(s[:i]); unicode.IsSpace(prev) {
				return i
			}
		}
	}
	return -1
}

// SplitList splits a list-shaped value (a setup.cfg dangling list or a
// comma-separated line) into its trimmed, non-empty entries.
func SplitList(value string) []string {
	var out []string
	isSep := func(r rune) bool { return r == '\n' || r == ',' }
	for _, chunk := range strings.FieldsFunc(value, isSep) {
		if entry := strings.TrimSpace(chunk); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
