// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"log"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
)

func isManifest(basename string) bool {
	switch Source(basename) {
	case SourcePyProject, SourceSetupCfg:
		return true
	}
	return false
}

// FindManifestsFS walks fs and parses every pyproject.toml and setup.cfg it
// finds. Manifests that fail to parse are logged and skipped.
func FindManifestsFS(fs billy.Filesystem) ([]Manifest, error) {
	var manifests []Manifest
	err := util.Walk(fs, ".", func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isManifest(path.Base(p)) {
			return nil
		}
		m, err := ParseFile(fs, p)
		if err != nil {
			log.Printf("Skipping %s: %v", p, err)
			return nil
		}
		manifests = append(manifests, *m)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking filesystem")
	}
	return manifests, nil
}

// FindManifestsTree parses every manifest reachable from a git tree.
func FindManifestsTree(tree *object.Tree) ([]Manifest, error) {
	var manifests []Manifest
	err := tree.Files().ForEach(func(f *object.File) error {
		basename := path.Base(f.Name)
		if !isManifest(basename) {
			return nil
		}
		contents, err := f.Contents()
		if err != nil {
			return errors.Wrapf(err, "reading %s", f.Name)
		}
		m, err := parse(strings.NewReader(contents), basename)
		if err != nil {
			log.Printf("Skipping %s: %v", f.Name, err)
			return nil
		}
		m.Path = f.Name
		manifests = append(manifests, *m)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking tree")
	}
	return manifests, nil
}
