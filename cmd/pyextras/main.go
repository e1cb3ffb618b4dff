// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cheggaaa/pb"
	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/pypi-extras/internal/cache"
	"github.com/google/pypi-extras/internal/httpx"
	"github.com/google/pypi-extras/internal/pipe"
	"github.com/google/pypi-extras/pkg/config"
	"github.com/google/pypi-extras/pkg/metadata"
	"github.com/google/pypi-extras/pkg/names"
	"github.com/google/pypi-extras/pkg/registry/pypi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	format     = flag.String("format", "text", "Output format [text, json, yaml]")
	configPath = flag.String("config", "", "Path to the pyextras config file")
	file       = flag.String("file", "", "File with newline-delimited package names to query")
	version    = flag.String("version", "", "Release version to query instead of the project default")
	ref        = flag.String("ref", "", "Git revision to scan instead of the working tree")
)

var (
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	white  = color.New(color.FgWhite).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "pyextras [subcommand]",
	Short: "A CLI tool for working with Python package extras",
}

func emit(cmd *cobra.Command, v any, text func() error) error {
	switch *format {
	case "text":
		return text()
	case "json":
		e := json.NewEncoder(cmd.OutOrStdout())
		e.SetIndent("", "  ")
		return errors.Wrap(e.Encode(v), "encoding json")
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	default:
		return errors.New("unsupported format: " + *format)
	}
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize <name>... [-format=text|json|yaml]",
	Short: "Print the canonical form of package or extra names",
	Args:  cobra.MinimumNArgs(1),
	// Silence errors because we will print the error ourselves in main.
	SilenceErrors: true,
	// Don't show usage for every error.
	SilenceUsage: true,
	// RunE because we want errors to affect the return status.
	RunE: func(cmd *cobra.Command, args []string) error {
		normalized := make([]string, 0, len(args))
		for _, arg := range args {
			name, err := names.Normalize(arg)
			if err != nil {
				return err
			}
			normalized = append(normalized, name)
		}
		return emit(cmd, normalized, func() error {
			for _, name := range normalized {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		})
	},
}

type extrasRow struct {
	Package string   `json:"package" yaml:"package"`
	Version string   `json:"version,omitempty" yaml:"version,omitempty"`
	Extras  []string `json:"extras" yaml:"extras"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type indexedQuery struct {
	index int
	pkg   names.PackageName
}

type indexedResult struct {
	index int
	row   extrasRow
}

var extrasCmd = &cobra.Command{
	Use:   "extras <package>... [-version=<version>] [-file=<path>] [-format=text|json|yaml]",
	Short: "List the extras each package declares on the registry",
	// Silence errors because we will print the error ourselves in main.
	SilenceErrors: true,
	// Don't show usage for every error.
	SilenceUsage: true,
	// RunE because we want errors to affect the return status.
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		inputs := append([]string{}, args...)
		if *file != "" {
			listed, err := readPackageList(*file)
			if err != nil {
				return err
			}
			inputs = append(inputs, listed...)
		}
		if len(inputs) == 0 {
			return errors.New("no packages specified")
		}
		queries := make([]indexedQuery, 0, len(inputs))
		for _, raw := range inputs {
			pkg, err := names.NewPackageName(raw)
			if err != nil {
				return err
			}
			queries = append(queries, indexedQuery{index: len(queries), pkg: pkg})
		}
		registry, err := newRegistry(cfg)
		if err != nil {
			return err
		}
		bar := pb.New(len(queries))
		bar.Output = cmd.ErrOrStderr()
		bar.ShowTimeLeft = true
		bar.Start()
		ctx := cmd.Context()
		results := pipe.ParInto(cfg.Concurrency, pipe.FromSlice(queries), func(q indexedQuery, out chan<- indexedResult) {
			defer bar.Increment()
			out <- indexedResult{index: q.index, row: fetchExtras(ctx, registry, q.pkg)}
		})
		rows := make([]extrasRow, len(queries))
		for r := range results.Out() {
			rows[r.index] = r.row
		}
		bar.Finish()
		err = emit(cmd, rows, func() error {
			for _, row := range rows {
				switch {
				case row.Error != "":
					fmt.Fprintln(cmd.OutOrStdout(), yellow(row.Package)+": "+row.Error)
				case len(row.Extras) == 0:
					fmt.Fprintln(cmd.OutOrStdout(), yellow(row.Package)+": "+white("(no extras)"))
				default:
					fmt.Fprintln(cmd.OutOrStdout(), yellow(row.Package)+": "+white(strings.Join(row.Extras, ", ")))
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		var failed int
		for _, row := range rows {
			if row.Error != "" {
				failed++
			}
		}
		if failed > 0 {
			return errors.Errorf("%d of %d packages failed", failed, len(rows))
		}
		return nil
	},
}

func readPackageList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading package list")
	}
	var pkgs []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pkgs = append(pkgs, line)
	}
	return pkgs, nil
}

func newRegistry(cfg *config.Config) (pypi.Registry, error) {
	base, err := cfg.RegistryURL()
	if err != nil {
		return nil, err
	}
	var client httpx.BasicClient = &http.Client{Timeout: 30 * time.Second}
	client = &httpx.WithUserAgent{BasicClient: client, UserAgent: cfg.UserAgent}
	// PyPI expects bulk clients to hold to roughly one request per second.
	client = &httpx.RateLimitedClient{BasicClient: client, Tick: time.Tick(time.Second)}
	client = httpx.NewCachedClient(client, &cache.CoalescingMemoryCache{})
	return &pypi.HTTPRegistry{Client: client, BaseURL: base}, nil
}

func fetchExtras(ctx context.Context, registry pypi.Registry, pkg names.PackageName) extrasRow {
	row := extrasRow{Package: pkg.String(), Version: *version, Extras: []string{}}
	var extras []names.ExtraName
	var err error
	if *version == "" {
		extras, err = registry.Extras(ctx, pkg)
	} else {
		var release *pypi.Release
		if release, err = registry.Release(ctx, pkg, *version); err == nil {
			extras, err = release.Info.Extras()
		}
	}
	if err != nil {
		row.Error = err.Error()
		return row
	}
	for _, e := range extras {
		row.Extras = append(row.Extras, e.String())
	}
	return row
}

type scanRow struct {
	Path          string               `json:"path" yaml:"path"`
	Source        string               `json:"source" yaml:"source"`
	Name          string               `json:"name,omitempty" yaml:"name,omitempty"`
	Extras        []string             `json:"extras" yaml:"extras"`
	DefaultExtras *names.DefaultExtras `json:"default_extras" yaml:"default-extras"`
	Enabled       []string             `json:"enabled" yaml:"enabled"`
}

var scanCmd = &cobra.Command{
	Use:   "scan [<path>] [-ref=<revision>] [-config=<path>] [-format=text|json|yaml]",
	Short: "Discover project manifests and report their extras",
	Long: `Discover pyproject.toml and setup.cfg manifests under a directory or inside a
git revision, and report each manifest's declared extras alongside the extras
its effective default-extras policy enables. A manifest's own policy wins;
otherwise the config file's policy applies.`,
	Args: cobra.MaximumNArgs(1),
	// Silence errors because we will print the error ourselves in main.
	SilenceErrors: true,
	// Don't show usage for every error.
	SilenceUsage: true,
	// RunE because we want errors to affect the return status.
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		manifests, err := discover(target)
		if err != nil {
			return err
		}
		rows := make([]scanRow, 0, len(manifests))
		for _, m := range manifests {
			policy := cfg.DefaultExtras
			if m.DefaultExtras != nil {
				policy = *m.DefaultExtras
			}
			row := scanRow{
				Path:          m.Path,
				Source:        string(m.Source),
				Extras:        asStrings(m.Extras),
				DefaultExtras: &policy,
				Enabled:       asStrings(policy.Enabled(m.Extras)),
			}
			if m.Name != (names.PackageName{}) {
				row.Name = m.Name.String()
			}
			rows = append(rows, row)
		}
		return emit(cmd, rows, func() error {
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStderr(), yellow("NOTE:"), white(" no manifests found"))
				return nil
			}
			for _, row := range rows {
				header := row.Path
				if row.Name != "" {
					header += " (" + row.Name + ")"
				}
				fmt.Fprintln(cmd.OutOrStdout(), green(header))
				pp := func(label, value string) {
					if value == "" {
						value = "(none)"
					}
					fmt.Fprintln(cmd.OutOrStdout(), "  "+yellow(label)+": "+white(value))
				}
				pp("extras", strings.Join(row.Extras, ", "))
				pp("default", row.DefaultExtras.String())
				pp("enabled", strings.Join(row.Enabled, ", "))
			}
			return nil
		})
	},
}

func discover(target string) ([]metadata.Manifest, error) {
	if *ref != "" {
		return scanRevision(target, *ref)
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil, errors.Wrap(err, "inspecting path")
	}
	if info.IsDir() {
		return metadata.FindManifestsFS(osfs.New(target))
	}
	m, err := metadata.ParseFile(osfs.New(filepath.Dir(target)), info.Name())
	if err != nil {
		return nil, err
	}
	return []metadata.Manifest{*m}, nil
}

func scanRevision(dir, revision string) ([]metadata.Manifest, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return nil, errors.Wrap(err, "opening repository")
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %q", revision)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, errors.Wrap(err, "reading commit")
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.Wrap(err, "reading tree")
	}
	return metadata.FindManifestsTree(tree)
}

func asStrings(extras []names.ExtraName) []string {
	out := make([]string, 0, len(extras))
	for _, e := range extras {
		out = append(out, e.String())
	}
	return out
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().AddGoFlag(flag.Lookup("format"))

	rootCmd.AddCommand(extrasCmd)

	extrasCmd.Flags().AddGoFlag(flag.Lookup("format"))
	extrasCmd.Flags().AddGoFlag(flag.Lookup("config"))
	extrasCmd.Flags().AddGoFlag(flag.Lookup("file"))
	extrasCmd.Flags().AddGoFlag(flag.Lookup("version"))

	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().AddGoFlag(flag.Lookup("format"))
	scanCmd.Flags().AddGoFlag(flag.Lookup("config"))
	scanCmd.Flags().AddGoFlag(flag.Lookup("ref"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
