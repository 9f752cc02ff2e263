package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"trivia/internal/diag"
	"trivia/internal/diagfmt"
	"trivia/internal/project"
	"trivia/internal/source"
)

// loadSettings resolves the effective configuration: built-in defaults,
// then trivia.toml (from --config or found upwards from the working
// directory), then command-line overrides.
func loadSettings(cmd *cobra.Command, o project.Overrides) (project.Config, *project.Manifest, error) {
	root := cmd.Root()
	configPath, err := root.PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if o.Color == "" {
		if o.Color, err = root.PersistentFlags().GetString("color"); err != nil {
			return project.Config{}, nil, fmt.Errorf("failed to get color flag: %w", err)
		}
	}

	if configPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return project.Config{}, nil, err
		}
		found, ok, err := project.FindConfig(wd)
		if err != nil {
			return project.Config{}, nil, err
		}
		if ok {
			configPath = found
		}
	}

	cfg := project.Default()
	var manifest *project.Manifest
	if configPath != "" {
		loaded, err := project.LoadConfig(configPath)
		if err != nil {
			return project.Config{}, nil, reportConfigError(cmd, configPath, err, o.Color)
		}
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return project.Config{}, nil, err
		}
		manifest = &project.Manifest{Path: abs, Root: filepath.Dir(abs), Config: loaded}
		cfg = loaded
	}

	cfg, err = cfg.Apply(o)
	if err != nil {
		return project.Config{}, nil, err
	}
	return cfg, manifest, nil
}

// reportConfigError prints a trivia.toml problem as a diagnostic and
// returns errSilent; errors it cannot place in the file are returned as is.
func reportConfigError(cmd *cobra.Command, path string, err error, colorMode string) error {
	fs := source.NewFileSet()
	d, ok := project.ConfigDiagnostic(fs, path, err)
	if !ok {
		return err
	}
	opts := diagfmt.PrettyOpts{Color: colorEnabled(colorMode, os.Stderr), ShowSource: true}
	if perr := diagfmt.PrettyDiagnostics(cmd.ErrOrStderr(), []diag.Diagnostic{d}, fs, opts); perr != nil {
		return errors.Join(err, perr)
	}
	return errSilent
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil || n <= 0 {
		return 100
	}
	return n
}

func minSeverity(cmd *cobra.Command) (diag.Severity, error) {
	v, err := cmd.Root().PersistentFlags().GetString("min-severity")
	if err != nil {
		return diag.SevInfo, fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	return diag.ParseSeverity(strings.ToLower(strings.TrimSpace(v)))
}

func isPrettyFormat(format string) bool {
	f := strings.ToLower(strings.TrimSpace(format))
	return f == "" || f == project.FormatPretty
}
