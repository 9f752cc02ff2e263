package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"trivia/internal/version"
)

type versionOptions struct {
	format   string
	showHash bool
	showDate bool
	color    bool
}

type versionPayload struct {
	Tool         string `json:"tool" yaml:"tool"`
	version.Info `yaml:",inline"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show trivia build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		full, _ := cmd.Flags().GetBool("full")
		hash, _ := cmd.Flags().GetBool("hash")
		date, _ := cmd.Flags().GetBool("date")
		colorMode, _ := cmd.Root().PersistentFlags().GetString("color")

		opts := versionOptions{
			format:   strings.ToLower(format),
			showHash: hash || full,
			showDate: date || full,
			color:    colorEnabled(colorMode, os.Stdout),
		}
		info := version.Get()

		switch opts.format {
		case "pretty", "":
			renderVersionPretty(cmd.OutOrStdout(), info, opts)
			return nil
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(versionPayload{Tool: "trivia", Info: info})
		case "yaml":
			return yaml.NewEncoder(cmd.OutOrStdout()).Encode(versionPayload{Tool: "trivia", Info: info})
		}
		return fmt.Errorf("unsupported format %q (must be pretty, json or yaml)", format)
	},
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
}

func renderVersionPretty(out io.Writer, info version.Info, opts versionOptions) {
	fmt.Fprintf(out, "trivia %s\n", version.Colored(info.Version, opts.color))
	if opts.showHash {
		commit := valueOrUnknown(info.GitCommit)
		if info.Modified {
			commit += " (modified)"
		}
		fmt.Fprintf(out, "commit: %s\n", commit)
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(info.BuildDate))
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
