package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"trivia/internal/driver"
	"trivia/internal/project"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the scan result cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := openConfiguredCache(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), cache.Dir())
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached scan result",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := openConfiguredCache(cmd)
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", cache.Dir())
		return nil
	},
}

func init() {
	cacheCmd.PersistentFlags().String("cache", "", "cache directory (default: [scan].cache, then the user cache dir)")
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}

// openConfiguredCache opens --cache, the configured [scan].cache, or the
// per-user cache directory, in that order.
func openConfiguredCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	dir, _ := cmd.Flags().GetString("cache")
	if dir == "" {
		cfg, _, err := loadSettings(cmd, project.Overrides{})
		if err != nil {
			return nil, err
		}
		dir = cfg.Scan.Cache
	}
	if dir == "" {
		return driver.OpenDefaultDiskCache("trivia")
	}
	return driver.OpenDiskCache(dir)
}
