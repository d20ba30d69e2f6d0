package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/microsoft/skillcheck/internal/cache"
	"github.com/microsoft/skillcheck/internal/projectconfig"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the generation result cache",
		Long: `Manage the generation result cache.

The cache stores real-backend generation results to speed up repeated
evaluations with the same inputs. Entries are keyed by skill, scenario,
prompt, model, and skill context. Mock responses are never cached.`,
	}

	cmd.AddCommand(newCacheClearCommand())

	return cmd
}

func newCacheClearCommand() *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the generation result cache",
		Long: `Remove all cached generation results.

The next evaluation run will call the generation backend again for every
scenario.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cacheClearE(cmd, cacheDir)
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory to clear (default: from .skillcheck.yaml)")

	return cmd
}

func cacheClearE(cmd *cobra.Command, cacheDir string) error {
	if cacheDir == "" {
		cfg, err := projectconfig.Load(".")
		if err != nil {
			return err
		}
		cacheDir = cfg.Cache.Dir
	}

	// Resolve to absolute path
	absDir, err := filepath.Abs(cacheDir)
	if err != nil {
		return fmt.Errorf("resolving cache directory: %w", err)
	}

	c := cache.New(absDir)
	if err := c.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", absDir) //nolint:errcheck
	return nil
}
