package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jewelcase/internal/codecache"
	"jewelcase/internal/config"
)

func newCacheCommand(cctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Scan cache utilities",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(cctx))
	cacheCmd.AddCommand(newCacheClearCommand(cctx))
	return cacheCmd
}

func newCacheStatsCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show scan cache entry counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := openCacheStore(cctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if store == nil {
				fmt.Fprintln(out, "Code cache is disabled.")
				return nil
			}
			defer store.Close()
			count, err := store.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Database: %s\n", cfg.CodeCache.Path)
			fmt.Fprintf(out, "Entries: %d\n", count)
			return nil
		},
	}
}

func newCacheClearCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop all cached scan results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, store, err := openCacheStore(cctx)
			out := cmd.OutOrStdout()
			if err != nil {
				// A version-mismatched database cannot be opened, so
				// clearing falls back to deleting the file.
				if errors.Is(err, codecache.ErrSchemaMismatch) {
					if rmErr := os.Remove(cfg.CodeCache.Path); rmErr != nil {
						return rmErr
					}
					fmt.Fprintln(out, "Cache database removed.")
					return nil
				}
				return err
			}
			if store == nil {
				fmt.Fprintln(out, "Code cache is disabled.")
				return nil
			}
			defer store.Close()
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "Cache cleared.")
			return nil
		},
	}
}

// openCacheStore opens the configured cache store. A nil store with a nil
// error means caching is disabled.
func openCacheStore(cctx *commandContext) (*config.Config, *codecache.Store, error) {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if !cfg.CodeCache.Enabled {
		return cfg, nil, nil
	}
	store, err := codecache.Open(cfg.CodeCache.Path)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, store, nil
}
