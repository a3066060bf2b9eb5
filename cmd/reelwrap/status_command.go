package main

import (
	"errors"

	"github.com/spf13/cobra"

	"reelwrap/internal/metacache"
	"reelwrap/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check the diary, cache directory, and TMDB connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p := newStatusPrinter(cmd.OutOrStdout())

			p.section("Files", true)
			results := preflight.RunAll(cfg)
			for _, r := range results {
				p.result(r)
			}
			lockResult, held := checkCacheLock(cfg.LockPath())
			if held {
				p.check(lockResult.Name, checkBusy, lockResult.Detail)
			} else {
				p.result(lockResult)
				results = append(results, lockResult)
			}

			p.section("Services", false)
			if offline {
				p.check("TMDB", checkSkipped, "--offline")
			} else {
				tmdbResult := preflight.CheckTMDB(cmd.Context(), cfg.TMDB.BaseURL, cfg.TMDB.APIKey)
				p.result(tmdbResult)
				results = append(results, tmdbResult)
			}
			return preflight.Err(results)
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the TMDB connectivity check")
	return cmd
}

// checkCacheLock probes the run lock. held reports that another run owns it,
// which is not a failure.
func checkCacheLock(path string) (result preflight.Result, held bool) {
	const name = "Cache lock"
	lock, err := metacache.AcquireLock(path)
	switch {
	case err == nil:
		_ = lock.Release()
		return preflight.Result{Name: name, Passed: true, Detail: "free"}, false
	case errors.Is(err, metacache.ErrLocked):
		return preflight.Result{Name: name, Detail: "held by another run"}, true
	default:
		return preflight.Result{Name: name, Detail: err.Error()}, false
	}
}
