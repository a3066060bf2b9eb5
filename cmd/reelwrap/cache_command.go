package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"reelwrap/internal/metacache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the TMDB metadata cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheListCommand(ctx))

	return cacheCmd
}

func loadCache(cmd *cobra.Command, ctx *commandContext) (metacache.Store, *metacache.Cache, metacache.LoadInfo, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, nil, metacache.LoadInfo{}, err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, nil, metacache.LoadInfo{}, err
	}
	store, err := metacache.OpenStore(cfg, logger)
	if err != nil {
		return nil, nil, metacache.LoadInfo{}, err
	}
	cache, info, err := store.Load(cmd.Context())
	if err != nil {
		return nil, nil, metacache.LoadInfo{}, err
	}
	return store, cache, info, nil
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show metadata cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cache, info, err := loadCache(cmd, ctx)
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Store:     %s\n", store.Describe())
			if stat, err := os.Stat(cfg.Paths.CacheFile); err == nil {
				fmt.Fprintf(out, "Size:      %s (updated %s)\n", humanize.Bytes(uint64(stat.Size())), humanize.Time(stat.ModTime()))
			} else {
				fmt.Fprintln(out, "Size:      (no cache file yet)")
			}
			if info.Rebuilt {
				fmt.Fprintf(out, "Schema:    outdated, will be rebuilt on next wrap (%s)\n", info.Reason)
			}
			printCacheSummary(out, cache)
			return nil
		},
	}
}

func printCacheSummary(out io.Writer, cache *metacache.Cache) {
	var withDirector, withRuntime int
	for _, rec := range cache.Records() {
		if rec.Director != nil {
			withDirector++
		}
		if rec.Runtime != nil {
			withRuntime++
		}
	}
	negative := cache.NegativeCount()
	fmt.Fprintf(out, "Films:     %s\n", humanize.Comma(int64(cache.Len())))
	fmt.Fprintf(out, "Matched:   %s\n", humanize.Comma(int64(cache.Len()-negative)))
	fmt.Fprintf(out, "Not found: %s\n", humanize.Comma(int64(negative)))
	fmt.Fprintf(out, "Director:  %s known\n", humanize.Comma(int64(withDirector)))
	fmt.Fprintf(out, "Runtime:   %s known\n", humanize.Comma(int64(withRuntime)))
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	var notFoundOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached films",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cache, _, err := loadCache(cmd, ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			rows := cacheRows(cache, notFoundOnly, limit)
			if len(rows) == 0 {
				fmt.Fprintln(out, "No cached films")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Year", "TMDB", "Director", "Genre", "Country", "Runtime"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignRight},
				!shouldColorize(out),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&notFoundOnly, "not-found", false, "Only list films TMDB could not match")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows to print (0 = all)")
	return cmd
}

func cacheRows(cache *metacache.Cache, notFoundOnly bool, limit int) [][]string {
	var rows [][]string
	for _, rec := range cache.Records() {
		if notFoundOnly && !rec.NotFound() {
			continue
		}
		if limit > 0 && len(rows) == limit {
			break
		}
		year := ""
		if rec.Key.HasYear {
			year = strconv.Itoa(rec.Key.Year)
		}
		tmdbID := "not found"
		if rec.TMDBID != nil {
			tmdbID = strconv.FormatInt(*rec.TMDBID, 10)
		}
		runtime := ""
		if rec.Runtime != nil {
			runtime = strconv.Itoa(*rec.Runtime) + " min"
		}
		rows = append(rows, []string{
			rec.Key.Title,
			year,
			tmdbID,
			deref(rec.Director),
			deref(rec.Genre),
			deref(rec.Country),
			runtime,
		})
	}
	return rows
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
