package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"reelwrap/internal/enrichment"
	"reelwrap/internal/stats"
)

const bannerWidth = 50

type reportWriter struct {
	out      io.Writer
	p        *message.Printer
	colorize bool
}

func newReportWriter(out io.Writer, colorize bool) *reportWriter {
	return &reportWriter{
		out:      out,
		p:        message.NewPrinter(language.English),
		colorize: colorize,
	}
}

func (w *reportWriter) line(format string, args ...any) {
	fmt.Fprintln(w.out, w.p.Sprintf(format, args...))
}

func (w *reportWriter) section(title string) {
	fmt.Fprintln(w.out)
	for _, l := range renderSectionHeader(title, w.colorize) {
		fmt.Fprintln(w.out, l)
	}
}

func (w *reportWriter) table(headers []string, rows [][]string, aligns []columnAlignment) {
	fmt.Fprintln(w.out, renderTable(headers, rows, aligns, !w.colorize))
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func (w *reportWriter) render(report stats.Report, insights []string) {
	rule := strings.Repeat("=", bannerWidth)
	fmt.Fprintln(w.out, rule)
	w.line("REELWRAP %s", strconv.Itoa(report.Year))
	fmt.Fprintln(w.out, rule)

	if report.Empty() {
		w.line("No films watched in %s.", strconv.Itoa(report.Year))
		return
	}

	w.line("Films watched: %d", report.Films)
	if report.AverageRating == nil {
		w.line("Average rating: (no ratings recorded)")
		w.line("Best rated: (none rated)")
		w.line("Worst rated: (none rated)")
	} else {
		w.line("Average rating: %.2f", *report.AverageRating)
		w.line("Best rated: %s (%s)", strings.Join(report.BestFilms, ", "), formatRating(*report.BestRating))
		w.line("Worst rated: %s (%s)", strings.Join(report.WorstFilms, ", "), formatRating(*report.WorstRating))
	}

	w.section("Rating distribution")
	if len(report.Distribution) == 0 {
		w.line("  (no ratings recorded this year)")
	} else {
		rows := make([][]string, 0, len(report.Distribution))
		for _, share := range report.Distribution {
			rows = append(rows, []string{
				formatRating(share.Rating) + " stars",
				w.p.Sprintf("%.1f%%", share.Percent),
				w.p.Sprintf("%d", share.Count),
			})
		}
		w.table([]string{"Rating", "Share", "Films"}, rows, []columnAlignment{alignLeft, alignRight, alignRight})
	}

	w.section("Rewatches")
	w.line("Rewatched this year: %d", report.Rewatches)
	if report.MostRewatched != nil {
		w.line("Most rewatched: %s (%d times)", report.MostRewatched.Name, report.MostRewatched.Count)
	} else {
		w.line("Most rewatched: none")
	}

	w.section("Release years")
	if len(report.ReleaseYears) == 0 {
		w.line("  (no release year data)")
	} else {
		rows := make([][]string, 0, len(report.ReleaseYears))
		for _, y := range report.ReleaseYears {
			rows = append(rows, []string{strconv.Itoa(y.Year), w.p.Sprintf("%d", y.Count)})
		}
		w.table([]string{"Year", "Films"}, rows, []columnAlignment{alignLeft, alignRight})
	}

	w.section("Directors")
	if report.TopDirector != nil {
		w.line("Most watched director: %s (%d films)", report.TopDirector.Name, report.TopDirector.Count)
	} else {
		w.line("Most watched director: no data")
	}

	w.section("Countries (top 5)")
	if len(report.Countries) == 0 {
		w.line("  (no country data)")
	} else {
		rows := make([][]string, 0, len(report.Countries))
		for _, c := range report.Countries {
			rows = append(rows, []string{c.Name, w.p.Sprintf("%d", c.Count)})
		}
		w.table([]string{"Country", "Films"}, rows, []columnAlignment{alignLeft, alignRight})
	}

	w.section("Time spent")
	w.line("Total watching time: %d minutes (~%.1f hours)", report.TotalMinutes, report.TotalHours)

	w.section("You in 3 films")
	if len(report.Representative) == 0 {
		w.line("  (not enough films)")
	} else {
		rows := make([][]string, 0, len(report.Representative))
		for i, pick := range report.Representative {
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				pick.Title,
				w.p.Sprintf("%.1f", pick.Score),
				w.p.Sprintf("%dx", pick.Times),
			})
		}
		w.table([]string{"#", "Film", "Score", "Seen"}, rows, []columnAlignment{alignRight, alignLeft, alignRight, alignRight})
	}

	w.section("Insights")
	if len(insights) == 0 {
		w.line("  (not enough data for insights)")
	} else {
		for _, insight := range insights {
			fmt.Fprintf(w.out, "  - %s\n", insight)
		}
	}
}

func (w *reportWriter) renderRunSummary(run enrichment.RunStats, cacheSize int, saved bool, dryRun bool) {
	w.section("Metadata cache")
	w.line("Diary entries: %d (%d distinct films)", run.Entries, run.DistinctKeys)
	w.line("Served from cache: %d", run.CachedKeys)
	w.line("Fetched from TMDB: %d (%d not found, %d partial, %d requests)", run.Fetched, run.NotFound, run.Partial, run.Calls)
	switch {
	case dryRun:
		w.line("Cache size: %d (dry run, nothing written)", cacheSize)
	case saved:
		w.line("Cache size: %d (saved)", cacheSize)
	default:
		w.line("Cache size: %d (unchanged)", cacheSize)
	}
}
