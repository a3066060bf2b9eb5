package stats

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"reelwrap/internal/enrichment"
)

const (
	topReleaseYears   = 10
	topCountries      = 5
	representativeMax = 3
	countrySeparator  = ", "
)

// RatingShare is one bucket of the rating distribution.
type RatingShare struct {
	Rating  float64
	Count   int
	Percent float64
}

// YearCount is a release year with the number of viewings.
type YearCount struct {
	Year  int
	Count int
}

// Pick is a film chosen to represent the year.
type Pick struct {
	Title string
	Score float64
	Times int
}

// Report holds the statistics for one watch year.
type Report struct {
	Year  int
	Films int

	AverageRating *float64
	BestRating    *float64
	WorstRating   *float64
	BestFilms     []string
	WorstFilms    []string
	Distribution  []RatingShare

	Rewatches     int
	MostRewatched *Count

	ReleaseYears      []YearCount
	MedianReleaseYear *float64

	TopDirector *Count
	Countries   []Count
	TopGenre    *Count

	TotalMinutes int
	TotalHours   float64

	Representative []Pick
}

// Empty reports whether no film was watched in the year.
func (r Report) Empty() bool { return r.Films == 0 }

// Compute builds the report for rows watched in year. Rows without a watch
// date are ignored.
func Compute(rows []enrichment.EnrichedEntry, year int) Report {
	report := Report{Year: year}

	var selected []enrichment.EnrichedEntry
	for _, row := range rows {
		if y, ok := row.WatchedYear(); ok && y == year {
			selected = append(selected, row)
		}
	}
	report.Films = len(selected)
	if report.Films == 0 {
		return report
	}

	computeRatings(&report, selected)
	computeRewatches(&report, selected)
	computeReleaseYears(&report, selected)
	computeMetadata(&report, selected)
	computeRepresentative(&report, selected)
	return report
}

func computeRatings(report *Report, rows []enrichment.EnrichedEntry) {
	var (
		sum    float64
		rated  int
		best   = math.Inf(-1)
		worst  = math.Inf(1)
		shares = newCounter[float64]()
	)
	for _, row := range rows {
		if row.Rating == nil {
			continue
		}
		r := *row.Rating
		sum += r
		rated++
		best = max(best, r)
		worst = min(worst, r)
		shares.add(r)
	}
	if rated == 0 {
		return
	}
	avg := sum / float64(rated)
	report.AverageRating = &avg
	report.BestRating = &best
	report.WorstRating = &worst
	report.BestFilms = titlesRated(rows, best)
	report.WorstFilms = titlesRated(rows, worst)

	ratings := slices.Clone(shares.order)
	slices.SortFunc(ratings, func(a, b float64) int { return cmp.Compare(b, a) })
	for _, r := range ratings {
		n := shares.get(r)
		report.Distribution = append(report.Distribution, RatingShare{
			Rating:  r,
			Count:   n,
			Percent: roundTo(float64(n)/float64(rated)*100, 1),
		})
	}
}

func titlesRated(rows []enrichment.EnrichedEntry, rating float64) []string {
	var titles []string
	for _, row := range rows {
		if row.Rating != nil && *row.Rating == rating && !slices.Contains(titles, row.Title) {
			titles = append(titles, row.Title)
		}
	}
	return titles
}

func computeRewatches(report *Report, rows []enrichment.EnrichedEntry) {
	rewatched := newCounter[string]()
	for _, row := range rows {
		if row.Rewatch {
			rewatched.add(row.Title)
			report.Rewatches++
		}
	}
	if title, n, ok := rewatched.top(); ok {
		report.MostRewatched = &Count{Name: title, Count: n}
	}
}

func computeReleaseYears(report *Report, rows []enrichment.EnrichedEntry) {
	years := newCounter[int]()
	var values []float64
	for _, row := range rows {
		if row.Year == nil {
			continue
		}
		years.add(*row.Year)
		values = append(values, float64(*row.Year))
	}
	for i, y := range years.ranked() {
		if i == topReleaseYears {
			break
		}
		report.ReleaseYears = append(report.ReleaseYears, YearCount{Year: y, Count: years.get(y)})
	}
	if len(values) > 0 {
		m := median(values)
		report.MedianReleaseYear = &m
	}
}

func computeMetadata(report *Report, rows []enrichment.EnrichedEntry) {
	directors := newCounter[string]()
	countries := newCounter[string]()
	genres := newCounter[string]()
	for _, row := range rows {
		if row.Director != nil && *row.Director != "" {
			directors.add(*row.Director)
		}
		if row.Country != nil && *row.Country != "" {
			for _, c := range strings.Split(*row.Country, countrySeparator) {
				countries.add(c)
			}
		}
		if row.Genre != nil && *row.Genre != "" {
			genres.add(*row.Genre)
		}
		if row.Runtime != nil {
			report.TotalMinutes += *row.Runtime
		}
	}
	if name, n, ok := directors.top(); ok {
		report.TopDirector = &Count{Name: name, Count: n}
	}
	for i, c := range countries.ranked() {
		if i == topCountries {
			break
		}
		report.Countries = append(report.Countries, Count{Name: c, Count: countries.get(c)})
	}
	if name, n, ok := genres.top(); ok {
		report.TopGenre = &Count{Name: name, Count: n}
	}
	report.TotalHours = roundTo(float64(report.TotalMinutes)/60, 1)
}

// computeRepresentative scores each title as mean rating × times seen ×
// (1 + 0.5 × rewatches). A title with no rating scores zero.
func computeRepresentative(report *Report, rows []enrichment.EnrichedEntry) {
	seen := newCounter[string]()
	rewatches := newCounter[string]()
	ratingSum := make(map[string]float64)
	ratingN := make(map[string]int)
	for _, row := range rows {
		seen.add(row.Title)
		if row.Rewatch {
			rewatches.add(row.Title)
		}
		if row.Rating != nil {
			ratingSum[row.Title] += *row.Rating
			ratingN[row.Title]++
		}
	}

	picks := make([]Pick, 0, len(seen.order))
	for _, title := range seen.ranked() {
		mean := 0.0
		if n := ratingN[title]; n > 0 {
			mean = ratingSum[title] / float64(n)
		}
		times := seen.get(title)
		picks = append(picks, Pick{
			Title: title,
			Score: mean * float64(times) * (1 + 0.5*float64(rewatches.get(title))),
			Times: times,
		})
	}
	slices.SortStableFunc(picks, func(a, b Pick) int { return cmp.Compare(b.Score, a.Score) })
	if len(picks) > representativeMax {
		picks = picks[:representativeMax]
	}
	report.Representative = picks
}

func median(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.RoundToEven(v*scale) / scale
}
