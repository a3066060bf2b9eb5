package stats

import (
	"fmt"
	"strings"
)

const maxInsights = 3

// Insights returns up to three short observations about the year's taste.
// Candidates are considered in a fixed order and the first three that apply
// are kept.
func Insights(r Report) []string {
	var out []string

	if r.AverageRating != nil {
		switch avg := *r.AverageRating; {
		case avg < 3.5:
			out = append(out, "A born critic: nothing escapes your cinematic standards.")
		case avg > 4.5:
			out = append(out, "You are having a love affair with cinema; almost everything charms you.")
		default:
			out = append(out, "You find beauty in balance: not everything is a masterpiece, but there is always something to enjoy.")
		}
	}

	if len(r.ReleaseYears) > 0 && r.MedianReleaseYear != nil {
		switch m := *r.MedianReleaseYear; {
		case m < 2000:
			out = append(out, "You are a curator of classics, favoring older and timeless films.")
		case m > 2015:
			out = append(out, "You follow cinema the way others follow series: always there on release.")
		default:
			out = append(out, "You move between decades as if they were genres; your taste is truly wide.")
		}
	}

	if float64(r.Rewatches) > float64(r.Films)*0.2 {
		out = append(out, "You are a loyal fan, rewatching your favorites often.")
	}

	if r.TopDirector != nil {
		out = append(out, fmt.Sprintf("Your cinema has a signature, and it belongs to %s.", r.TopDirector.Name))
	}

	if len(r.Countries) > 0 {
		top := r.Countries[0].Name
		if strings.Contains(top, "United States") {
			out = append(out, "Hollywood is still your cinematic safe harbor.")
		} else {
			out = append(out, fmt.Sprintf("You are a global explorer with an affinity for films from %s.", top))
		}
	}

	if r.TopGenre != nil {
		out = append(out, fmt.Sprintf("Your taste has an identity: %s leads your choices by a wide margin.", r.TopGenre.Name))
	}

	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}
