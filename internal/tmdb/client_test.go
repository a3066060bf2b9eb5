package tmdb_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"reelwrap/internal/tmdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "en-US"); err == nil {
		t.Fatal("expected error when api key missing")
	}
	if _, err := tmdb.New("key", " ", ""); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestSearchMovieSendsYearAndKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "key" || q.Get("query") != "Alien" || q.Get("year") != "1979" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if q.Get("include_adult") != "false" {
			t.Errorf("expected include_adult=false, got %q", r.URL.RawQuery)
		}
		if q.Get("language") != "pt-BR" {
			t.Errorf("expected language, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":348,"title":"Alien"},{"id":1,"title":"Alien 2"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "pt-BR")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	resp, err := client.SearchMovie(context.Background(), "Alien", tmdb.SearchOptions{Year: 1979})
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if len(resp.Results) != 2 || resp.Results[0].ID != 348 {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestSearchMovieOmitsYearWhenUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("year") {
			t.Errorf("did not expect year parameter: %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	t.Cleanup(server.Close)

	client, _ := tmdb.New("key", server.URL, "")
	resp, err := client.SearchMovie(context.Background(), "Home Movie", tmdb.SearchOptions{})
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("expected no results, got %#v", resp.Results)
	}
}

func TestSearchMovieHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client, _ := tmdb.New("key", server.URL, "")
	_, err := client.SearchMovie(context.Background(), "fail", tmdb.SearchOptions{})
	var statusErr *tmdb.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected StatusError 429, got %v", err)
	}
}

func TestSearchMovieEmptyQuery(t *testing.T) {
	client, _ := tmdb.New("key", "https://example.com", "")
	if _, err := client.SearchMovie(context.Background(), "  ", tmdb.SearchOptions{}); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestGetMovieDetailsAndCredits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movie/348":
			_, _ = w.Write([]byte(`{"id":348,"runtime":117,
				"genres":[{"id":27,"name":"Horror"},{"id":878,"name":"Science Fiction"}],
				"production_countries":[{"iso_3166_1":"GB","name":"United Kingdom"},{"iso_3166_1":"US","name":"United States of America"}]}`))
		case "/movie/348/credits":
			_, _ = w.Write([]byte(`{"id":348,"crew":[
				{"name":"Gordon Carroll","job":"Producer"},
				{"name":"Ridley Scott","job":"Director"},
				{"name":"Someone Else","job":"Director"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	client, _ := tmdb.New("key", server.URL, "")
	details, err := client.GetMovieDetails(context.Background(), 348)
	if err != nil {
		t.Fatalf("GetMovieDetails returned error: %v", err)
	}
	if details.Runtime == nil || *details.Runtime != 117 || len(details.Genres) != 2 || len(details.ProductionCountries) != 2 {
		t.Fatalf("unexpected details %#v", details)
	}

	credits, err := client.GetMovieCredits(context.Background(), 348)
	if err != nil {
		t.Fatalf("GetMovieCredits returned error: %v", err)
	}
	director, ok := credits.Director()
	if !ok || director != "Ridley Scott" {
		t.Fatalf("expected first director Ridley Scott, got %q (ok=%v)", director, ok)
	}

	if _, err := client.GetMovieDetails(context.Background(), 0); err == nil {
		t.Fatal("expected error for non-positive id")
	}
}

func TestDirectorMissing(t *testing.T) {
	credits := &tmdb.Credits{Crew: []tmdb.CrewMember{{Name: "A", Job: "Writer"}, {Name: "B", Job: "director"}}}
	if _, ok := credits.Director(); ok {
		t.Fatal("expected no director when no exact job match")
	}
	var nilCredits *tmdb.Credits
	if _, ok := nilCredits.Director(); ok {
		t.Fatal("expected nil credits to have no director")
	}
}

func TestDirectorSkipsBlankNames(t *testing.T) {
	credits := &tmdb.Credits{Crew: []tmdb.CrewMember{
		{Name: "", Job: "Director"},
		{Name: "   ", Job: "Director"},
		{Name: " Ridley Scott ", Job: "Director"},
	}}
	director, ok := credits.Director()
	if !ok || director != "Ridley Scott" {
		t.Fatalf("expected first named director, got %q (ok=%v)", director, ok)
	}

	blank := &tmdb.Credits{Crew: []tmdb.CrewMember{{Name: "", Job: "Director"}}}
	if name, ok := blank.Director(); ok {
		t.Fatalf("expected no director for blank name, got %q", name)
	}
}
