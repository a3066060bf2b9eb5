package services

import (
	"context"
	"testing"
)

func TestRunIDRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "abc")
	got, ok := RunIDFromContext(ctx)
	if !ok || got != "abc" {
		t.Fatalf("expected run id abc, got %q (ok=%v)", got, ok)
	}
	if _, ok := RunIDFromContext(WithRunID(context.Background(), "")); ok {
		t.Fatal("expected empty run id to be ignored")
	}
}

func TestStageRoundTrip(t *testing.T) {
	ctx := WithStage(context.Background(), "enrich")
	got, ok := StageFromContext(ctx)
	if !ok || got != "enrich" {
		t.Fatalf("expected stage enrich, got %q (ok=%v)", got, ok)
	}
}
