package index_test

import (
	"context"
	"testing"

	"uttale/internal/captions"
	"uttale/internal/testsupport"
)

func seedRecords() []captions.Record {
	return []captions.Record{
		{Scope: "show/ep2.vtt", Start: "00:00:01.000", End: "00:00:02.000", Text: "Hello world"},
		{Scope: "show/ep1.vtt", Start: "00:00:01.000", End: "00:00:02.000", Text: "hi there"},
		{Scope: "show/ep1.vtt", Start: "00:00:03.000", End: "00:00:04.000", Text: "general kenobi"},
		{Scope: "film/intro.vtt", Start: "00:01:00.000", End: "00:01:05.000", Text: "Once upon a time"},
	}
}

func TestReplaceAllAndSearchScopes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, seedRecords()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	scopes, err := store.SearchScopes(ctx, "", 100)
	if err != nil {
		t.Fatalf("SearchScopes failed: %v", err)
	}
	want := []string{"film/intro.vtt", "show/ep1.vtt", "show/ep2.vtt"}
	if len(scopes) != len(want) {
		t.Fatalf("scopes = %v, want %v", scopes, want)
	}
	for i, scope := range want {
		if scopes[i] != scope {
			t.Errorf("scopes[%d] = %q, want %q (lexicographic order)", i, scopes[i], scope)
		}
	}
}

func TestSearchScopesLimitAndFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, seedRecords()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	scopes, err := store.SearchScopes(ctx, "", 2)
	if err != nil {
		t.Fatalf("SearchScopes failed: %v", err)
	}
	if len(scopes) != 2 || scopes[0] != "film/intro.vtt" || scopes[1] != "show/ep1.vtt" {
		t.Fatalf("limited scopes = %v", scopes)
	}

	scopes, err = store.SearchScopes(ctx, "SHOW", 100)
	if err != nil {
		t.Fatalf("SearchScopes failed: %v", err)
	}
	if len(scopes) != 2 {
		t.Fatalf("case-insensitive scope search = %v", scopes)
	}

	// A space in the query spans any run of characters.
	scopes, err = store.SearchScopes(ctx, "show ep2", 100)
	if err != nil {
		t.Fatalf("SearchScopes failed: %v", err)
	}
	if len(scopes) != 1 || scopes[0] != "show/ep2.vtt" {
		t.Fatalf("wildcard scope search = %v", scopes)
	}
}

func TestSearchTextCaseInsensitive(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, seedRecords()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	for _, query := range []string{"HELLO", "hello", "Hello"} {
		records, err := store.SearchText(ctx, query, "", 100)
		if err != nil {
			t.Fatalf("SearchText(%q) failed: %v", query, err)
		}
		if len(records) != 1 || records[0].Text != "Hello world" {
			t.Fatalf("SearchText(%q) = %#v", query, records)
		}
	}
}

func TestSearchMatchesNonASCIICaseInsensitively(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	records := []captions.Record{
		{Scope: "nrk/BLÅBÆRTUR.vtt", Start: "00:00:01.000", End: "00:00:02.000", Text: "BLÅBÆR er gode"},
		{Scope: "nrk/annet.vtt", Start: "00:00:01.000", End: "00:00:02.000", Text: "søndag på øya"},
	}
	if err := store.ReplaceAll(ctx, records); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	for _, query := range []string{"blåbær", "BLÅBÆR", "Blåbær"} {
		found, err := store.SearchText(ctx, query, "", 100)
		if err != nil {
			t.Fatalf("SearchText(%q) failed: %v", query, err)
		}
		if len(found) != 1 || found[0].Text != "BLÅBÆR er gode" {
			t.Fatalf("SearchText(%q) = %#v", query, found)
		}
	}

	found, err := store.SearchText(ctx, "SØNDAG", "", 100)
	if err != nil {
		t.Fatalf("SearchText failed: %v", err)
	}
	if len(found) != 1 || found[0].Scope != "nrk/annet.vtt" {
		t.Fatalf("uppercase query against lowercase text = %#v", found)
	}

	scopes, err := store.SearchScopes(ctx, "blåbærtur", 100)
	if err != nil {
		t.Fatalf("SearchScopes failed: %v", err)
	}
	if len(scopes) != 1 || scopes[0] != "nrk/BLÅBÆRTUR.vtt" {
		t.Fatalf("folded scope search = %v", scopes)
	}
}

func TestSearchTextScopeFilter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, seedRecords()); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	records, err := store.SearchText(ctx, "hi", "show", 100)
	if err != nil {
		t.Fatalf("SearchText failed: %v", err)
	}
	if len(records) != 1 || records[0].Scope != "show/ep1.vtt" || records[0].Start != "00:00:01.000" {
		t.Fatalf("scoped search = %#v", records)
	}

	records, err = store.SearchText(ctx, "hi", "film", 100)
	if err != nil {
		t.Fatalf("SearchText failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no matches outside scope, got %#v", records)
	}
}

func TestReplaceAllWithEmptySetEmptiesIndex(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, seedRecords()); err != nil {
		t.Fatalf("seed ReplaceAll failed: %v", err)
	}
	if err := store.ReplaceAll(ctx, nil); err != nil {
		t.Fatalf("empty ReplaceAll failed: %v", err)
	}

	lines, scopes, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if lines != 0 || scopes != 0 {
		t.Fatalf("expected empty index, got %d lines / %d scopes", lines, scopes)
	}
}

func TestReplaceAllSwapsWholesale(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := store.ReplaceAll(ctx, seedRecords()); err != nil {
		t.Fatalf("seed ReplaceAll failed: %v", err)
	}
	replacement := []captions.Record{
		{Scope: "other/new.vtt", Start: "00:00:01.000", End: "00:00:02.000", Text: "fresh"},
	}
	if err := store.ReplaceAll(ctx, replacement); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	scopes, err := store.SearchScopes(ctx, "", 100)
	if err != nil {
		t.Fatalf("SearchScopes failed: %v", err)
	}
	if len(scopes) != 1 || scopes[0] != "other/new.vtt" {
		t.Fatalf("old rows survived the replace: %v", scopes)
	}
}
