package enrich

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/toolshelf/toolshelf/pkg/catalog"
	"github.com/toolshelf/toolshelf/pkg/integrations"
)

type fakeFetcher struct {
	platform integrations.Platform
	metas    map[string]*integrations.RepoMeta
	err      error
	calls    []string
}

func (f *fakeFetcher) Platform() integrations.Platform { return f.platform }

func (f *fakeFetcher) Fetch(_ context.Context, path string) (*integrations.RepoMeta, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return &integrations.RepoMeta{}, f.err
	}
	if meta, ok := f.metas[path]; ok {
		return meta, nil
	}
	return &integrations.RepoMeta{}, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func TestEnrichMergesMetadata(t *testing.T) {
	c := catalog.Catalog{
		"ripgrep": &catalog.Tool{
			Name:     "ripgrep",
			Version:  "latest",
			Category: []string{"Search"},
			URL:      "https://github.com/BurntSushi/ripgrep",
		},
	}
	gh := &fakeFetcher{
		platform: integrations.PlatformGitHub,
		metas: map[string]*integrations.RepoMeta{
			"BurntSushi/ripgrep": {
				Stars:         intp(50000),
				Forks:         intp(2000),
				License:       strp("Unlicense"),
				LatestVersion: strp("14.1.1"),
			},
		},
	}

	report, err := New(quietLogger(), nil, gh).Enrich(context.Background(), c)
	if err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}

	tool := c["ripgrep"]
	if tool.Stars == nil || *tool.Stars != 50000 {
		t.Errorf("Stars = %v, want 50000", tool.Stars)
	}
	if tool.License == nil || *tool.License != "Unlicense" {
		t.Errorf("License = %v, want Unlicense", tool.License)
	}
	if tool.Version != "14.1.1" {
		t.Errorf("Version = %q, want latest release tag", tool.Version)
	}
	if tool.Archived == nil || *tool.Archived {
		t.Errorf("Archived = %v, want false pointer", tool.Archived)
	}
	if !slices.Equal(tool.Category, []string{"search"}) {
		t.Errorf("Category = %v, want normalized [search]", tool.Category)
	}
	if report.Enriched != 1 || report.Processed != 1 || len(report.Skipped) != 0 {
		t.Errorf("report = %+v, want 1 processed, 1 enriched, 0 skipped", report)
	}
}

func TestEnrichVersionKeptWithoutRelease(t *testing.T) {
	c := catalog.Catalog{
		"tool": &catalog.Tool{
			Version: "Latest",
			URL:     "https://github.com/user/tool",
		},
	}
	gh := &fakeFetcher{
		platform: integrations.PlatformGitHub,
		metas: map[string]*integrations.RepoMeta{
			"user/tool": {Stars: intp(1)},
		},
	}

	if _, err := New(quietLogger(), nil, gh).Enrich(context.Background(), c); err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	// Normalized placeholder survives when no release tag was reported.
	if c["tool"].Version != "unknown" {
		t.Errorf("Version = %q, want unknown", c["tool"].Version)
	}
}

func TestEnrichSkipsUnknownHosts(t *testing.T) {
	c := catalog.Catalog{
		"hosted": &catalog.Tool{URL: "https://example.com/some/tool"},
		"no-url": &catalog.Tool{},
		"gitlab": &catalog.Tool{URL: "https://gitlab.com/group/project"},
	}
	gl := &fakeFetcher{
		platform: integrations.PlatformGitLab,
		metas: map[string]*integrations.RepoMeta{
			"group%2Fproject": {Stars: intp(3)},
		},
	}

	report, err := New(quietLogger(), nil, gl).Enrich(context.Background(), c)
	if err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	if report.Processed != 3 || report.Enriched != 1 {
		t.Errorf("report = %+v, want 3 processed, 1 enriched", report)
	}
	wantSkipped := []string{"hosted", "no-url"}
	if !slices.Equal(report.Skipped, wantSkipped) {
		t.Errorf("Skipped = %v, want %v", report.Skipped, wantSkipped)
	}
}

func TestEnrichSkippedEntriesStillNormalized(t *testing.T) {
	c := catalog.Catalog{
		"offline": &catalog.Tool{
			Version:  "latest",
			Category: []string{"Password Attacks"},
			URL:      "https://example.com/offline",
		},
	}

	report, err := New(quietLogger(), nil).Enrich(context.Background(), c)
	if err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("Skipped = %v, want the one entry", report.Skipped)
	}
	if c["offline"].Version != "unknown" {
		t.Errorf("Version = %q, want unknown", c["offline"].Version)
	}
	if !slices.Equal(c["offline"].Category, []string{"password_attack"}) {
		t.Errorf("Category = %v, want synonym-folded [password_attack]", c["offline"].Category)
	}
}

func TestEnrichDegradedFetchSkips(t *testing.T) {
	c := catalog.Catalog{
		"ghost": &catalog.Tool{URL: "https://github.com/ghost/spectre"},
	}
	gh := &fakeFetcher{platform: integrations.PlatformGitHub} // always empty meta

	report, err := New(quietLogger(), nil, gh).Enrich(context.Background(), c)
	if err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	if report.Enriched != 0 || !slices.Equal(report.Skipped, []string{"ghost"}) {
		t.Errorf("report = %+v, want ghost skipped", report)
	}
	if c["ghost"].Stars != nil || c["ghost"].Archived != nil {
		t.Errorf("tool = %+v, want untouched", c["ghost"])
	}
}

func TestEnrichCancellationStopsRun(t *testing.T) {
	c := catalog.Catalog{
		"a": &catalog.Tool{URL: "https://github.com/u/a"},
		"b": &catalog.Tool{URL: "https://github.com/u/b"},
	}
	gh := &fakeFetcher{platform: integrations.PlatformGitHub, err: context.Canceled}

	_, err := New(quietLogger(), nil, gh).Enrich(context.Background(), c)
	if err == nil {
		t.Fatal("Enrich() must propagate fetcher errors")
	}
	if len(gh.calls) != 1 {
		t.Errorf("fetcher called %d times, want 1 (run stops on error)", len(gh.calls))
	}
}

func TestEnrichDeterministicOrder(t *testing.T) {
	c := catalog.Catalog{
		"zsh-tool": &catalog.Tool{URL: "https://github.com/u/zsh-tool"},
		"ag":       &catalog.Tool{URL: "https://github.com/u/ag"},
		"mid":      &catalog.Tool{URL: "https://github.com/u/mid"},
	}
	gh := &fakeFetcher{platform: integrations.PlatformGitHub}

	var seen []string
	e := New(quietLogger(), nil, gh)
	e.Progress = func(name string, _, _ int) { seen = append(seen, name) }

	if _, err := e.Enrich(context.Background(), c); err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	want := []string{"ag", "mid", "zsh-tool"}
	if !slices.Equal(seen, want) {
		t.Errorf("processing order = %v, want %v", seen, want)
	}
}

func TestEnrichTwoEntryEndToEnd(t *testing.T) {
	var c catalog.Catalog
	input := `{
		"hosted": {
			"name": "hosted",
			"version": "latest",
			"url": "https://github.com/user/hosted"
		},
		"offline": {
			"name": "offline",
			"version": "1.0",
			"homepage": "https://example.com"
		}
	}`
	if err := json.Unmarshal([]byte(input), &c); err != nil {
		t.Fatal(err)
	}

	gh := &fakeFetcher{
		platform: integrations.PlatformGitHub,
		metas: map[string]*integrations.RepoMeta{
			"user/hosted": {
				Stars:         intp(11),
				License:       strp("MIT"),
				LatestVersion: strp("v1.2.3"),
			},
		},
	}

	report, err := New(quietLogger(), nil, gh).Enrich(context.Background(), c)
	if err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	if report.Enriched != 1 || len(report.Skipped) != 1 {
		t.Fatalf("report = %+v, want 1 enriched and 1 skipped", report)
	}

	hosted := c["hosted"]
	if hosted.Stars == nil || *hosted.Stars != 11 || hosted.License == nil || *hosted.License != "MIT" {
		t.Errorf("hosted = %+v, want stars and license merged", hosted)
	}
	if hosted.Version != "v1.2.3" {
		t.Errorf("hosted version = %q, want fetched tag", hosted.Version)
	}

	offline := c["offline"]
	if offline.Stars != nil || offline.Forks != nil || offline.License != nil || offline.Archived != nil {
		t.Errorf("offline = %+v, want no metadata fields", offline)
	}
	if offline.Version != "1.0" {
		t.Errorf("offline version = %q, want untouched", offline.Version)
	}
	if _, ok := offline.Extra("homepage"); !ok {
		t.Error("offline passthrough field must survive enrichment")
	}
}

func TestEnrichCustomSynonyms(t *testing.T) {
	c := catalog.Catalog{
		"x": &catalog.Tool{Category: []string{"Chart"}, URL: ""},
	}

	syn := map[string]string{"chart": "visualization"}
	if _, err := New(quietLogger(), syn).Enrich(context.Background(), c); err != nil {
		t.Fatalf("Enrich() error: %v", err)
	}
	if !slices.Equal(c["x"].Category, []string{"visualization"}) {
		t.Errorf("Category = %v, want [visualization]", c["x"].Category)
	}
}
