package testkit

import (
	"context"
	"path/filepath"
	"testing"

	"profstat/internal/profile"
	"profstat/internal/stats"
)

func TestTestdataLogsHoldInvariants(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "testdata", "logs", "*.log"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no testdata logs found")
	}
	for _, path := range paths {
		prof, err := profile.ParseFile(context.Background(), path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if err := CheckProfile(prof); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		table, err := stats.Aggregate(prof.Labels)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if err := CheckStats(table, prof.Labels); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
	}
}

func TestCheckProfileRejectsBrokenProfiles(t *testing.T) {
	cases := []struct {
		name string
		prof *profile.Profile
	}{
		{"nil", nil},
		{"backwards", &profile.Profile{
			Labels: map[string][]profile.Interval{"a": {{Start: 5, End: 3}}},
			Clock:  5,
		}},
		{"past clock", &profile.Profile{
			Labels: map[string][]profile.Interval{"a": {{Start: 0, End: 9}}},
			Clock:  5,
		}},
		{"empty label", &profile.Profile{
			Labels: map[string][]profile.Interval{"a": nil},
		}},
		{"unsorted dangling", &profile.Profile{
			Dangling: []profile.Dangling{{ID: 2}, {ID: 1}},
		}},
	}
	for _, tc := range cases {
		if err := CheckProfile(tc.prof); err == nil {
			t.Fatalf("%s: expected an error", tc.name)
		}
	}
}

func TestCheckStatsRejectsMismatch(t *testing.T) {
	labels := map[string][]profile.Interval{"a": {{Start: 0, End: 4}, {Start: 4, End: 6}}}
	table, err := stats.Aggregate(labels)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if err := CheckStats(table, labels); err != nil {
		t.Fatalf("CheckStats: %v", err)
	}

	broken := stats.Table{"a": table["a"]}
	st := broken["a"]
	st.Count = 3
	broken["a"] = st
	if err := CheckStats(broken, labels); err == nil {
		t.Fatal("expected a count mismatch")
	}
	if err := CheckStats(table, map[string][]profile.Interval{}); err == nil {
		t.Fatal("expected a label count mismatch")
	}
}
