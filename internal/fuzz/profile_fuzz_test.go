package fuzztests

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"profstat/internal/profile"
	"profstat/internal/stats"
	"profstat/internal/testkit"
)

// parseTimeout bounds a single parse; the parser is a single forward pass.
const parseTimeout = 5 * time.Second

func FuzzParseInvariants(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clip(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		prof, err := profile.Parse(ctx, bytes.NewReader(input))
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("parse did not finish within %v", parseTimeout)
			}
			return
		}
		if err := testkit.CheckProfile(prof); err != nil {
			t.Fatalf("profile invariant: %v\ninput: %q", err, input)
		}

		table, err := stats.Aggregate(prof.Labels)
		if len(prof.Labels) == 0 {
			if !errors.Is(err, profile.ErrEmptyDataset) {
				t.Fatalf("expected empty dataset, got %v", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("Aggregate: %v", err)
		}
		if err := testkit.CheckStats(table, prof.Labels); err != nil {
			t.Fatalf("stats invariant: %v\ninput: %q", err, input)
		}

		again, err := profile.Parse(ctx, bytes.NewReader(input))
		if err != nil {
			t.Fatalf("second parse failed: %v", err)
		}
		if !reflect.DeepEqual(prof.Labels, again.Labels) {
			t.Fatalf("parse is not deterministic for %q", input)
		}
	})
}
