package fuzztests

import (
	"strings"
	"testing"

	"profstat/internal/record"
)

func FuzzSplitRowNoPanic(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		for _, line := range strings.Split(string(clip(input)), "\n") {
			fields, err := record.SplitRow(line)
			if err != nil {
				continue
			}
			if len(fields) == 0 {
				t.Fatalf("SplitRow(%q) returned no fields", line)
			}
			_, _ = record.Decode(fields, 1)
		}
	})
}

func FuzzMappingLabelRoundTrip(f *testing.F) {
	for _, seed := range []string{"", "a", "a,b", `a\b`, `\`, `\\,\\`, `"quoted"`, " padded "} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, label string) {
		if strings.ContainsAny(label, "\r\n") {
			t.Skip("labels are single-line")
		}
		row := record.Encode(record.Mapping(3, label))
		fields, err := record.SplitRow(row)
		if err != nil {
			t.Fatalf("SplitRow(%q): %v", row, err)
		}
		rec, err := record.Decode(fields, 1)
		if err != nil {
			t.Fatalf("Decode(%q): %v", row, err)
		}
		if rec.Label != label {
			t.Fatalf("label %q came back as %q (row %q)", label, rec.Label, row)
		}
	})
}
