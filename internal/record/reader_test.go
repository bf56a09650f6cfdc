package record

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, input string) ([]Record, error) {
	t.Helper()
	r := NewReader(strings.NewReader(input))
	var out []Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func TestReaderDecodesAllKinds(t *testing.T) {
	input := "2,5,task.a\n0,1,10\n1,1,7\n"
	recs, err := readAll(t, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Record{
		{Kind: KindMapping, ID: 5, Label: "task.a", Line: 1},
		{Kind: KindBegin, ID: 1, Delta: 10, Line: 2},
		{Kind: KindEnd, ID: 1, Delta: 7, Line: 3},
	}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d", len(recs), len(want))
	}
	for i := range want {
		if recs[i] != want[i] {
			t.Fatalf("record %d = %+v, want %+v", i, recs[i], want[i])
		}
	}
}

func TestReaderEmptyInput(t *testing.T) {
	recs, err := readAll(t, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
}

func TestReaderSkipsBlankLinesAndCRLF(t *testing.T) {
	recs, err := readAll(t, "2,0,main\r\n\r\n0,0,3\r\n\n1,0,4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if recs[0].Label != "main" {
		t.Fatalf("label = %q, want main", recs[0].Label)
	}
	if recs[2].Line != 5 {
		t.Fatalf("line = %d, want 5", recs[2].Line)
	}
}

func TestReaderFormatErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		line  int
	}{
		{"unknown kind", "3,1,1\n", 1},
		{"huge kind", "256,1,1\n", 1},
		{"negative kind", "-1,1,1\n", 1},
		{"kind not integer", "x,1,1\n", 1},
		{"id not integer", "0,a,1\n", 1},
		{"delta not integer", "2,0,a\n0,0,1.5\n", 2},
		{"negative delta", "0,0,-4\n", 1},
		{"too few fields", "0,1\n", 1},
		{"too many fields", "0,1,2,3\n", 1},
		{"mapping with comma", "2,0,a,b\n", 1},
		{"unterminated quote", "2,0,\\abc\n", 1},
		{"garbage after quote", "2,0,\\abc\\x\n", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readAll(t, tc.input)
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("expected format error, got %v", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FormatError, got %T", err)
			}
			if fe.Line != tc.line {
				t.Fatalf("line = %d, want %d", fe.Line, tc.line)
			}
		})
	}
}

func TestSplitRowQuoting(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{`2,1,plain`, []string{"2", "1", "plain"}},
		{`2,1,\render,pass\`, []string{"2", "1", "render,pass"}},
		{`2,1,\a\\b\`, []string{"2", "1", `a\b`}},
		{`2,1,"quoted"`, []string{"2", "1", `"quoted"`}},
		{`2,1,`, []string{"2", "1", ""}},
		{`\2\,1,x`, []string{"2", "1", "x"}},
	}
	for _, tc := range cases {
		got, err := SplitRow(tc.input)
		if err != nil {
			t.Fatalf("SplitRow(%q) error: %v", tc.input, err)
		}
		if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
			t.Fatalf("SplitRow(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestEncodeRoundTripsThroughReader(t *testing.T) {
	recs := []Record{
		Mapping(0, "render.importer_1"),
		Mapping(1, `odd,label\x`),
		Begin(0, 12),
		End(0, 30),
	}
	var b strings.Builder
	for _, rec := range recs {
		b.WriteString(Encode(rec))
		b.WriteString("\n")
	}
	got, err := readAll(t, b.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range recs {
		recs[i].Line = i + 1
		if got[i] != recs[i] {
			t.Fatalf("record %d = %+v, want %+v", i, got[i], recs[i])
		}
	}
}

func TestKindString(t *testing.T) {
	if KindBegin.String() != "begin" || KindEnd.String() != "end" || KindMapping.String() != "mapping" {
		t.Fatalf("unexpected kind names")
	}
	if Kind(9).String() != "unknown(9)" {
		t.Fatalf("Kind(9).String() = %q", Kind(9).String())
	}
}

func TestFormatEvent(t *testing.T) {
	ev := Event{Seq: 1, Time: 17, Record: Record{Kind: KindEnd, ID: 1, Delta: 7, Line: 3}}
	text := string(FormatEvent(ev, FormatText))
	if !strings.Contains(text, "#1 (+7)") || !strings.Contains(text, "17]") {
		t.Fatalf("unexpected text output %q", text)
	}
	js := string(FormatEvent(ev, FormatNDJSON))
	if !strings.Contains(js, `"kind":"end"`) || !strings.Contains(js, `"delta":7`) || !strings.HasSuffix(js, "\n") {
		t.Fatalf("unexpected ndjson output %q", js)
	}
	mapping := Event{Record: Mapping(2, "x")}
	if strings.Contains(string(FormatEvent(mapping, FormatNDJSON)), "delta") {
		t.Fatalf("mapping events must not carry a delta")
	}
	if got := string(FormatEvent(ev, FormatRows)); got != "1,1,7\n" {
		t.Fatalf("rows output = %q", got)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestReaderOverlongRowIsFormatError(t *testing.T) {
	input := "0,0,1\n2,0," + strings.Repeat("x", maxLineLength+1) + "\n"
	recs, err := readAll(t, input)
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %T", err)
	}
	if fe.Line != 2 {
		t.Fatalf("line = %d, want 2", fe.Line)
	}
	if len(recs) != 1 {
		t.Fatalf("got %d records before the error, want 1", len(recs))
	}
}
