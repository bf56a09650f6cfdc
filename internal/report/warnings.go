package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"profstat/internal/profile"
)

// WarningOptions tunes WriteWarnings.
type WarningOptions struct {
	Color bool
	// Path prefixes every line when set.
	Path string
}

// WriteWarnings reports the non-fatal findings of a parse: begins that were
// never closed (the log was cut mid-interval) and begins that replaced a
// still-open begin with the same id.
func WriteWarnings(w io.Writer, prof *profile.Profile, opts WarningOptions) error {
	if prof == nil {
		return nil
	}
	warn := color.New(color.FgYellow, color.Bold)
	if opts.Color {
		warn.EnableColor()
	} else {
		warn.DisableColor()
	}
	prefix := warn.Sprint("warning:")
	if opts.Path != "" {
		prefix = opts.Path + ": " + prefix
	}

	for _, d := range prof.Dangling {
		name := d.Label
		if name == "" {
			name = "unmapped"
		}
		if _, err := fmt.Fprintf(w, "%s line %d: begin of id %d (%s) at %d was never closed; excluded from statistics\n",
			prefix, d.Line, d.ID, name, d.Start); err != nil {
			return err
		}
	}
	if prof.Reopened > 0 {
		if _, err := fmt.Fprintf(w, "%s %d begin record(s) replaced an interval that was still open\n", prefix, prof.Reopened); err != nil {
			return err
		}
	}
	return nil
}
