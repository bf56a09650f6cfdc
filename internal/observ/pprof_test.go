package observ

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProfilerWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := ProfileOptions{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	p, err := StartProfiling(opts)
	if err != nil {
		t.Fatalf("StartProfiling: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	for _, path := range []string{opts.CPU, opts.Mem, opts.Trace} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}
}

func TestProfilerDisabled(t *testing.T) {
	p, err := StartProfiling(ProfileOptions{})
	if err != nil {
		t.Fatalf("StartProfiling: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestProfilerBadPath(t *testing.T) {
	dir := t.TempDir()
	_, err := StartProfiling(ProfileOptions{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Trace: filepath.Join(dir, "missing", "trace.out"),
	})
	if err == nil {
		t.Fatal("expected an error for an unwritable trace path")
	}
	// The CPU profile must have been released; starting again succeeds.
	p, err := StartProfiling(ProfileOptions{CPU: filepath.Join(dir, "again.pprof")})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
