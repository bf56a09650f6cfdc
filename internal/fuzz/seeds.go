package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

var handSeeds = []string{
	"",
	"2,0,a\n0,0,0\n1,0,5\n",
	"2,0,a\n0,0,0\n0,0,3\n1,0,4\n",
	"2,0,a\n0,0,0\n1,0,5\n1,0,1\n",
	"0,0,0\n1,0,5\n",
	"2,0,\\a,b\\\n0,0,0\n1,0,1\n",
	"2,0,\\a\\\\b\\\n",
	"0,0,-1\n",
	"3,0,0\n",
	"0,0\n",
	"0,0,0,0\n",
	"\r\n\r\n2,7,x\r\n0,7,1\r\n1,7,1\r\n",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, seed := range handSeeds {
		f.Add([]byte(seed))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".log" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil || len(src) > maxSeedBytes {
			return nil
		}
		f.Add(src)
		return nil
	})
	if err != nil {
		f.Fatalf("walk testdata: %v", err)
	}
}

func clip(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
