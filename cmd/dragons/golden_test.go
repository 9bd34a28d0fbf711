package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var updateGolden = flag.Bool("update", false, "rewrite the example golden files")

// TestExamples runs every program under examples/ and compares its
// standard output, exit code and standard error with the .golden file
// next to it. A .input file, when present, is fed to standard input.
func TestExamples(t *testing.T) {
	programs, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.drc"))
	if err != nil {
		t.Fatal(err)
	}
	if len(programs) == 0 {
		t.Fatal("no example programs found")
	}

	for _, program := range programs {
		base := strings.TrimSuffix(program, ".drc")
		t.Run(filepath.Base(base), func(t *testing.T) {
			input, err := os.ReadFile(base + ".input")
			if err != nil && !os.IsNotExist(err) {
				t.Fatal(err)
			}

			var stdout, stderr bytes.Buffer
			code := run([]string{"dragons", program}, bytes.NewReader(input), &stdout, &stderr)
			got := fmt.Sprintf("%s--- exit %d\n%s", stdout.String(), code, stderr.String())

			goldenPath := base + ".golden"
			if *updateGolden {
				if err := os.WriteFile(goldenPath, []byte(got), 0644); err != nil {
					t.Fatalf("Failed to update golden file: %v", err)
				}
				t.Logf("Updated golden file: %s", goldenPath)
				return
			}

			want, err := os.ReadFile(goldenPath)
			if err != nil {
				t.Fatalf("Failed to read golden file: %v", err)
			}
			if got != string(want) {
				t.Errorf("Output differs from golden file %s", goldenPath)
				t.Errorf("Expected:\n%s", want)
				t.Errorf("Actual:\n%s", got)
			}
		})
	}
}
