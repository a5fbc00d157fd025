package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/heapkit/heap/arena"
)

// resetFlags restores every flag variable to its default so tests do not
// leak state through the shared rootCmd.
func resetFlags() {
	verbose, quiet, jsonOut = false, false, false
	logFile, logLevel = "", "debug"

	runSize = fmt.Sprint(arena.DefaultSize)
	runMapped, runCheckEach, runStrict = false, false, false

	stressSize = fmt.Sprint(arena.DefaultSize)
	stressOps, stressSeed, stressMaxAlloc = 10000, 1, 512
	stressFreePct, stressCheckEvery = 45, 1
	stressMapped = false
}

// runCLI executes heapctl with args and returns what it wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// writeScript writes a script file into a temp dir and returns its path.
func writeScript(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.heap")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

// decodeJSON decodes the first JSON document in output.
func decodeJSON(t *testing.T, output string) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	dec := json.NewDecoder(bytes.NewBufferString(output))
	if err := dec.Decode(&result); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
	return result
}
