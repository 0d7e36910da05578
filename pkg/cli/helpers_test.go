package cli

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
)

const testFixtures = "../../fixtures"

// runHarness executes the root command with a throwaway config directory
func runHarness(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv(configDirEnv, t.TempDir())
	GlobalConfig = &Config{}
	t.Cleanup(func() {
		GlobalConfig = &Config{}
		log.SetOutput(os.Stderr)
	})

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}
