package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestDepsTextfileOnlyNeedsNoTools(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "No external tools required")
}

func TestDepsReportsMissingBinary(t *testing.T) {
	env := setupCLITestEnv(t)

	configPath := filepath.Join(env.baseDir, "tesseract-config.toml")
	content := fmt.Sprintf(
		"[paths]\ninbox_dir = %q\nwork_dir = %q\ndata_dir = %q\nlog_dir = %q\n\n[extraction]\nproviders = [\"tesseract\"]\n\n[extraction.tesseract]\nbinary = \"docverify-no-such-binary\"\n",
		env.cfg.Paths.InboxDir,
		env.cfg.Paths.WorkDir,
		env.cfg.Paths.DataDir,
		env.cfg.Paths.LogDir,
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, _, err := runCLI(t, []string{"deps"}, configPath)
	if err == nil {
		t.Fatal("expected missing-tool error")
	}
	requireContains(t, out, "docverify-no-such-binary")
	requireContains(t, err.Error(), "missing")
}
