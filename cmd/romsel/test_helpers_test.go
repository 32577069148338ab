package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	romset     string
	selection  string
	stateDir   string
	listPath   string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("ROMSEL_ROMSET_DIR", "")
	t.Setenv("ROMSEL_SELECTION_DIR", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "romsel.toml"),
		romset:     filepath.Join(base, "romset"),
		selection:  filepath.Join(base, "selection"),
		stateDir:   filepath.Join(base, "state"),
		listPath:   filepath.Join(base, "picks.csv"),
	}
	for _, dir := range []string{env.romset, env.selection} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	writeTestFile(t, filepath.Join(env.romset, "sf2.zip"), "sf2 rom")
	writeTestFile(t, filepath.Join(env.romset, "sf2", "sf2.chd"), "sf2 chd")
	writeTestFile(t, filepath.Join(env.romset, "pacman.zip"), "pacman rom")
	writeTestFile(t, env.listPath, "name;description\nsf2;Street Fighter II\npacman;Pac-Man\n")
	writeTestConfig(t, env)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nromset_dir = %q\nselection_dir = %q\nstate_dir = %q\nlog_dir = \"\"\n\n[logging]\nlevel = \"warn\"\n",
		env.romset,
		env.selection,
		env.stateDir,
	)
	writeTestFile(t, env.configPath, content)
}

func writeTestFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent (err=%v)", path, err)
	}
}
