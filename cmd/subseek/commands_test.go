package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subseek/internal/fingerprint"
	"subseek/internal/testsupport"
)

func TestHashCommand(t *testing.T) {
	dir := t.TempDir()
	a := testsupport.WritePattern(t, filepath.Join(dir, "a.avi"), fingerprint.MinSize, 1, 2)
	b := testsupport.WritePattern(t, filepath.Join(dir, "b.avi"), fingerprint.MinSize, 0, 0)

	out, _, err := runCLI(t, []string{"hash", "--workers", "2", a, b}, "")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	want := "FILE(" + a + ")=131072 0000000000026000\nFILE(" + b + ")=131072 0000000000020000\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestHashCommandReportsFailures(t *testing.T) {
	dir := t.TempDir()
	good := testsupport.WritePattern(t, filepath.Join(dir, "good.avi"), fingerprint.MinSize, 1, 2)
	missing := filepath.Join(dir, "missing.avi")

	out, errOut, err := runCLI(t, []string{"hash", good, missing}, "")
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected partial failure, got %v", err)
	}
	requireContains(t, out, "0000000000026000")
	requireContains(t, errOut, missing)
}

func TestHashCommandTable(t *testing.T) {
	dir := t.TempDir()
	a := testsupport.WritePattern(t, filepath.Join(dir, "a.avi"), fingerprint.MinSize, 1, 2)

	out, _, err := runCLI(t, []string{"hash", "--table", a}, "")
	if err != nil {
		t.Fatalf("hash --table: %v", err)
	}
	requireContains(t, out, "0000000000026000")
	requireContains(t, out, "131072")
	if strings.Contains(out, "FILE(") {
		t.Fatalf("table output should not use the FILE line format: %q", out)
	}
}

func TestCheckCommandAgainstFakeCatalog(t *testing.T) {
	env := setupCLITestEnv(t, searchAnswer)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Catalog endpoint")
	if strings.Contains(out, "FAIL") {
		t.Fatalf("unexpected failing check:\n%s", out)
	}
}

func TestCheckCommandReportsUnreachableCatalog(t *testing.T) {
	env := setupCLITestEnv(t, searchAnswer)
	env.catalog.server.Close()

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatalf("expected failure, got output:\n%s", out)
	}
	requireContains(t, out, "FAIL")
}

func TestCachePurge(t *testing.T) {
	env := setupCLITestEnv(t, searchAnswer)
	media := testsupport.WritePattern(t, filepath.Join(env.baseDir, "movie.avi"), fingerprint.MinSize, 1, 2)

	if _, _, err := runCLI(t, []string{"search", media}, env.configPath); err != nil {
		t.Fatalf("search: %v", err)
	}
	out, _, err := runCLI(t, []string{"cache", "purge"}, env.configPath)
	if err != nil {
		t.Fatalf("cache purge: %v", err)
	}
	requireContains(t, out, "Removed 2 cached entries")

	if _, _, err := runCLI(t, []string{"search", media}, env.configPath); err != nil {
		t.Fatalf("search after purge: %v", err)
	}
	if got := env.catalog.count("SearchSubtitles"); got != 2 {
		t.Fatalf("expected purge to force a fresh search, got %d searches", got)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, searchAnswer)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.catalog.server.URL)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateRejectsBadEndpoint(t *testing.T) {
	env := setupCLITestEnv(t, searchAnswer)
	env.cfg.Catalog.Endpoint = "ftp://catalog.example"
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err == nil {
		t.Fatal("expected validation failure")
	}
}
