package dashboard

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/vitalmetrics/internal/app"
	"nathanbeddoewebdev/vitalmetrics/internal/config"
	"nathanbeddoewebdev/vitalmetrics/internal/database"
	"nathanbeddoewebdev/vitalmetrics/internal/history"
	"nathanbeddoewebdev/vitalmetrics/internal/mockapi"
	"nathanbeddoewebdev/vitalmetrics/internal/services/auth"
	"nathanbeddoewebdev/vitalmetrics/internal/vitals"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// setupTestEnv isolates config, session and history files in a temp dir.
func setupTestEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("VITALMETRICS_SESSION_BACKEND", "file")
	config.SetPath(filepath.Join(dir, "config.json"))
	database.SetPath(filepath.Join(dir, "history.db"))
	t.Cleanup(config.ResetPath)
	t.Cleanup(database.ResetPath)
}

// login stores a token the lenient mock accepts for data routes.
func login(t *testing.T) {
	t.Helper()
	store, err := auth.NewStore(auth.BackendFile)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := store.Set(mockapi.TokenPrefix + "test"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
}

func execCmd(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	app.AddFlags(cmd)
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(append(args, "--mock"))
	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func pages(rows []vitals.PageRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Page
	}
	return out
}

func TestDashboard_JSON(t *testing.T) {
	setupTestEnv(t)
	login(t)

	stdout, stderr, err := execCmd(t, NewCommand(), "-o", "json")
	if err != nil {
		t.Fatalf("dashboard failed: %v (stderr: %s)", err, stderr)
	}

	var snap vitals.Snapshot
	if err := json.Unmarshal([]byte(stdout), &snap); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	want := []string{"/home", "/products", "/checkout", "/about", "/contact"}
	if diff := cmp.Diff(want, pages(snap.PageRows)); diff != "" {
		t.Errorf("pages (-want +got):\n%s", diff)
	}
	if len(snap.SummaryCards) != 3 {
		t.Errorf("expected 3 summary cards, got %d", len(snap.SummaryCards))
	}
}

func TestDashboard_FilterYAML(t *testing.T) {
	setupTestEnv(t)
	login(t)

	stdout, _, err := execCmd(t, NewCommand(), "--filter", "/c", "-o", "yaml")
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	var snap vitals.Snapshot
	if err := yaml.Unmarshal([]byte(stdout), &snap); err != nil {
		t.Fatalf("invalid YAML output: %v\n%s", err, stdout)
	}
	if diff := cmp.Diff([]string{"/checkout", "/contact"}, pages(snap.PageRows)); diff != "" {
		t.Errorf("pages (-want +got):\n%s", diff)
	}
	if snap.Filter != "/c" {
		t.Errorf("Filter = %q, want %q", snap.Filter, "/c")
	}
}

func TestDashboard_Table(t *testing.T) {
	setupTestEnv(t)
	login(t)

	stdout, _, err := execCmd(t, NewCommand())
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	for _, want := range []string{"METRIC", "LCP", "PAGE", "/checkout", "3.8s", "450ms", "0.25"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestDashboard_RecordsHistory(t *testing.T) {
	setupTestEnv(t)
	login(t)

	if _, _, err := execCmd(t, NewCommand(), "-o", "json"); err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}

	repo, err := history.Open()
	if err != nil {
		t.Fatalf("history.Open failed: %v", err)
	}
	defer repo.Close()

	entries, err := repo.List("/checkout", 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 recorded /checkout row, got %d", len(entries))
	}
	if entries[0].Status != vitals.StatusNeedsImprovement {
		t.Errorf("Status = %q, want %q", entries[0].Status, vitals.StatusNeedsImprovement)
	}
}

func TestDashboard_NotLoggedIn(t *testing.T) {
	setupTestEnv(t)

	_, stderr, err := execCmd(t, NewCommand(), "-o", "json")
	if err == nil {
		t.Fatal("expected error without a session")
	}
	if !strings.Contains(stderr, "not logged in") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestDashboard_InvalidFlags(t *testing.T) {
	setupTestEnv(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-o", "xml"}, "unsupported output format"},
		{[]string{"--retries", "-1"}, "must not be negative"},
	}
	for _, tt := range tests {
		_, stderr, err := execCmd(t, NewCommand(), tt.args...)
		if err == nil {
			t.Errorf("args %v: expected error", tt.args)
			continue
		}
		if !strings.Contains(stderr, tt.want) {
			t.Errorf("args %v: expected %q in stderr, got: %s", tt.args, tt.want, stderr)
		}
	}
}

func TestPages(t *testing.T) {
	setupTestEnv(t)
	login(t)

	stdout, _, err := execCmd(t, PagesCommand(), "--page", "/about", "-o", "json")
	if err != nil {
		t.Fatalf("pages failed: %v", err)
	}

	var rows []vitals.PageRow
	if err := json.Unmarshal([]byte(stdout), &rows); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
	}
	if diff := cmp.Diff([]string{"/about"}, pages(rows)); diff != "" {
		t.Errorf("pages (-want +got):\n%s", diff)
	}
	if rows[0].Status != vitals.StatusGood {
		t.Errorf("Status = %q, want good", rows[0].Status)
	}
}

func TestPages_NoMatch(t *testing.T) {
	setupTestEnv(t)
	login(t)

	stdout, _, err := execCmd(t, PagesCommand(), "--page", "/nowhere")
	if err != nil {
		t.Fatalf("pages failed: %v", err)
	}
	if !strings.Contains(stdout, "No pages found.") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestPrintPages_MarksDerivedStatus(t *testing.T) {
	var buf bytes.Buffer
	rows := []vitals.PageRow{
		{Page: "/a", Status: vitals.StatusPoor, StatusSource: vitals.StatusDerived},
	}
	if err := printPages(&buf, rows); err != nil {
		t.Fatalf("printPages failed: %v", err)
	}
	if !strings.Contains(buf.String(), "*") || !strings.Contains(buf.String(), "derived") {
		t.Errorf("expected derived marker:\n%s", buf.String())
	}
}
