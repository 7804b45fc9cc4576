package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func withColumns(t *testing.T, names string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "columns.yaml")
	if err := os.WriteFile(path, []byte(names), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CELLFORM_COLUMNS_FILE", path)
	t.Setenv("CELLFORM_OUTPUT", "markdown")
}

func TestNewVersionCommand(t *testing.T) {
	out, err := executeCommand(t, NewVersionCommand("1.2.3", "today", "abc123"))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"cellform v1.2.3", "today", "abc123"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got: %s", want, out)
		}
	}
}

func TestFunctionsCommandLists(t *testing.T) {
	withColumns(t, "- Revenue\n")
	out, err := executeCommand(t, NewFunctionsCommand())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"SUM", "MEDIAN", "DATEDIF"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should list %q, got: %s", want, out)
		}
	}
}

func TestFunctionsCommandShowsOne(t *testing.T) {
	withColumns(t, "- Revenue\n")
	out, err := executeCommand(t, NewFunctionsCommand(), "round")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "ROUND(colA, [digits])") {
		t.Errorf("output should show the ROUND syntax, got: %s", out)
	}
}

func TestFunctionsCommandUnknown(t *testing.T) {
	withColumns(t, "- Revenue\n")
	_, err := executeCommand(t, NewFunctionsCommand(), "nope")
	if err == nil {
		t.Error("expected an error for an unknown function")
	}
}

func TestFunctionsCommandJSON(t *testing.T) {
	withColumns(t, "- Revenue\n")
	t.Setenv("CELLFORM_OUTPUT", "json")

	out, err := executeCommand(t, NewFunctionsCommand())
	if err != nil {
		t.Fatalf("Execute() error = %v, output: %s", err, out)
	}
	var listed []map[string]any
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if len(listed) == 0 {
		t.Fatal("JSON listing should not be empty")
	}

	out, err = executeCommand(t, NewFunctionsCommand(), "sum")
	if err != nil {
		t.Fatalf("Execute() error = %v, output: %s", err, out)
	}
	var shown map[string]any
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, out)
	}
	if shown["key"] != "sum" {
		t.Errorf(`shown["key"] = %v, want "sum"`, shown["key"])
	}
}

func TestCheckCommandValid(t *testing.T) {
	withColumns(t, "- Revenue\n- Cost\n")
	out, err := executeCommand(t, NewCheckCommand(), "=SUM(Revenue, Cost)")
	if err != nil {
		t.Fatalf("Execute() error = %v, output: %s", err, out)
	}
	if !strings.Contains(out, "valid") {
		t.Errorf("output should report the formula valid, got: %s", out)
	}
}

func TestCheckCommandUnknownColumn(t *testing.T) {
	withColumns(t, "- Revenue\n- Cost\n")
	out, err := executeCommand(t, NewCheckCommand(), "=SUM(Reveno)")
	if err == nil {
		t.Fatal("expected the check to fail")
	}
	if !strings.Contains(out, "Revenue") {
		t.Errorf("output should suggest Revenue, got: %s", out)
	}
}

func TestCheckCommandLiveDefersColumns(t *testing.T) {
	withColumns(t, "- Revenue\n")
	_, err := executeCommand(t, NewCheckCommand(), "--live", "=SUM(Reveno)")
	if err != nil {
		t.Errorf("live check should defer column validation, got: %v", err)
	}
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	out, err := executeCommand(t, NewInitCommand(), dir)
	if err != nil {
		t.Fatalf("Execute() error = %v, output: %s", err, out)
	}
	for _, name := range []string{"cellform.yaml", "columns.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("init should create %s: %v", name, err)
		}
	}

	if _, err := executeCommand(t, NewInitCommand(), dir); err == nil {
		t.Error("re-running init in the same directory should fail")
	}
}
