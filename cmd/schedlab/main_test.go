package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestParseRange(t *testing.T) {
	min, max, err := parseRange("2:5")
	require.NoError(t, err)
	require.Equal(t, 2, min)
	require.Equal(t, 5, max)

	min, max, err = parseRange("3")
	require.NoError(t, err)
	require.Equal(t, 3, min)
	require.Equal(t, 3, max)

	_, _, err = parseRange("a:b")
	require.Error(t, err)
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := runCommand(t, "analyze", "W1(A) C1 R2(A) C2")
	require.NoError(t, err)
	require.Contains(t, out, "conflict-serializable:   true")
	require.Contains(t, out, "strict:                  true")
	require.Contains(t, out, "T1->T2")
}

func TestAnalyzeCommandCycle(t *testing.T) {
	out, err := runCommand(t, "analyze", "R1(A) W2(A) W1(A) C1 C2")
	require.NoError(t, err)
	require.Contains(t, out, "conflict-serializable:   false")
}

func TestAnalyzeCommandWritesRenderings(t *testing.T) {
	dir := t.TempDir()
	dot := filepath.Join(dir, "g.dot")
	tex := filepath.Join(dir, "s.tex")
	_, err := runCommand(t, "analyze", "W1(A) C1 R2(A) C2", "--dot", dot, "--latex", tex)
	require.NoError(t, err)

	raw, err := os.ReadFile(dot)
	require.NoError(t, err)
	require.Contains(t, string(raw), "digraph conflicts")

	raw, err = os.ReadFile(tex)
	require.NoError(t, err)
	require.Contains(t, string(raw), "\\begin{tabular}")
}

func TestAnalyzeCommandRejectsBadSchedule(t *testing.T) {
	_, err := runCommand(t, "analyze", "R1(A) C1 W1(B)")
	require.Error(t, err)
}

func TestGenerateCommandWritesExercises(t *testing.T) {
	dir := t.TempDir()
	out, err := runCommand(t, "generate",
		"--seed", "12", "--max-attempts", "5000", "--require", "rec",
		"--out", dir, "--log-level", "error")
	require.NoError(t, err)
	require.NotEmpty(t, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	// One exercise: .sched, .tex, -graph.dot, and .json manifest.
	require.Len(t, entries, 4)
}
