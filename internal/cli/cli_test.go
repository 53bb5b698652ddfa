package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRosterCommand(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	path := filepath.Join(dir, "roster.csv")
	content := "면허번호,이름,소속기관\n1001,김민수,서울지부\n1001,김민수,서울지부\n1002,,부산지부\n1003.0,박철수,대구지부\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	out, err := runCommand(t, "roster", path, "--format", "json")
	require.NoError(t, err)

	var report RosterReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, RosterReport{Filename: "roster.csv", TotalRows: 4, Accepted: 2, Dropped: 1, Duplicates: 1}, report)

	out, err = runCommand(t, "roster", path)
	require.NoError(t, err)
	assert.Contains(t, out, "accepted:   2")
}

func TestRosterCommand_BadFile(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)
	path := filepath.Join(dir, "roster.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	_, err := runCommand(t, "roster", path)
	assert.Error(t, err)
}

func TestLimitsCommand(t *testing.T) {
	dir := t.TempDir()
	testChdir(t, dir)

	out, err := runCommand(t, "limits", "--format", "json")
	require.NoError(t, err)
	var report LimitsReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "defaults", report.Source)
	assert.Equal(t, 10, report.Limits["4등 커피머신"])
	assert.Empty(t, report.Error)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "gift_limits.json"), []byte(`{"특별상": 3}`), 0o644))
	out, err = runCommand(t, "limits")
	require.NoError(t, err)
	assert.Contains(t, out, "특별상\t3")
	assert.NotContains(t, out, "커피머신")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "gift_limits.json"), []byte(`{"특별상": -3}`), 0o644))
	out, err = runCommand(t, "limits", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "defaults", report.Source)
	assert.NotEmpty(t, report.Error)
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	testChdir(t, t.TempDir())
	_, err := runCommand(t, "limits", "--format", "yaml")
	assert.Error(t, err)
}
