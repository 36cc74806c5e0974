package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reillywatson/prsnapshot/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	s := Snapshot{GeneratedAt: time.Date(2024, 6, 30, 12, 34, 56, 789000000, time.FixedZone("EST", -5*3600))}

	assert.Equal(t, "pr-snapshot-2024-06-30T17-34-56-789Z.json", FileName(s))
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s := Snapshot{
		Organization: "acme",
		GeneratedAt:  runNow,
		Since:        runNow.Add(-7 * 24 * time.Hour),
		Days:         7,
		Repositories: map[string]RepoEntry{
			"widgets": {
				Repository:   github.Repository{Name: "widgets", Topics: []string{}},
				PullRequests: []github.PullRequest{},
			},
		},
		Summary: Summary{TotalRepositories: 1},
	}

	path, err := Write(dir, s)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pr-snapshot-2024-06-30T12-00-00-000Z.json"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"organization\": \"acme\"")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "acme", doc["organization"])
	assert.Equal(t, float64(7), doc["days"])
	summary := doc["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["total_repositories"])
	repos := doc["repositories"].(map[string]any)
	widgets := repos["widgets"].(map[string]any)
	assert.Equal(t, []any{}, widgets["pull_requests"])

	// No temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWrite_UnwritableDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := Write(filepath.Join(file, "data"), Snapshot{GeneratedAt: runNow})
	assert.Error(t, err)
}
