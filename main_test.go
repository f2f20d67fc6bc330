package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/lanes/internal/score"
	"git.lost.host/meutraa/lanes/internal/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	chart := filepath.Join(dir, "score.json")
	require.NoError(t, os.WriteFile(chart, []byte(testdata.Score), 0o644))

	inputs := filepath.Join(dir, "inputs.json")
	f, err := os.Create(inputs)
	require.NoError(t, err)
	require.NoError(t, score.WriteInputs(f, testdata.Inputs()))
	require.NoError(t, f.Close())
	return chart, inputs
}

func TestCheck(t *testing.T) {
	chart, _ := fixtures(t)
	var out bytes.Buffer
	require.NoError(t, run([]string{"--log-level", "error", "check", chart}, &out))
	assert.Contains(t, out.String(), "6 notes")
	assert.Contains(t, out.String(), "2 holds")
	assert.Contains(t, out.String(), "Fixture")
}

func TestReplay(t *testing.T) {
	chart, inputs := fixtures(t)
	var out bytes.Buffer
	require.NoError(t, run([]string{"--log-level", "error", "replay", chart, inputs}, &out))
	assert.Contains(t, out.String(), "early release")
	assert.Contains(t, out.String(), "Max combo:         3")
}

func TestReplayDifficultyOutOfRange(t *testing.T) {
	chart, inputs := fixtures(t)
	err := run([]string{"--log-level", "error", "-i", "1", "replay", chart, inputs}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRecord(t *testing.T) {
	file := filepath.Join(t.TempDir(), "log.json")
	require.NoError(t, record(file, testdata.Inputs()))

	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	inputs, err := score.ReadInputs(f)
	require.NoError(t, err)
	assert.Equal(t, testdata.Inputs(), inputs)
}
