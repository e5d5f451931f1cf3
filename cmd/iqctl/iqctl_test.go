package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCellCommand(t *testing.T) {
	out, err := execute(t, "cell", "--seed", "42", "--row", "1", "--col", "2", "--render=false")
	require.NoError(t, err)
	assert.NotEmpty(t, gjson.Get(out, "cell.shape").String())
	assert.NotEmpty(t, gjson.Get(out, "key").String())

	_, err = execute(t, "cell", "--seed", "42", "--row", "5")
	assert.Error(t, err)

	_, err = execute(t, "cell", "--seed", "-3", "--row", "0")
	assert.ErrorContains(t, err, "invalid seed")
}

func TestGridCommand(t *testing.T) {
	out, err := execute(t, "grid", "--seed", "7", "--json")
	require.NoError(t, err)
	assert.Len(t, gjson.Parse(out).Array(), 3)

	out, err = execute(t, "grid", "--seed", "7", "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, "?")
}

func TestOptionsCommand(t *testing.T) {
	out, err := execute(t, "options", "--seed", "42", "--render=false")
	require.NoError(t, err)

	options := gjson.Get(out, "options").Array()
	require.NotEmpty(t, options)
	idx := gjson.Get(out, "answerIndex").Int()
	assert.True(t, options[idx].Get("answer").Bool())
	assert.Zero(t, options[idx].Get("distance").Float())
}

func TestPackCommand(t *testing.T) {
	first, err := execute(t, "pack", "--seed", "abc", "--difficulty", "easy", "--count", "3")
	require.NoError(t, err)
	second, err := execute(t, "pack", "--seed", "abc", "--difficulty", "easy", "--count", "3")
	require.NoError(t, err)
	assert.JSONEq(t, first, second)
	assert.Len(t, gjson.Get(first, "questions").Array(), 3)

	_, err = execute(t, "pack", "--difficulty", "extreme")
	assert.Error(t, err)
}

func TestPackCommandValidate(t *testing.T) {
	t.Cleanup(func() { _ = packCmd.Flags().Set("validate", "") })
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"questions":"nope"}`), 0o600))

	_, err := execute(t, "pack", "--validate", bad)
	assert.Error(t, err)

	_, err = execute(t, "pack", "--validate", filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "read pack")
}

func TestIQCommand(t *testing.T) {
	out, err := execute(t, "iq", "--correct", "16", "--total", "30", "--difficulty", "medium")
	require.NoError(t, err)
	assert.Equal(t, 100.0, gjson.Get(out, "iq").Float())
	assert.NotEmpty(t, gjson.Get(out, "band").String())

	_, err = execute(t, "iq", "--correct", "-1")
	assert.Error(t, err)
}
