package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, dir, name string, n, ms int) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "FrameTime: %d ms\n", ms)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestRunNoArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "Usage: vq [-s][-g] files")
	assert.Empty(t, stdout.String())
}

func TestRunNoMatches(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{filepath.Join(t.TempDir(), "*.txt")}, &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestRunUnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--bogus", "x.txt"}, &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "bogus")
	assert.Contains(t, stderr.String(), "Usage:")
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--version"}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(stdout.String(), "vq "))
}

func TestRunZeroJobsUsesEveryCPU(t *testing.T) {
	dir := t.TempDir()
	clip := writeLog(t, dir, "clip.txt", 100, 33)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-j", "0", clip}, &stdout, &stderr)

	assert.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "OK:  1")
}

func TestRunInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	clip := writeLog(t, dir, "clip.txt", 100, 33)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--jobs=-1", clip}, &stdout, &stderr)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "VALIDATION_ERROR")
	assert.Contains(t, stderr.String(), "workers must be at least 1")
}

func TestRunAllInSync(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "a.txt", 90, 33)
	writeLog(t, dir, "b.txt", 120, 20)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-s", filepath.Join(dir, "*.txt")}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	out := stdout.String()
	assert.Contains(t, out, "Reading a....")
	assert.Contains(t, out, "Reading b....")
	assert.Contains(t, out, "Statistics")
	assert.Contains(t, out, "NOK: 0")
	assert.Contains(t, out, "OK:  2")
}

func TestRunOutOfSync(t *testing.T) {
	dir := t.TempDir()
	slow := writeLog(t, dir, "slow.txt", 200, 100)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{slow}, &stdout, &stderr)

	assert.Equal(t, exitNotSync, code)
	assert.Contains(t, stdout.String(), "Sync achieved @ 10 fps")
	assert.Contains(t, stdout.String(), "NOK: 1")
}

func TestRunTargetFPSFlag(t *testing.T) {
	dir := t.TempDir()
	clip := writeLog(t, dir, "clip.txt", 200, 20)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--fps", "60", clip}, &stdout, &stderr)

	assert.Equal(t, exitNotSync, code)
	assert.Contains(t, stdout.String(), "NOK")
}

func TestRunWritesMetricsAndGraph(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&b, "FrameTime: %d ms\n", 30+6*(i%2))
	}
	clip := filepath.Join(dir, "clip.txt")
	require.NoError(t, os.WriteFile(clip, []byte(b.String()), 0o644))
	metricsFile := filepath.Join(dir, "vq.prom")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{
		"-g", "--graph-dir", dir,
		"--metrics-file", metricsFile,
		clip,
	}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.FileExists(t, filepath.Join(dir, "clip.png"))

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `vq_files_total{outcome="ok"} 1`)
	assert.Contains(t, string(data), `vq_best_fps{clip="clip"}`)
	assert.Contains(t, string(data), `vq_in_sync{clip="clip"} 1`)
}

func TestRunArchivesInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()
	clip := writeLog(t, dir, "clip.txt", 90, 33)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--redis-addr", mr.Addr(), clip}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	keys := mr.Keys()
	require.NotEmpty(t, keys)
	var found bool
	for _, k := range keys {
		if strings.HasPrefix(k, "vq:runs:") && strings.HasSuffix(k, ":"+clip) {
			found = true
		}
	}
	assert.True(t, found, "record key missing in %v", keys)
}

func TestRunUnreachableRedisContinues(t *testing.T) {
	dir := t.TempDir()
	clip := writeLog(t, dir, "clip.txt", 90, 33)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--redis-addr", "127.0.0.1:1", clip}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "OK:  1")
}
