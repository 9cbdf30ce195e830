package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `module.exports = [{"src":"n1","dst":"n2","packetLoss":0.1,"latencyMean":5,"latencySigma":1,"srcPosition":{"x":10,"y":20},"dstPosition":{"x":30,"y":40}}];`

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := "version: 1\n" +
		"database:\n  driver: sqlite\n  path: " + filepath.Join(dir, "netsim.db") + "\n" +
		"blob:\n  backend: fs\n  dir: " + filepath.Join(dir, "blobs") + "\n" +
		"log:\n  level: error\n  format: console\n"
	path := filepath.Join(dir, "netsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.cmd.SetOut(&out)
	root.cmd.SetErr(&out)
	root.cmd.SetArgs(args)

	err := root.cmd.ExecuteContext(context.Background())
	require.NoError(t, root.close())
	return out.String(), err
}

func networkPath(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "network:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	t.Fatalf("no network in output:\n%s", out)
	return ""
}

func TestImportExportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	file := filepath.Join(dir, "office.js")
	require.NoError(t, os.WriteFile(file, []byte(sampleFile), 0o644))

	out, err := run(t, "--config", cfg, "import", "--file", file)
	require.NoError(t, err, out)
	assert.Contains(t, out, "import succeeded")
	assert.Contains(t, out, "commit:  Imported office.js")
	network := networkPath(t, out)

	outDir := filepath.Join(dir, "out")
	out, err = run(t, "--config", cfg, "export", "--node", network, "--out", outDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "export succeeded")

	exported, err := os.ReadFile(filepath.Join(outDir, "office (IMPORTED).js"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(exported), "module.exports"))
	assert.Contains(t, string(exported), `"src":"n1"`)
}

func TestUploadThenImportAsset(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	file := filepath.Join(dir, "lab.js")
	require.NoError(t, os.WriteFile(file, []byte(sampleFile), 0o644))

	out, err := run(t, "--config", cfg, "upload", file)
	require.NoError(t, err, out)
	hash := strings.Fields(out)[0]

	out, err = run(t, "--config", cfg, "import", "--asset", hash)
	require.NoError(t, err, out)
	assert.Contains(t, out, "commit:  Imported lab.js")
	// the root is not a Network
	assert.Contains(t, out, "[warning]")
}

func TestExportRequiresNetwork(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	out, err := run(t, "--config", cfg, "export", "--node", "/Node")
	require.Error(t, err)
	assert.Contains(t, out, "export failed")
	assert.Contains(t, out, "Please run the plugin on a network.")
}

func TestImportFlagsExclusive(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, err := run(t, "--config", cfg, "import", "--file", "a.js", "--asset", "abc")
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	target := filepath.Join(dir, "generated.yaml")

	out, err := run(t, "--config", cfg, "config", "init", target)
	require.NoError(t, err, out)
	assert.FileExists(t, target)

	_, err = run(t, "--config", cfg, "config", "init", target)
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, "--config", target, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Database: sqlite (./netsim.db)")
}
