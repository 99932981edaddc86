package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/ppp-onestep/internal/config"
	"github.com/yumyai/ppp-onestep/pkg/render"
)

func TestRunUsage(t *testing.T) {

	tests := []struct {
		name string
		args []string
	}{
		{name: "NoArgs", args: nil},
		{name: "MissingOut", args: []string{"-f", "in.fasta"}},
		{name: "MissingFasta", args: []string{"--out", "results"}},
		{name: "UnknownFlag", args: []string{"-f", "in.fasta", "-o", "results", "-x"}},
		{name: "Positional", args: []string{"-f", "in.fasta", "-o", "results", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout.String())
			assert.NotEmpty(t, stderr.String())
		})
	}
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-version"}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "ppp-onestep "+version+"\n", stdout.String())
}

func TestRunEndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake pepstats needs a POSIX shell")
	}
	for _, k := range []string{config.EnvPepstats, config.EnvPolicy, config.EnvLogLevel, config.EnvToolTimeout} {
		t.Setenv(k, "")
	}

	fixture, err := filepath.Abs(filepath.Join("pkg", "model", "testdata", "protein_properties.txt"))
	require.NoError(t, err)

	dir := t.TempDir()
	tool := filepath.Join(dir, "fake-pepstats")
	script := "#!/bin/sh\ncp '" + fixture + "' \"$2\"\n"
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755))

	in := filepath.Join(dir, "proteins.fasta")
	require.NoError(t, os.WriteFile(in, []byte(">SEQ_ALPHA\nMKV\n>SEQ_BETA\nILV\n"), 0o644))
	out := t.TempDir()
	envFile := filepath.Join(dir, "empty.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", in, "-o", out, "-tool", tool, "-env", envFile}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	tablePath := filepath.Join(out, render.TableFileName)
	assert.Contains(t, stdout.String(), "ppp-onestep result saved to "+tablePath)

	data, err := os.ReadFile(tablePath)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
}

func TestRunFailureExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake pepstats needs a POSIX shell")
	}
	for _, k := range []string{config.EnvPepstats, config.EnvPolicy, config.EnvLogLevel, config.EnvToolTimeout} {
		t.Setenv(k, "")
	}

	dir := t.TempDir()
	tool := filepath.Join(dir, "fake-pepstats")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\nexit 1\n"), 0o755))
	in := filepath.Join(dir, "proteins.fasta")
	require.NoError(t, os.WriteFile(in, []byte(">SEQ_ALPHA\nMKV\n"), 0o644))
	envFile := filepath.Join(dir, "empty.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0o644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", in, "-o", t.TempDir(), "-tool", tool, "-env", envFile}, &stdout, &stderr)
	assert.Equal(t, exitFail, code)
	assert.Contains(t, stderr.String(), "pepstats failed")
}

func TestRunMissingEnvFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "proteins.fasta")
	require.NoError(t, os.WriteFile(in, []byte(">SEQ_ALPHA\nMKV\n"), 0o644))
	out := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{"-f", in, "-o", out, "-env", filepath.Join(dir, "none.env")}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
	assert.Empty(t, stdout.String())
	assert.NoFileExists(t, filepath.Join(out, render.TableFileName))
}
