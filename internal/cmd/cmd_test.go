package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/config"
	clierrors "github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/errors"
	"github.com/lupohan44/Discourse-Trust-Level-Progress/pkg/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	prev := output.Writer
	output.Writer = &buf
	t.Cleanup(func() { output.Writer = prev })

	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		outputFmt = ""
		forumURL = ""
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.toml")
	out, err := run(t, "version", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "tlprogress v"+config.Version, strings.TrimSpace(out))
}

func TestConfigSetGet(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.toml")

	_, err := run(t, "config", "set", "forum.username", "alice", "--config", cfg)
	require.NoError(t, err)

	out, err := run(t, "config", "get", "forum.username", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "alice", strings.TrimSpace(out))

	out, err = run(t, "config", "path", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, strings.TrimSpace(out))
}

func TestInvalidOutputFormat(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.toml")
	_, err := run(t, "version", "--config", cfg, "--output", "yaml")
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation))
}

func TestRequirementsArgs(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.toml")
	_, err := run(t, "requirements", "five", "--config", cfg)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation))
}
