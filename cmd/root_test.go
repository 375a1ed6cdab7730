package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDeckArg(t *testing.T) {
	cmd := &cobra.Command{Use: "check"}

	err := validateDeckArg(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required argument: PATH")

	err = validateDeckArg(cmd, []string{"a.html", "b.html"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1 argument but received 2")

	assert.NoError(t, validateDeckArg(cmd, []string{"a.html"}))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), Version)
	assert.Contains(t, out.String(), GitCommit)
}

func TestCommandsAreRegistered(t *testing.T) {
	for _, name := range []string{"create", "check", "watch", "outline", "preview", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}
