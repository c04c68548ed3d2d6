package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"centers", "assign", "exposure", "merge"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "sunlight-cohort", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestCentersCommand_Flags(t *testing.T) {
	flag := centersCmd.Flags().Lookup("boundary")
	require.NotNil(t, flag, "centers command should have --boundary flag")
	assert.NotNil(t, centersCmd.Flags().Lookup("out"))
}

func TestAssignCommand_Flags(t *testing.T) {
	for _, name := range []string{"centers", "station-meta", "sunlight", "out-dir"} {
		require.NotNil(t, assignCmd.Flags().Lookup(name), "assign command should have --%s flag", name)
	}
}

func TestExposureCommand_Flags(t *testing.T) {
	for _, name := range []string{"panel", "daily", "out-dir"} {
		require.NotNil(t, exposureCmd.Flags().Lookup(name), "exposure command should have --%s flag", name)
	}
}

func TestMergeCommand_Flags(t *testing.T) {
	for _, name := range []string{"panel", "exposure", "cutoffs", "out"} {
		require.NotNil(t, mergeCmd.Flags().Lookup(name), "merge command should have --%s flag", name)
	}
}
