package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// Isolated in-memory store and quiet logs for every run.
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_OUTPUT", "stderr")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLevelCommand(t *testing.T) {
	tests := []struct {
		xp   string
		want []string
	}{
		{"0", []string{"XP 0: level 1 Newcomer", "0% towards level 2 Learner (100 XP to go)"}},
		{"180", []string{"XP 180: level 2 Learner", "53% towards level 3 Collaborator (70 XP to go)"}},
		{"1000", []string{"XP 1000: level 5 Pathfinder", "Max level reached"}},
	}

	for _, tt := range tests {
		t.Run(tt.xp, func(t *testing.T) {
			out, err := execute(t, "level", tt.xp)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestLevelCommand_Invalid(t *testing.T) {
	_, err := execute(t, "level", "-5")
	assert.Error(t, err)

	_, err = execute(t, "level", "lots")
	assert.Error(t, err)
}

func TestPathwaysCommand(t *testing.T) {
	out, err := execute(t, "pathways", "--learner", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Product Manager Fresher (pm-fresher) 2/7 missions, 80/600 XP, 29%")
	assert.Contains(t, out, "4 pathways")
}

func TestEnrollCommand(t *testing.T) {
	out, err := execute(t, "enroll", "--learner", "4", "pm-fresher")
	require.NoError(t, err)
	assert.Contains(t, out, "(pm-fresher) 0/7 missions")

	_, err = execute(t, "enroll", "--learner", "4", "astronaut")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vnuconnect (devel)")
}
