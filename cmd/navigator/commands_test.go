package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NAVigator/internal/config"
	"NAVigator/internal/model"
)

func TestParseCode(t *testing.T) {
	code, err := parseCode("118989")
	require.NoError(t, err)
	assert.Equal(t, 118989, code)

	for _, bad := range []string{"", "abc", "0", "-4"} {
		_, err := parseCode(bad)
		assert.Error(t, err, bad)
	}
}

func TestRangeFlagFallsBackToConfig(t *testing.T) {
	cfg = &config.Config{}
	cfg.Analytics.DefaultRange = "3M"

	cmd := &cobra.Command{}
	cmd.Flags().String("range", "", "")

	w, err := rangeFlag(cmd)
	require.NoError(t, err)
	assert.Equal(t, model.Period3M, w.Period)

	require.NoError(t, cmd.Flags().Set("range", "2024-01-01..2024-06-30"))
	w, err = rangeFlag(cmd)
	require.NoError(t, err)
	assert.False(t, w.Relative())
	assert.Equal(t, "2024-01-01..2024-06-30", w.String())

	require.NoError(t, cmd.Flags().Set("range", "2W"))
	_, err = rangeFlag(cmd)
	assert.Error(t, err)
}

func TestScheduleFlags(t *testing.T) {
	newCmd := func() *cobra.Command {
		cmd := &cobra.Command{}
		cmd.Flags().String("amount", "", "")
		cmd.Flags().String("frequency", "monthly", "")
		cmd.Flags().String("start", "", "")
		cmd.Flags().String("end", "", "")
		return cmd
	}

	cmd := newCmd()
	require.NoError(t, cmd.Flags().Set("amount", "5000"))
	require.NoError(t, cmd.Flags().Set("frequency", "Quarterly"))
	require.NoError(t, cmd.Flags().Set("start", "2023-06-01"))
	sched, err := scheduleFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "5000", sched.Amount.String())
	assert.Equal(t, model.FrequencyQuarterly, sched.Frequency)
	assert.Equal(t, 2023, sched.Start.Year())
	assert.True(t, sched.End.IsZero())

	cmd = newCmd()
	require.NoError(t, cmd.Flags().Set("amount", "lots"))
	_, err = scheduleFlags(cmd)
	assert.Error(t, err)

	cmd = newCmd()
	require.NoError(t, cmd.Flags().Set("amount", "100"))
	require.NoError(t, cmd.Flags().Set("frequency", "daily"))
	_, err = scheduleFlags(cmd)
	assert.Error(t, err)
}
