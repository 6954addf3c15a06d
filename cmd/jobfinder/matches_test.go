package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejayillegal/JobFinder-Pro/internal/config"
)

func TestResolveMinScore(t *testing.T) {
	cfg := &config.Config{MinScore: 40}

	flags := pflag.NewFlagSet("matches", pflag.ContinueOnError)
	flags.Float64("min-score", 0, "")
	assert.Equal(t, 40.0, resolveMinScore(flags, cfg), "unset flag uses the configured threshold")

	require.NoError(t, flags.Set("min-score", "0"))
	assert.Equal(t, 0.0, resolveMinScore(flags, cfg), "an explicit zero shows everything")

	require.NoError(t, flags.Set("min-score", "75"))
	assert.Equal(t, 75.0, resolveMinScore(flags, cfg))
}
