package config

import (
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/viodisplay/internal/display"
)

func parse(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return Parse(fs, args)
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, display.TypeOpenCV, cfg.DisplayType)
	assert.Equal(t, "ws://localhost:8080", cfg.SignalingURL)
	assert.True(t, strings.HasPrefix(cfg.PublisherID, "display-"))
	assert.Equal(t, 20.0, cfg.Rate)
	assert.Equal(t, 70, cfg.Quality)
	assert.Equal(t, 640, cfg.MaxWidth)
	assert.Equal(t, display.DefaultRemoteConfig().ICEURLs, cfg.ICEURLs)
	assert.False(t, cfg.Loopback)
}

func TestParseDisplayType(t *testing.T) {
	t.Parallel()

	tests := map[string]display.Type{
		"remote":   display.TypeRemote,
		"Pangolin": display.TypePangolin,
		"0":        display.TypeOpenCV,
		"9":        display.Type(9),
	}
	for in, want := range tests {
		cfg, err := parse(t, "-display", in)
		require.NoError(t, err, in)
		assert.Equal(t, want, cfg.DisplayType, in)
	}

	_, err := parse(t, "-display", "vulkan")
	assert.Error(t, err)
}

func TestParseRemoteSettings(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t,
		"-display", "remote",
		"-signaling", "ws://sig:9000",
		"-id", "rig-7",
		"-ice", "stun:a:3478, ,turn:b:3478",
		"-loopback",
		"-quality", "40",
		"-max-width", "320",
	)
	require.NoError(t, err)

	remote := cfg.Remote()
	assert.Equal(t, "ws://sig:9000", remote.SignalingURL)
	assert.Equal(t, "rig-7", remote.PublisherID)
	assert.Equal(t, []string{"stun:a:3478", "turn:b:3478"}, remote.ICEURLs)
	assert.True(t, remote.Loopback)
	assert.Equal(t, 40, remote.Quality)
	assert.Equal(t, 320, remote.MaxWidth)
}

func TestParseHostCandidatesOnly(t *testing.T) {
	t.Parallel()

	cfg, err := parse(t, "-ice", "")
	require.NoError(t, err)
	assert.Empty(t, cfg.Remote().ICEURLs)
}

func TestParseRejectsBadRate(t *testing.T) {
	t.Parallel()

	_, err := parse(t, "-rate", "0")
	assert.Error(t, err)
}
