package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/junsooki/viodisplay/internal/display"
)

// Config holds all runtime configuration.
type Config struct {
	DisplayType  display.Type
	SignalingURL string
	PublisherID  string
	ICEURLs      []string
	Loopback     bool
	Rate         float64
	Landmarks    int
	Quality      int
	MaxWidth     int
}

// Parse parses args into a Config using fs.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	remote := display.DefaultRemoteConfig()
	cfg := &Config{DisplayType: display.TypeOpenCV}

	fs.Func("display", "Display backend: name (opencv, pangolin, remote) or numeric id (default opencv)", func(s string) error {
		t, err := display.ParseType(s)
		if err != nil {
			return err
		}
		cfg.DisplayType = t
		return nil
	})
	fs.StringVar(&cfg.SignalingURL, "signaling", remote.SignalingURL, "Signaling server WebSocket URL (remote display)")
	fs.StringVar(&cfg.PublisherID, "id", "", "Publisher ID (auto-generated if empty)")
	ice := fs.String("ice", strings.Join(remote.ICEURLs, ","), "Comma-separated STUN/TURN URLs, empty for host candidates only (remote display)")
	fs.BoolVar(&cfg.Loopback, "loopback", false, "Offer loopback ICE candidates for viewers on this host (remote display)")
	fs.Float64Var(&cfg.Rate, "rate", 20, "Pipeline output rate in Hz")
	fs.IntVar(&cfg.Landmarks, "landmarks", 2000, "Number of synthetic landmarks")
	fs.IntVar(&cfg.Quality, "quality", remote.Quality, "JPEG quality (1-100)")
	fs.IntVar(&cfg.MaxWidth, "max-width", remote.MaxWidth, "Maximum streamed frame width in pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Rate <= 0 {
		return nil, fmt.Errorf("rate must be positive, got %v", cfg.Rate)
	}
	if cfg.PublisherID == "" {
		cfg.PublisherID = fmt.Sprintf("display-%s", randomID())
	}
	for _, u := range strings.Split(*ice, ",") {
		if u = strings.TrimSpace(u); u != "" {
			cfg.ICEURLs = append(cfg.ICEURLs, u)
		}
	}
	return cfg, nil
}

// Remote returns the remote display settings.
func (c *Config) Remote() display.RemoteConfig {
	return display.RemoteConfig{
		SignalingURL: c.SignalingURL,
		PublisherID:  c.PublisherID,
		ICEURLs:      c.ICEURLs,
		Loopback:     c.Loopback,
		Quality:      c.Quality,
		MaxWidth:     c.MaxWidth,
	}
}

func randomID() string {
	return uuid.NewString()[:8]
}
