package config

import (
	"log/slog"
	"slices"
	"testing"

	"github.com/inamate/chartgeo/internal/decimate"
	"github.com/inamate/chartgeo/internal/viewport"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.MaxVisiblePoints != 2000 || cfg.TickTTL.Seconds() != 60 {
		t.Errorf("defaults = %+v", cfg)
	}
	if d := cfg.Decimation(); d.Mode != decimate.ModeAdaptive || d.MarginFactor != 0.1 {
		t.Errorf("Decimation() = %+v", d)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHART_ZOOM_AXIS", "x")
	t.Setenv("CHART_MAX_ZOOM", "50")
	t.Setenv("DECIMATION_MODE", "minmax")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	i := cfg.Interactions()
	if i.ZoomAxis != viewport.AxisX || i.MaxZoom != 50 || i.PanAxis != viewport.AxisBoth {
		t.Errorf("Interactions() = %+v", i)
	}
	if cfg.Decimation().Mode != decimate.ModeMinMax {
		t.Errorf("mode = %v", cfg.Decimation().Mode)
	}
	if got := cfg.Origins(); !slices.Equal(got, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("Origins() = %v", got)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v", cfg.SlogLevel())
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("DECIMATION_MODE", "fancy")
	if _, err := Load(); err == nil {
		t.Fatal("Load accepted an unknown decimation mode")
	}
}
