// Package decimate reduces series to the points worth drawing. Every
// strategy returns ascending indices into its input, so callers keep the
// identity of the original points; the *Points helpers materialise them.
package decimate

import (
	"fmt"
	"strings"

	"github.com/inamate/chartgeo/internal/bounds"
	"github.com/inamate/chartgeo/internal/dataset"
)

// Mode selects a decimation strategy.
type Mode int

const (
	ModeAdaptive Mode = iota
	ModeNone
	ModeLTTB
	ModeMinMax
	ModePixelAware
)

var modeNames = map[Mode]string{
	ModeAdaptive:   "adaptive",
	ModeNone:       "none",
	ModeLTTB:       "lttb",
	ModeMinMax:     "minmax",
	ModePixelAware: "pixel",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names printed by String, case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown decimation mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Config selects and tunes a strategy.
type Config struct {
	Mode Mode `json:"mode"`
	// MaxVisiblePoints is the point budget for LTTB and Adaptive, and four
	// times the bucket count for MinMax.
	MaxVisiblePoints int `json:"maxVisiblePoints"`
	// Threshold is the series length at or below which nothing is dropped.
	Threshold      int     `json:"threshold"`
	MarginFactor   float64 `json:"marginFactor"`
	PointsPerPixel float64 `json:"pointsPerPixel"`
}

// DefaultConfig returns the adaptive strategy with a 2000 point budget.
func DefaultConfig() Config {
	return Config{
		Mode:             ModeAdaptive,
		MaxVisiblePoints: 2000,
		Threshold:        1000,
		MarginFactor:     DefaultMarginFactor,
		PointsPerPixel:   DefaultPointsPerPixel,
	}
}

// View is what the window-based strategies need to know about the screen.
type View struct {
	// X is the visible data-space x range. A degenerate range means the
	// whole series is visible.
	X bounds.Bounds
	// Pixels is the horizontal plot width.
	Pixels float64
}

// Apply decimates points according to cfg and returns the kept indices.
func Apply(points []dataset.DataPoint, cfg Config, view View) []int {
	n := len(points)
	if n == 0 {
		return nil
	}
	if cfg.Mode == ModeNone || n <= cfg.Threshold {
		return indexRange(0, n)
	}

	visible := view.X
	if visible.IsDegenerate() {
		visible = bounds.Bounds{Min: points[0].X, Max: points[n-1].X}
	}
	margin := cfg.MarginFactor
	if margin < 0 {
		margin = DefaultMarginFactor
	}

	switch cfg.Mode {
	case ModeLTTB:
		return LTTB(points, cfg.MaxVisiblePoints)
	case ModeMinMax:
		return MinMax(points, max(1, cfg.MaxVisiblePoints/4))
	case ModePixelAware:
		return PixelAware(points, visible, view.Pixels, cfg.PointsPerPixel, margin)
	default:
		return Adaptive(points, visible, margin, cfg.MaxVisiblePoints)
	}
}

// ApplyPoints is Apply returning the selected points.
func ApplyPoints(points []dataset.DataPoint, cfg Config, view View) []dataset.DataPoint {
	return dataset.Select(points, Apply(points, cfg, view))
}
