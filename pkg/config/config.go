// Package config holds the toolkit's tunable settings: input thresholds,
// reflow limits, frame timing and logging. Values ship with working defaults
// and load from YAML so embedding scripts can tune touch ergonomics without
// rebuilding.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values exported for documentation and validation.
const (
	DefaultLongPressDelay        = 550 * time.Millisecond
	DefaultTouchActivationDelay  = 0 * time.Millisecond
	DefaultDoubleClickWindow     = 500 * time.Millisecond
	DefaultDragThreshold         = 4.0
	DefaultDragDoubleClickFactor = 2.0
	DefaultWheelDivisor          = 120.0
	DefaultPartialReflowLimit    = 16
	DefaultSlowReflowWarn        = 20 * time.Millisecond
	DefaultSlowTickWarn          = 50 * time.Millisecond
	DefaultTickInterval          = 33 * time.Millisecond
	DefaultTooltipDelay          = 500 * time.Millisecond
	DefaultFrameRate             = 30
)

// Wheel damping modes.
const (
	WheelAuto   = "auto"
	WheelDamped = "damped"
	WheelLinear = "linear"
)

// Settings is the complete toolkit configuration.
type Settings struct {
	Input  InputSettings  `yaml:"input"`
	Reflow ReflowSettings `yaml:"reflow"`
	Frame  FrameSettings  `yaml:"frame"`
	Log    LogSettings    `yaml:"log"`
}

// InputSettings tunes touch and pointer ergonomics.
type InputSettings struct {
	// LongPressDelay is how long a press must be held to count as long.
	LongPressDelay time.Duration `yaml:"long_press_delay"`

	// TouchActivationDelay defers treating a press as a real click, so taps
	// can be told apart from scroll-initiating touches. Zero suits mice.
	TouchActivationDelay time.Duration `yaml:"touch_activation_delay"`

	// DoubleClickWindow is the release-to-press gap still read as a
	// multi-click sequence.
	DoubleClickWindow time.Duration `yaml:"double_click_window"`

	// DragThreshold is the movement, at UI scale 1.0, required before a
	// press becomes a drag.
	DragThreshold float64 `yaml:"drag_threshold"`

	// DragDoubleClickFactor inflates the threshold right after a release so
	// double-clicks do not break into accidental drags.
	DragDoubleClickFactor float64 `yaml:"drag_double_click_factor"`

	// WheelDamping selects wheel normalization: damped (square root, for
	// hosts with kinetic scrolling), linear, or auto by platform.
	WheelDamping string `yaml:"wheel_damping"`

	// WheelDivisor scales raw wheel deltas; hosts report ±120 per notch.
	WheelDivisor float64 `yaml:"wheel_divisor"`
}

// ReflowSettings tunes the layout scheduler.
type ReflowSettings struct {
	// PartialLimit is the most widgets a partial pass may relayout before
	// the scheduler falls back to a full pass.
	PartialLimit int `yaml:"partial_limit"`

	// SlowWarn logs full passes that take longer than this.
	SlowWarn time.Duration `yaml:"slow_warn"`
}

// FrameSettings tunes the tick pipeline.
type FrameSettings struct {
	// TickInterval is the nominal host re-invocation period, used for
	// timer slack, not for sleeping.
	TickInterval time.Duration `yaml:"tick_interval"`

	// SlowWarn logs ticks that take longer than this.
	SlowWarn time.Duration `yaml:"slow_warn"`

	// TooltipDelay is the hover time before a tooltip is due.
	TooltipDelay time.Duration `yaml:"tooltip_delay"`

	// Rate is the frame rate used by drivers that own the loop.
	Rate int `yaml:"rate"`
}

// LogSettings configures the structured logger.
type LogSettings struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Default returns settings with every field at its default.
func Default() *Settings {
	return &Settings{
		Input: InputSettings{
			LongPressDelay:        DefaultLongPressDelay,
			TouchActivationDelay:  DefaultTouchActivationDelay,
			DoubleClickWindow:     DefaultDoubleClickWindow,
			DragThreshold:         DefaultDragThreshold,
			DragDoubleClickFactor: DefaultDragDoubleClickFactor,
			WheelDamping:          WheelAuto,
			WheelDivisor:          DefaultWheelDivisor,
		},
		Reflow: ReflowSettings{
			PartialLimit: DefaultPartialReflowLimit,
			SlowWarn:     DefaultSlowReflowWarn,
		},
		Frame: FrameSettings{
			TickInterval: DefaultTickInterval,
			SlowWarn:     DefaultSlowTickWarn,
			TooltipDelay: DefaultTooltipDelay,
			Rate:         DefaultFrameRate,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Load reads settings from a YAML file, layered over the defaults.
func Load(path string) (*Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks field ranges, naming the offending field.
func (s *Settings) Validate() error {
	if s.Input.LongPressDelay < 0 {
		return fmt.Errorf("input.long_press_delay must not be negative")
	}
	if s.Input.TouchActivationDelay < 0 {
		return fmt.Errorf("input.touch_activation_delay must not be negative")
	}
	if s.Input.DoubleClickWindow < 0 {
		return fmt.Errorf("input.double_click_window must not be negative")
	}
	if s.Input.DragThreshold <= 0 {
		return fmt.Errorf("input.drag_threshold must be positive")
	}
	if s.Input.DragDoubleClickFactor < 1 {
		return fmt.Errorf("input.drag_double_click_factor must be at least 1")
	}
	switch s.Input.WheelDamping {
	case WheelAuto, WheelDamped, WheelLinear:
	default:
		return fmt.Errorf("input.wheel_damping must be one of auto, damped, linear")
	}
	if s.Input.WheelDivisor <= 0 {
		return fmt.Errorf("input.wheel_divisor must be positive")
	}
	if s.Reflow.PartialLimit < 1 {
		return fmt.Errorf("reflow.partial_limit must be at least 1")
	}
	if s.Frame.TickInterval <= 0 {
		return fmt.Errorf("frame.tick_interval must be positive")
	}
	if s.Frame.Rate < 1 {
		return fmt.Errorf("frame.rate must be at least 1")
	}
	return nil
}

// WheelDamped resolves the damping mode against the runtime platform: auto
// damps on darwin, where host wheel deltas are kinetic and oversensitive.
func (s *Settings) WheelDamped() bool {
	switch s.Input.WheelDamping {
	case WheelDamped:
		return true
	case WheelLinear:
		return false
	default:
		return runtime.GOOS == "darwin"
	}
}
