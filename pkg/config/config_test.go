package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rtkui/rtk/pkg/config"
)

func TestDefaults(t *testing.T) {
	s := config.Default()

	if s.Input.LongPressDelay != 550*time.Millisecond {
		t.Fatalf("long press delay = %v, want 550ms", s.Input.LongPressDelay)
	}
	if s.Input.TouchActivationDelay != 0 {
		t.Fatalf("touch activation delay = %v, want 0", s.Input.TouchActivationDelay)
	}
	if s.Input.DragThreshold != 4.0 {
		t.Fatalf("drag threshold = %v, want 4", s.Input.DragThreshold)
	}
	if s.Input.WheelDamping != config.WheelAuto {
		t.Fatalf("wheel damping = %q, want auto", s.Input.WheelDamping)
	}
	if s.Input.WheelDivisor != 120.0 {
		t.Fatalf("wheel divisor = %v, want 120", s.Input.WheelDivisor)
	}
	if s.Reflow.PartialLimit != 16 {
		t.Fatalf("partial limit = %d, want 16", s.Reflow.PartialLimit)
	}
	if s.Frame.TickInterval != 33*time.Millisecond {
		t.Fatalf("tick interval = %v, want 33ms", s.Frame.TickInterval)
	}
	if s.Frame.TooltipDelay != 500*time.Millisecond {
		t.Fatalf("tooltip delay = %v, want 500ms", s.Frame.TooltipDelay)
	}
	if s.Frame.Rate != 30 {
		t.Fatalf("frame rate = %d, want 30", s.Frame.Rate)
	}
	if s.Log.Level != "info" {
		t.Fatalf("log level = %q, want info", s.Log.Level)
	}

	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtk.yaml")
	data := `
input:
  long_press_delay: 700ms
  wheel_damping: damped
reflow:
  partial_limit: 8
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	s, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if s.Input.LongPressDelay != 700*time.Millisecond {
		t.Fatalf("long press delay = %v, want 700ms", s.Input.LongPressDelay)
	}
	if s.Input.WheelDamping != config.WheelDamped {
		t.Fatalf("wheel damping = %q, want damped", s.Input.WheelDamping)
	}
	if s.Reflow.PartialLimit != 8 {
		t.Fatalf("partial limit = %d, want 8", s.Reflow.PartialLimit)
	}
	if s.Log.Level != "debug" {
		t.Fatalf("log level = %q, want debug", s.Log.Level)
	}

	// Fields the file never mentions keep their defaults.
	if s.Input.DragThreshold != 4.0 {
		t.Fatalf("drag threshold = %v, want default 4", s.Input.DragThreshold)
	}
	if s.Frame.TickInterval != 33*time.Millisecond {
		t.Fatalf("tick interval = %v, want default 33ms", s.Frame.TickInterval)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtk.yaml")
	if err := os.WriteFile(path, []byte("input: [not a map"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), "failed to parse config") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtk.yaml")
	if err := os.WriteFile(path, []byte("input:\n  drag_threshold: -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "drag_threshold") {
		t.Fatalf("error should name the field: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Settings)
		wantErr string
	}{
		{
			name:    "negative long press delay",
			mutate:  func(s *config.Settings) { s.Input.LongPressDelay = -time.Second },
			wantErr: "input.long_press_delay",
		},
		{
			name:    "negative touch activation delay",
			mutate:  func(s *config.Settings) { s.Input.TouchActivationDelay = -time.Second },
			wantErr: "input.touch_activation_delay",
		},
		{
			name:    "negative double click window",
			mutate:  func(s *config.Settings) { s.Input.DoubleClickWindow = -time.Second },
			wantErr: "input.double_click_window",
		},
		{
			name:    "zero drag threshold",
			mutate:  func(s *config.Settings) { s.Input.DragThreshold = 0 },
			wantErr: "input.drag_threshold",
		},
		{
			name:    "drag double click factor below one",
			mutate:  func(s *config.Settings) { s.Input.DragDoubleClickFactor = 0.5 },
			wantErr: "input.drag_double_click_factor",
		},
		{
			name:    "unknown wheel damping",
			mutate:  func(s *config.Settings) { s.Input.WheelDamping = "bouncy" },
			wantErr: "input.wheel_damping",
		},
		{
			name:    "zero wheel divisor",
			mutate:  func(s *config.Settings) { s.Input.WheelDivisor = 0 },
			wantErr: "input.wheel_divisor",
		},
		{
			name:    "zero partial limit",
			mutate:  func(s *config.Settings) { s.Reflow.PartialLimit = 0 },
			wantErr: "reflow.partial_limit",
		},
		{
			name:    "zero tick interval",
			mutate:  func(s *config.Settings) { s.Frame.TickInterval = 0 },
			wantErr: "frame.tick_interval",
		},
		{
			name:    "zero frame rate",
			mutate:  func(s *config.Settings) { s.Frame.Rate = 0 },
			wantErr: "frame.rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.Default()
			tt.mutate(s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestWheelDamped(t *testing.T) {
	s := config.Default()

	s.Input.WheelDamping = config.WheelDamped
	if !s.WheelDamped() {
		t.Fatal("damped mode should damp")
	}

	s.Input.WheelDamping = config.WheelLinear
	if s.WheelDamped() {
		t.Fatal("linear mode should not damp")
	}

	s.Input.WheelDamping = config.WheelAuto
	if got, want := s.WheelDamped(), runtime.GOOS == "darwin"; got != want {
		t.Fatalf("auto mode = %v, want %v on %s", got, want, runtime.GOOS)
	}
}
