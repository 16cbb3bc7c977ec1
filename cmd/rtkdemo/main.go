// Command rtkdemo runs the toolkit against the terminal host surface: a few
// panels, labels with tooltips, and drag boxes that can be dropped between
// panels. It doubles as a smoke test for the tick pipeline outside a DAW.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/rtkui/rtk/pkg/config"
	"github.com/rtkui/rtk/pkg/host"
	hostterm "github.com/rtkui/rtk/pkg/host/term"
	"github.com/rtkui/rtk/pkg/logging"
	"github.com/rtkui/rtk/pkg/paths"
	"github.com/rtkui/rtk/pkg/rtk"
	"github.com/rtkui/rtk/pkg/telemetry"
	"github.com/rtkui/rtk/pkg/widgets"
)

// Version information - set via ldflags during build
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a YAML settings file (default: "+paths.SettingsPath()+" if present)")
		title       = flag.String("title", "rtk demo", "window title")
		logToFile   = flag.Bool("log", false, "write a session log under "+paths.BaseDir())
		showVersion = flag.Bool("version", false, "print version and exit")
		dumpMetrics = flag.Bool("metrics", false, "dump telemetry snapshot on exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("rtkdemo %s (%s)\n", version, commit)
		return
	}
	if !isInteractiveTerminal() {
		fmt.Fprintln(os.Stderr, "Error: rtkdemo needs an interactive terminal")
		os.Exit(1)
	}
	if err := run(*configPath, *title, *logToFile, *dumpMetrics); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, title string, logToFile, dumpMetrics bool) error {
	if configPath == "" {
		if p := paths.SettingsPath(); fileExists(p) {
			configPath = p
		}
	}
	settings := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		settings = loaded
	}

	sessionID := uuid.NewString()
	logPath := settings.Log.Path
	if logPath == "" && logToFile {
		logPath = paths.SessionLogPath(sessionID)
	}
	log := logging.Discard()
	if logPath != "" {
		fileLog, err := logging.NewFile(logPath, sessionID)
		if err != nil {
			return err
		}
		log = fileLog
	}
	defer log.Close()
	log.SetMinLevel(logging.ParseLevel(settings.Log.Level))

	metrics := telemetry.NewRegistry()

	surface, err := hostterm.New()
	if err != nil {
		return err
	}

	win, err := rtk.New(rtk.Config{
		Surface:  surface,
		Clock:    rtk.SystemClock{},
		Logger:   log,
		Metrics:  metrics,
		Settings: settings,
		Title:    title,
	})
	if err != nil {
		return err
	}
	if err := win.Open(rtk.OpenOptions{}); err != nil {
		return err
	}
	buildScene(win)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	if configPath != "" {
		g.Go(func() error {
			err := config.Watch(ctx, configPath, func(s *config.Settings, err error) {
				if err != nil {
					log.Warn(logging.CategoryConfig, "reload_failed", "config reload failed",
						map[string]any{"error": err.Error()})
					return
				}
				log.SetMinLevel(logging.ParseLevel(s.Log.Level))
				log.Info(logging.CategoryConfig, "reloaded", "config reloaded",
					map[string]any{"path": configPath})
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	g.Go(func() error {
		defer stop()
		return surface.Drive(ctx, settings.Frame.Rate, win.Tick)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	win.Close()

	if dumpMetrics {
		if snap, serr := metrics.Snapshot(); serr == nil {
			fmt.Fprintln(os.Stderr, string(snap))
		}
	}
	return err
}

// buildScene assembles the demo tree: a toolbar label, two panels that trade
// drag boxes, and a modal popup on the first drop.
func buildScene(win *rtk.Window) {
	header := widgets.NewLabel("rtk demo - drag the boxes between panels, Esc quits")
	header.X, header.Y = 1, 0
	header.Tooltip = "boxes snap to whichever panel they are dropped on"
	win.AddChild(header)

	left := widgets.NewPanel("source")
	left.X, left.Y, left.W = 1, 2, 30
	right := widgets.NewPanel("target")
	right.X, right.Y = 33, 2

	popup := widgets.NewPopup("dropped!")

	counter := widgets.NewLabel("drops: 0")
	counter.X, counter.Y = 1, 1
	right.Add(counter)

	drops := 0
	right.AcceptDrop = func(payload any) bool { return payload != nil }
	right.OnDrop = func(payload any) {
		drops++
		counter.SetText(fmt.Sprintf("drops: %d", drops))
		popup.Show(win)
	}

	for i, name := range []string{"alpha", "beta", "gamma"} {
		box := widgets.NewDragBox(name)
		box.X, box.Y = 1, 1+i*4
		box.Payload = name
		left.Add(box)
	}

	win.AddChild(left)
	win.AddChild(right)
	win.AddChild(popup)

	win.SetDefaultCursor(host.CursorArrow)
	win.OnKeyPost(func(ev *rtk.Event) {
		if ev.Handled {
			return
		}
		if ev.Ch == 'q' {
			win.Close()
		}
	})
}

func isInteractiveTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) &&
		term.IsTerminal(int(os.Stdout.Fd()))
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
