// Command light-alert checks a room light at fixed minutes of the day and
// sounds a buzzer when it is on or off when it should not be.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sweeney/light-alert/internal/app"
	"github.com/sweeney/light-alert/internal/config"
	"github.com/sweeney/light-alert/internal/diag"
	"github.com/sweeney/light-alert/internal/display"
	"github.com/sweeney/light-alert/internal/sim"
	"github.com/sweeney/light-alert/internal/status"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          "light-alert",
		Short:        "Sound an alarm when the room light is in the wrong state",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (defaults apply when empty)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level (debug|info|warn|error)")

	root.AddCommand(
		newRunCmd(opts),
		newPrintStateCmd(opts),
		newSimulateCmd(opts),
	)
	return root
}

func (o *options) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

func logOptions(cfg config.Config) diag.Options {
	return diag.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
}

func appConfig(cfg config.Config) app.Config {
	return app.Config{
		Logic:     cfg.LogicConfig(),
		Sensor:    cfg.SensorConfig(),
		Heartbeat: cfg.Loop.Heartbeat,
		Status: status.Config{
			PollMs:         cfg.Loop.Poll.Milliseconds(),
			HeartbeatMs:    cfg.Loop.Heartbeat.Milliseconds(),
			AlertTimeoutMs: cfg.Alert.Timeout.Milliseconds(),
			TimesetIdleMs:  cfg.Timeset.IdleTimeout.Milliseconds(),
			LightOffAt:     cfg.Alert.LightOffAt,
			LightOnAt:      cfg.Alert.LightOnAt,
			Clock:          cfg.Clock.RTC,
		},
	}
}

// openApp opens the real hardware and builds the app over it.
func openApp(cfg config.Config, term io.Writer, log *zap.Logger) (*app.App, error) {
	hw, err := app.OpenHardware(cfg, term)
	if err != nil {
		return nil, err
	}
	a, err := app.New(hw, appConfig(cfg), log)
	if err != nil {
		for _, c := range hw.Closers {
			c.Close()
		}
		return nil, err
	}
	return a, nil
}

func newRunCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the controller on the attached hardware",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			log, err := diag.New(logOptions(cfg), os.Stderr)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := openApp(cfg, cmd.OutOrStdout(), log)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Warn("close hardware", zap.Error(err))
				}
			}()

			log.Info("started",
				zap.Duration("poll", cfg.Loop.Poll),
				zap.Duration("heartbeat", cfg.Loop.Heartbeat),
				zap.String("clock", cfg.Clock.RTC),
				zap.Int("light_off_at", cfg.Alert.LightOffAt),
				zap.Int("light_on_at", cfg.Alert.LightOnAt))

			ticker := time.NewTicker(cfg.Loop.Poll)
			defer ticker.Stop()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			return runLoop(a, log, ticker.C, sigCh)
		},
	}
}

func runLoop(a *app.App, log *zap.Logger, tick <-chan time.Time, sig <-chan os.Signal) error {
	diag.Lifecycle(log, diag.EventStartup,
		zap.String("status", string(status.FormatStatusEvent(a.Snapshot(), diag.EventStartup, ""))))

	for {
		select {
		case s := <-sig:
			log.Info("shutting down", zap.Stringer("signal", s))
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if err := a.Shutdown(); err != nil {
				log.Warn("shutdown", zap.Error(err))
			}
			diag.Lifecycle(log, diag.EventShutdown,
				zap.String("reason", signalName),
				zap.String("status", string(status.FormatStatusEvent(a.Snapshot(), diag.EventShutdown, signalName))))
			return nil

		case <-tick:
			if err := a.Iterate(); err != nil {
				// Don't stop on I/O errors; the next tick retries.
				log.Warn("iteration error", zap.Error(err))
			}
		}
	}
}

func newPrintStateCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "print-state",
		Short: "Run one iteration on the hardware, print the state and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			log, err := diag.New(logOptions(cfg), os.Stderr)
			if err != nil {
				return err
			}
			defer log.Sync()

			a, err := openApp(cfg, io.Discard, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Iterate(); err != nil {
				log.Warn("iteration error", zap.Error(err))
			}
			return printState(cmd.OutOrStdout(), a.Snapshot(), asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func printState(w io.Writer, snap status.Snapshot, asJSON bool) error {
	if asJSON {
		_, err := fmt.Fprintln(w, string(status.FormatJSON(snap)))
		return err
	}
	_, err := fmt.Fprintf(w, "%s%s\n", status.FormatText(snap), display.Frame(snap.Screen))
	return err
}

func newSimulateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Run the controller against simulated hardware in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			events := sim.NewLogBuffer(8)
			log, err := diag.New(logOptions(cfg), events)
			if err != nil {
				return err
			}
			defer log.Sync()

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			fakes := app.NewFakes(time.Now().In(loc))
			acfg := appConfig(cfg)
			a, err := app.New(fakes.Hardware(), acfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			m := sim.New(a, fakes, acfg, cfg.Loop.Poll, events)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}
