package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mj1618/screen-pilot/internal/config"
	"github.com/mj1618/screen-pilot/internal/diag"
	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/mj1618/screen-pilot/internal/logging"
	"github.com/mj1618/screen-pilot/internal/platform"
	"github.com/mj1618/screen-pilot/internal/script"
	"github.com/mj1618/screen-pilot/internal/version"
	"github.com/mj1618/screen-pilot/internal/vision"
	"github.com/spf13/cobra"
)

// session wires configuration, logging and the platform into an Engine for
// one command invocation.
type session struct {
	cfg      *config.Config
	logger   *logging.Logger
	runID    string
	provider *platform.Provider
	locator  *vision.TemplateLocator
	capturer *diag.Capturer
	engine   *engine.Engine
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	provider, err := platform.NewProvider()
	if err != nil {
		return nil, err
	}
	if provider.Screenshotter == nil {
		return nil, fmt.Errorf("screen capture not available on this platform")
	}

	windows := platform.WindowOracle{WindowManager: provider.WindowManager}
	display := platform.OrientationOracle{Display: provider.Display}

	runID := uuid.NewString()
	logger := logging.New(cfg.Logging, version.Version).With("run_id", runID, "command", cmd.Name())
	if cfg.Logging.Context {
		logger = logger.WithContextProvider(logging.DesktopContext(windows, display))
	}

	locator := vision.NewTemplateLocator(provider.Screenshotter, vision.Options{
		Confidence: cfg.Vision.Confidence,
		Scale:      cfg.Vision.Scale,
		PixelRatio: cfg.Vision.PixelRatio,
	})
	capturer := diag.NewCapturer(provider.Screenshotter, cfg.Diagnostics.Annotate)
	clock := engine.SystemClock{}

	eng := engine.New(engine.Deps{
		Locator:      locator,
		Actor:        platform.Actor{Inputter: provider.Inputter},
		Windows:      windows,
		Orientation:  display,
		Escalator:    engine.NewEscalator(capturer, clock, logger.Logger, cfg.Diagnostics.Dir),
		Clock:        clock,
		Logger:       logger.Logger,
		PollInterval: cfg.Engine.PollInterval,
	})

	return &session{
		cfg:      cfg,
		logger:   logger,
		runID:    runID,
		provider: provider,
		locator:  locator,
		capturer: capturer,
		engine:   eng,
	}, nil
}

// loadConfig reads --config and applies --log-level.
func loadConfig() (*config.Config, error) {
	path, _ := rootCmd.PersistentFlags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := rootCmd.PersistentFlags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// runner returns a script runner sharing the session's engine.
func (s *session) runner() *script.Runner {
	r := &script.Runner{
		Engine: s.engine,
		Clock:  engine.SystemClock{},
		Logger: s.logger.Logger,
	}
	if s.provider.Inputter != nil {
		r.Keys = s.provider.Inputter
	}
	if s.provider.Launcher != nil {
		r.Launcher = s.provider.Launcher
	}
	return r
}

// scriptDefaults fills unset script parameters from configuration.
func scriptDefaults(cfg *config.Config) script.Defaults {
	return script.Defaults{
		Retries:        cfg.Engine.Retries,
		WindowMaxWait:  cfg.Window.MaxWait,
		WindowInterval: cfg.Window.Interval,
	}
}
