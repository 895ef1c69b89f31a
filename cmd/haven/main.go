package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/haven/internal/config"
	"github.com/jask/haven/internal/database"
	"github.com/jask/haven/internal/flows"
	"github.com/jask/haven/internal/logging"
	"github.com/jask/haven/internal/prefs"
	"github.com/jask/haven/internal/service"
	"github.com/jask/haven/internal/tui"
	"github.com/jask/haven/internal/wizard"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type globalFlags struct {
	config      string
	logLevel    string
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "haven",
		Short:         "Self-care companion: onboarding, goals, mood check-ins and therapy sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd.Context(), g, runTUI)
		},
	}
	root.PersistentFlags().StringVar(&g.config, "config", "", "config file (default ~/.config/haven/config.toml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&g.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")

	goal := &cobra.Command{Use: "goal", Short: "Manage goals"}
	goal.AddCommand(flowCmd(&g, "add", "Create a goal step by step", (*env).goalFlow))

	root.AddCommand(
		flowCmd(&g, "onboard", "Set up your profile", (*env).onboardingFlow),
		goal,
		flowCmd(&g, "checkin", "Record how you feel right now", (*env).checkInFlow),
		flowCmd(&g, "book", "Book a therapy session", (*env).bookingFlow),
		summaryCmd(&g),
		exportCmd(&g),
		seedCmd(&g),
		resetCmd(&g),
	)
	return root
}

// env is everything a command needs once config, logging and the database are up.
type env struct {
	ctx        context.Context
	cfg        config.Config
	configPath string
	db         *sql.DB
	log        *zap.Logger
	loc        *time.Location
	metrics    *wizard.Metrics

	profiles      *service.ProfileService
	goals         *service.GoalService
	moods         *service.MoodService
	sessions      *service.SessionService
	notifications *service.NotificationService
	insights      *service.InsightService
	maintenance   *service.MaintenanceService
	export        *service.ExportService
}

// withEnv wires config, logging, metrics and storage, runs fn and tears it all down.
func withEnv(ctx context.Context, g globalFlags, fn func(*env) error) error {
	cfg, err := config.Load(g.config)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.metricsAddr != "" {
		cfg.Metrics.Addr = g.metricsAddr
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		log.Warn("using local timezone", zap.String("timezone", cfg.UI.Timezone), zap.Error(err))
		loc = time.Local
	}

	var metrics *wizard.Metrics
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if metrics, err = wizard.NewMetrics(reg); err != nil {
			return err
		}
		shutdown := serveMetrics(cfg.Metrics.Addr, reg, log)
		defer shutdown()
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	if err := database.RunMigrations(cfg.Database.Path); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := database.SeedDefaults(ctx, db); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}

	e := &env{
		ctx:           ctx,
		cfg:           cfg,
		configPath:    g.config,
		db:            db,
		log:           log,
		loc:           loc,
		metrics:       metrics,
		profiles:      &service.ProfileService{DB: db},
		goals:         &service.GoalService{DB: db},
		moods:         &service.MoodService{DB: db},
		sessions:      &service.SessionService{DB: db},
		notifications: &service.NotificationService{DB: db},
		insights:      &service.InsightService{DB: db, Loc: loc, Weeks: cfg.UI.MoodWeeks},
		maintenance:   &service.MaintenanceService{DB: db},
		export:        &service.ExportService{DB: db},
	}
	return fn(e)
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.String("addr", addr), zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func (e *env) wizardOptions() []wizard.Option {
	return []wizard.Option{wizard.WithLogger(e.log), wizard.WithMetrics(e.metrics)}
}

func (e *env) onboardingFlow() (wizard.Controller, error) {
	areas, err := e.profiles.FocusAreas(e.ctx)
	if err != nil {
		return nil, fmt.Errorf("focus areas: %w", err)
	}
	opts := e.wizardOptions()
	current, err := e.profiles.Current(e.ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if current != nil {
		opts = append(opts, wizard.WithInitial(current.Fields()))
	}
	return flows.NewOnboarding(areas, wizard.PersistFunc[flows.Profile](e.profiles.CompleteOnboarding), opts...)
}

func (e *env) goalFlow() (wizard.Controller, error) {
	return flows.NewGoal(wizard.PersistFunc[flows.GoalDraft](e.goals.Persist), e.wizardOptions()...)
}

func (e *env) checkInFlow() (wizard.Controller, error) {
	return flows.NewCheckIn(wizard.PersistFunc[flows.CheckIn](e.moods.Record), e.wizardOptions()...)
}

func (e *env) bookingFlow() (wizard.Controller, error) {
	return flows.NewBooking(time.Now, e.loc, wizard.PersistFunc[flows.Booking](e.sessions.Book), e.wizardOptions()...)
}

// saveSettings writes the settings the TUI can change. The file is re-read so
// flag overrides of this run are not persisted.
func (e *env) saveSettings(c config.Config) error {
	stored, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	stored.UI.MoodWeeks = c.UI.MoodWeeks
	return config.Save(stored, e.configPath)
}

func runTUI(e *env) error {
	app := tui.New(e.ctx, e.cfg,
		tui.Services{
			Insights:      e.insights,
			Goals:         e.goals,
			Moods:         e.moods,
			Sessions:      e.sessions,
			Notifications: e.notifications,
			Maintenance:   e.maintenance,
			SaveConfig:    e.saveSettings,
		},
		tui.Flows{
			Onboarding: e.onboardingFlow,
			Goal:       e.goalFlow,
			CheckIn:    e.checkInFlow,
			Booking:    e.bookingFlow,
		},
		e.loc, e.log,
	)
	if ui, err := prefs.LoadUI(); err != nil {
		e.log.Warn("load ui prefs", zap.Error(err))
	} else if ui.LastTab != "" {
		app.SelectTab(ui.LastTab)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(e.ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	if err := prefs.SaveUI(prefs.UI{LastTab: app.ActiveTab()}); err != nil {
		e.log.Warn("save ui prefs", zap.Error(err))
	}
	return nil
}
