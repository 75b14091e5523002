package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-logr/logr"
	"github.com/opscart/health-monitor/pkg/config"
	"github.com/opscart/health-monitor/pkg/exporter"
	"github.com/opscart/health-monitor/pkg/logging"
	"github.com/opscart/health-monitor/pkg/monitor"
	"github.com/opscart/health-monitor/pkg/output"
	"github.com/opscart/health-monitor/pkg/reporter"
	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"
)

const programName = "health-monitor"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand(os.Getenv).ExecuteContext(ctx)
	stop()
	logging.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. getenv is consulted once per command to
// select the environment profile.
func newRootCommand(getenv func(string) string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Environment-aware system health monitor",
		Long: `Periodically samples CPU, memory and disk usage, reports cloud provider status
and flags readings above the alert threshold of the active environment profile.

The profile is chosen by MONITOR_ENV (or the legacy NODE_ENV) and defaults to production.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd, getenv)
		},
	}
	config.RegisterFlags(rootCmd.PersistentFlags())

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single health check and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, getenv)
		},
	}

	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "List the built-in environment profiles",
		Run:   runProfiles,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Print(programName))
		},
	}

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(versionCmd)
	return rootCmd
}

// app holds everything one command invocation needs
type app struct {
	selection config.Selection
	settings  config.Settings
	logger    logr.Logger
	handler   output.Handler
	server    *exporter.Server
	closers   []func() error
}

func newApp(ctx context.Context, cmd *cobra.Command, getenv func(string) string) (*app, error) {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return nil, err
	}
	settings := config.LoadSettings(v)
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	profiles := config.DefaultProfiles()
	selection := config.Select(profiles, getenv)

	logger, err := logging.Setup(cmd.ErrOrStderr(), logging.Verbosity(settings.Verbose || selection.Profile.VerboseLogging))
	if err != nil {
		return nil, err
	}
	if !selection.Known {
		logger.Info("Unknown environment, using default profile",
			"environment", selection.Name, "profile", profiles.DefaultName())
	}

	a := &app{
		selection: selection,
		settings:  settings,
		logger:    logger,
	}

	format, err := reporter.ParseFormat(settings.OutputFormat)
	if err != nil {
		return nil, err
	}
	console, err := output.NewConsoleHandler(cmd.OutOrStdout(), format)
	if err != nil {
		return nil, err
	}
	handlers := []output.Handler{console}

	if settings.MetricsAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		exp := exporter.New()
		handlers = append(handlers, exp)
		a.server = exporter.NewServer(settings.MetricsAddr, exp, logger)
	}

	if settings.AMQPURL != "" {
		publisher, err := output.DialAMQP(settings.AMQPURL, settings.AMQPQueue)
		if err != nil {
			a.close()
			return nil, err
		}
		logger.Info("Publishing reports to AMQP", "queue", settings.AMQPQueue)
		handlers = append(handlers, publisher)
		a.closers = append(a.closers, publisher.Close)
	}

	if settings.RedisAddr != "" {
		publisher, err := output.DialRedis(ctx, settings.RedisAddr, settings.RedisChannel)
		if err != nil {
			a.close()
			return nil, err
		}
		logger.Info("Publishing reports to Redis", "addr", settings.RedisAddr, "channel", settings.RedisChannel)
		handlers = append(handlers, publisher)
		a.closers = append(a.closers, publisher.Close)
	}

	a.handler = output.NewMultiHandler(handlers...)
	return a, nil
}

func (a *app) newMonitor() (*monitor.Monitor, error) {
	return monitor.New(a.selection.Name, a.selection.Profile, monitor.Options{
		Handler: a.handler,
		Logger:  a.logger,
	})
}

func (a *app) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Error(err, "Failed to close publisher")
		}
	}
}

func runMonitor(cmd *cobra.Command, getenv func(string) string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cmd, getenv)
	if err != nil {
		return err
	}
	defer a.close()

	m, err := a.newMonitor()
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	if a.server != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := a.server.Run(ctx); err != nil {
				a.logger.Error(err, "Status server stopped")
			}
		}()
	}

	err = m.Run(ctx)
	wg.Wait()
	return err
}

func runCheck(cmd *cobra.Command, getenv func(string) string) error {
	a, err := newApp(cmd.Context(), cmd, getenv)
	if err != nil {
		return err
	}
	defer a.close()

	m, err := a.newMonitor()
	if err != nil {
		return err
	}

	_, err = m.Check(cmd.Context())
	return err
}

func runProfiles(cmd *cobra.Command, args []string) {
	profiles := config.DefaultProfiles()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%-14s %-10s %-10s %-6s %-6s %s\n", "ENVIRONMENT", "INTERVAL", "THRESHOLD", "AI", "DEBUG", "PROVIDERS")
	for _, name := range profiles.Names() {
		p, _ := profiles.Lookup(name)
		display := name
		if name == profiles.DefaultName() {
			display += " *"
		}
		providers := strings.Join(p.Providers(), ",")
		if providers == "" {
			providers = "-"
		}
		fmt.Fprintf(out, "%-14s %-10s %-10.0f %-6t %-6t %s\n",
			display, p.Interval, p.AlertThreshold, p.AIEnabled, p.DebugMode, providers)
	}
	fmt.Fprintf(out, "\n* default profile, used when %s is unset or unknown\n", config.EnvVarName)
}
