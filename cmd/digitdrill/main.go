// Package main provides the CLI entrypoint for digitdrill.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/verte-zerg/digitdrill/internal/calendar"
	"github.com/verte-zerg/digitdrill/internal/challenge"
	"github.com/verte-zerg/digitdrill/internal/config"
	"github.com/verte-zerg/digitdrill/internal/drill"
	"github.com/verte-zerg/digitdrill/internal/model"
	"github.com/verte-zerg/digitdrill/internal/report"
	"github.com/verte-zerg/digitdrill/internal/stats"
	"github.com/verte-zerg/digitdrill/internal/statsui"
	"github.com/verte-zerg/digitdrill/internal/store"
	"github.com/verte-zerg/digitdrill/internal/tui"
)

const (
	defaultAdvanceDelay = time.Second
	defaultCurveWindow  = 10
	defaultLogLevel     = "info"
	defaultLogMaxSizeMB = 10
	defaultLogBackups   = 3
	defaultLogMaxAge    = 28
	defaultExportPath   = "digitdrill-report.pdf"
	defaultPlainWidth   = 80
)

var (
	practiceDeadline     time.Duration
	practiceAdvanceDelay time.Duration
	practiceRecord       bool
	practiceLogLevel     string

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	exportOut string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "digitdrill",
		Short:         "Timed digit and date entry drill",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}
	addPracticeFlags(rootCmd.Flags())

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func addPracticeFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&practiceDeadline, "deadline", drill.DefaultDeadline, "time allowed per round")
	fs.DurationVar(&practiceAdvanceDelay, "advance-delay", defaultAdvanceDelay, "pause before the next round")
	fs.BoolVar(&practiceRecord, "record", false, "journal attempts for stats and export")
	fs.StringVar(&practiceLogLevel, "log-level", defaultLogLevel, "debug log level (debug, info, warn, error)")
}

func addReportFlags(fs *pflag.FlagSet) {
	fs.StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	fs.IntVar(&statsLast, "last", 0, "limit to last N sessions")
	fs.IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyDurationConfig(cmd, "deadline", &practiceDeadline, fileCfg.Practice.Deadline); err != nil {
		return err
	}
	if err := applyDurationConfig(cmd, "advance-delay", &practiceAdvanceDelay, fileCfg.Practice.AdvanceDelay); err != nil {
		return err
	}
	applyBoolConfig(cmd, "record", &practiceRecord, fileCfg.Practice.Record)
	applyStringConfig(cmd, "log-level", &practiceLogLevel, fileCfg.Log.Level)

	cfg := model.Config{
		Deadline:     practiceDeadline,
		AdvanceDelay: practiceAdvanceDelay,
		Record:       practiceRecord,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	logCfg := resolveLogConfig(practiceLogLevel, fileCfg.Log)

	logs, err := setupLogger(config.DefaultLogDir(), logCfg)
	if err != nil {
		return fmt.Errorf("failed to set up log: %w", err)
	}
	defer func() {
		if cerr := logs.Close(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()
	logger := logs.Logger

	now := time.Now()
	d := drill.New(challenge.New(), calendar.Window(now, calendar.WindowDays), cfg.Deadline, now)

	var recorder tui.Recorder
	sessionID := ""
	if cfg.Record {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		sessionID = uuid.New().String()
		info := model.SessionInfo{ID: sessionID, StartedAt: now, DeadlineMs: cfg.Deadline.Milliseconds()}
		if err := st.StartSession(context.Background(), info); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
		recorder = st
	}
	logger.Info("practice started",
		"session", sessionID,
		"deadline", cfg.Deadline.String(),
		"record", cfg.Record,
	)

	m := tui.NewModel(cfg, d, recorder, sessionID, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	state := d.State()
	logger.Info("practice finished", "session", sessionID, "successes", state.Successes, "attempts", state.Attempts)
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless a config already exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show journaled practice stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addReportFlags(cmd.Flags())
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print the report instead of opening the browser")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		rep, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return writePlainReport(cmd.OutOrStdout(), rep, cfg.CurveWindow, plainWidth())
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write journaled practice stats to a PDF",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	addReportFlags(cmd.Flags())
	cmd.Flags().StringVar(&exportOut, "out", defaultExportPath, "output PDF path")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}
	if strings.TrimSpace(exportOut) == "" {
		return fmt.Errorf("--out must not be empty")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	rep, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	if err := report.WriteFile(exportOut, rep, cfg.CurveWindow, time.Now()); err != nil {
		return err
	}
	absPath, err := filepath.Abs(exportOut)
	if err != nil {
		absPath = exportOut
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "PDF report written: %s\n", absPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	return model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func writePlainReport(w io.Writer, rep stats.Report, window, width int) error {
	if err := stats.RenderSummary(w, rep.Sessions); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := stats.RenderSessionTable(w, rep.Sessions); err != nil {
		return fmt.Errorf("failed to write sessions: %w", err)
	}
	if err := stats.RenderCurve(w, rep.Successes, window, width); err != nil {
		return fmt.Errorf("failed to write curve: %w", err)
	}
	return nil
}

func plainWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultPlainWidth
	}
	return width
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = parsed
	return nil
}

func resolveLogConfig(level string, file config.LogConfig) model.LogConfig {
	cfg := model.LogConfig{
		Level:      level,
		MaxSizeMB:  defaultLogMaxSizeMB,
		MaxBackups: defaultLogBackups,
		MaxAgeDays: defaultLogMaxAge,
	}
	if file.MaxSizeMB != nil {
		cfg.MaxSizeMB = *file.MaxSizeMB
	}
	if file.MaxBackups != nil {
		cfg.MaxBackups = *file.MaxBackups
	}
	if file.MaxAgeDays != nil {
		cfg.MaxAgeDays = *file.MaxAgeDays
	}
	if file.Compress != nil {
		cfg.Compress = *file.Compress
	}
	return cfg
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# digitdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# deadline = %q          # Time allowed per round
# advance-delay = %q     # Pause before the next round
# record = false          # Journal attempts for stats and export

[log]
# level = %q           # debug, info, warn, error
# max-size-mb = %d          # Rotate the debug log after this size
# max-backups = %d           # Rotated files to keep
# max-age-days = %d         # Days to keep rotated files
# compress = false        # Gzip rotated files
`,
		drill.DefaultDeadline.String(),
		defaultAdvanceDelay.String(),
		defaultLogLevel,
		defaultLogMaxSizeMB,
		defaultLogBackups,
		defaultLogMaxAge,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Deadline <= 0 {
		return fmt.Errorf("--deadline must be > 0")
	}
	if cfg.AdvanceDelay <= 0 {
		return fmt.Errorf("--advance-delay must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
