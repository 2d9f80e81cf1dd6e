package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/awaree/internal/config"
	"github.com/existflow/awaree/internal/logger"
	"github.com/existflow/awaree/internal/tui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
	dbPath     string

	// cfg is loaded before every command runs
	cfg = config.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "awaree",
	Short: "Awaree - studio companion for design students",
	Long: `Awaree keeps track of design school projects: tasks, workshop journal,
moodboard, versions, calendar events and a portfolio of creations.

Projects can be exported as standalone HTML reports and imported back.

Run 'awaree' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadDotEnv()

		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}
		cfg = loaded

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}
		if cmd.Flags().Changed("db") {
			cfg.DBPath = dbPath
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.DefaultConfig()
		logConfig.Level = logger.ParseLevel(cfg.LogLevel)
		logConfig.FilePath = cfg.LogFile
		logConfig.Console = cfg.LogConsole

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Debug("Awaree started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.Context())
		if err != nil {
			logger.Error("Failed to open studio", logger.F("error", err))
			return err
		}
		defer sess.close()

		logger.Info("Launching TUI")
		m := tui.NewModel(sess.store, sess.state, tui.Options{
			Studio:    sess.studio,
			ReportDir: cfg.ReportDir,
			SortBy:    cfg.SortBy,
			UserEmail: cfg.UserEmail,
		})
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Debug("Awaree exiting", logger.F("command", cmd.Name()))
		logger.Close()
	},
}

// loadDotEnv picks up GEMINI_API_KEY and friends from .env files. Values
// already in the environment win.
func loadDotEnv() {
	files := []string{".env"}
	if dir, err := config.Dir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the studio database")

	// Add subcommands
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(moodCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(creationCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(clearCmd)
}
