package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/taiwoajasa245/quran-reader/internal/bookmark"
	"github.com/taiwoajasa245/quran-reader/internal/quran"
	"github.com/taiwoajasa245/quran-reader/internal/storage"
	"github.com/taiwoajasa245/quran-reader/pkg/config"
	"github.com/taiwoajasa245/quran-reader/pkg/logger"
)

var (
	// Global flags
	apiURL        string
	reciter       string
	storagePath   string
	playerCommand string
	logLevel      string
	logFile       string

	cfg *config.Config

	// Opened lazily by the commands that need them.
	local   *storage.SQLite
	logSink io.Closer
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "quran",
	Short: "Read and listen to the Qur'an from the terminal",
	Long: `quran is a terminal reader for the Qur'an backed by the equran.id API.

Run without arguments to open the interactive reader. Chapter and verse
bookmarks are kept in a local SQLite file shared by every subcommand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		applyConfigDefaults()
		if err := setupLogging(cmd); err != nil {
			return err
		}
		log.Debug().Str("app_env", cfg.AppEnv).Str("storage", storagePath).Msg("configuration loaded")
		return nil
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "content API base URL (default from QURAN_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&reciter, "reciter", "r", "", "reciter code 01-05 (default from QURAN_RECITER)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "bookmark storage file (default from LOCAL_STORAGE_PATH)")
	rootCmd.PersistentFlags().StringVar(&playerCommand, "player", "", "audio player command, the URL is appended (default from PLAYER_COMMAND)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default from LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file")

	rootCmd.AddCommand(chaptersCmd, chapterCmd, verseCmd, bookmarksCmd, playCmd, tuiCmd, recitersCmd)
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

// execute runs the command line and releases storage and the log file
// whether or not the command succeeded.
func execute() error {
	defer closeResources()
	return rootCmd.Execute()
}

// loadConfig reads the environment with logging muted; nothing may reach the
// terminal before setupLogging has chosen where logs go.
func loadConfig() {
	log.Logger = zerolog.Nop()
	cfg = config.LoadConfig()
}

func applyConfigDefaults() {
	if apiURL == "" {
		apiURL = cfg.QuranAPIURL
	}
	if reciter == "" {
		reciter = cfg.Reciter
	}
	if storagePath == "" {
		storagePath = cfg.LocalStoragePath
	}
	if playerCommand == "" {
		playerCommand = cfg.PlayerCommand
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
}

// setupLogging sends logs to --log-file when given. The interactive reader
// owns the terminal, so without a file its logs go next to the storage file.
func setupLogging(cmd *cobra.Command) error {
	path := logFile
	if path == "" && isInteractive(cmd) {
		path = filepath.Join(filepath.Dir(storagePath), "quran.log")
	}
	if path == "" {
		logger.SetupWriter(cmd.ErrOrStderr(), logLevel, true)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logSink = f
	logger.SetupWriter(f, logLevel, false)
	return nil
}

func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "tui"
}

func newSource() quran.Source {
	return quran.NewClient(apiURL, cfg.QuranAPITimeout)
}

func openBookmarks() (*bookmark.Store, error) {
	if local == nil {
		s, err := storage.OpenSQLite(storagePath)
		if err != nil {
			return nil, fmt.Errorf("open bookmark storage: %w", err)
		}
		local = s
	}
	return bookmark.NewStore(local), nil
}

func closeResources() {
	if local != nil {
		if err := local.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close bookmark storage")
		}
		local = nil
	}
	if logSink != nil {
		_ = logSink.Close()
		logSink = nil
	}
}

func selectedReciter() string {
	if quran.ValidReciter(reciter) {
		return reciter
	}
	log.Warn().Str("reciter", reciter).Msg("unknown reciter, using default")
	return quran.DefaultReciter
}
