package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tunsmm/diary-network/internal/config"
	"github.com/tunsmm/diary-network/internal/database"
)

var (
	// Global flags
	dbURL   string
	verbose bool

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "diary",
	Short: "Diary network - a social diary service",
	Long: `diary runs the social diary backend: user diaries, groups, comments
and author subscriptions with a following feed.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if dbURL != "" {
			loaded.DB.URL = dbURL
		}
		if verbose {
			loaded.DB.LogLevel = "info"
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every SQL statement")
}

// openDatabase connects and brings the schema up to date.
func openDatabase() (database.Service, error) {
	db, err := database.New(cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db.GetDB()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
