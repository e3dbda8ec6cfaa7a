package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pagedeck/pagedeck/db"
	"github.com/pagedeck/pagedeck/db/factory"
	"github.com/pagedeck/pagedeck/util"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pagedeck",
	Short: "Pagedeck backend server",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path")
}

// createStore loads the configuration, initializes logging and opens
// a migrated store. Failures here are fatal, nothing can run without
// a database.
func createStore() db.Store {
	if err := util.ConfigInit(configPath); err != nil {
		log.WithError(err).Fatal("cannot load configuration")
	}

	util.LoggingInit()

	store := factory.CreateStore()

	if err := store.Connect(); err != nil {
		log.WithError(err).Fatal("cannot connect to database")
	}

	if err := store.Migrate(); err != nil {
		log.WithError(err).Fatal("cannot run database migrations")
	}

	return store
}
