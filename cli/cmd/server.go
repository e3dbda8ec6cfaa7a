package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pagedeck/pagedeck/api"
	"github.com/pagedeck/pagedeck/services/invites"
	"github.com/pagedeck/pagedeck/services/notify"
	"github.com/pagedeck/pagedeck/services/sessions"
	"github.com/pagedeck/pagedeck/util"
)

func init() {
	rootCmd.AddCommand(serverCmd)
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the pagedeck server",
	Run: func(cmd *cobra.Command, args []string) {
		runServer()
	},
}

func runServer() {
	store := createStore()
	defer store.Close()

	registry := notify.NewMemoryRegistry()

	var notifier notify.Notifier
	var fanout *notify.RedisFanout

	if util.Config.Redis != nil {
		fanout = notify.NewRedisFanout(registry)
		fanout.Start()
		notifier = fanout
	} else {
		notifier = notify.NewLocalNotifier(registry)
	}

	sessionService := sessions.NewService(store, util.Config.SessionLifetimeDays)
	sessionService.StartCleanup()

	inviteService := invites.NewService(store, notifier)

	router := api.Route(store, sessionService, inviteService, registry)

	server := &http.Server{
		Addr:    util.Config.Port,
		Handler: router,
	}

	go func() {
		log.WithField("addr", util.Config.Port).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	sessionService.StopCleanup()
	if fanout != nil {
		fanout.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}
