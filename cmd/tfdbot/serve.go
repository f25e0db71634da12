package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mmdatafocus/tfd_bot/api"
	"github.com/mmdatafocus/tfd_bot/bot"
	"github.com/mmdatafocus/tfd_bot/config"
	"github.com/mmdatafocus/tfd_bot/discord"
	"github.com/mmdatafocus/tfd_bot/tfdapi"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to the Discord gateway and answer commands",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := config.LoadSettings()
	if err != nil {
		return err
	}
	config.SetLogLevel(s.LogLevel)
	logger := config.GetLogger()

	client, err := tfdapi.NewClient(s, logger)
	if err != nil {
		return err
	}
	b := bot.New(s, client, bot.WithLogger(logger))
	rest := discord.NewREST(s, logger)
	gateway := discord.NewGateway(s, logger)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	var srv *http.Server
	serverErrCh := make(chan error, 1)
	if s.Features.EnableHTTPAPI {
		srv = &http.Server{
			Addr:    ":" + s.Port,
			Handler: api.NewRouter(s, b, logger),
		}
		go func() {
			serverErrCh <- srv.ListenAndServe()
		}()
	}

	gatewayDone := make(chan error, 1)
	go func() {
		gatewayDone <- gateway.Run(sigCtx, func(ctx context.Context, msg bot.Message) {
			// Failures are logged inside HandleMessage.
			_ = b.HandleMessage(ctx, msg, rest)
		})
	}()
	logger.WithFields(logrus.Fields{
		"aliases":  s.Aliases.Len(),
		"http_api": s.Features.EnableHTTPAPI,
	}).Info("tfdbot started")

	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "server"}).Error(err)
		}
		stopSignals()
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	return <-gatewayDone
}
