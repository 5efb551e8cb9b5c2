package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bcdannyboy/optionpricer/api"
	"github.com/bcdannyboy/optionpricer/config"
	"github.com/bcdannyboy/optionpricer/server"
	"github.com/bcdannyboy/optionpricer/slackbot"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	svc := api.NewService(api.Settings{
		OptionScale:            cfg.OptionScale,
		DensityScale:           cfg.DensityScale,
		CalibrationMaxIter:     cfg.CalibrationMaxIter,
		CalibrationMaxAttempts: cfg.CalibrationMaxAttempts,
	}, logger)
	srv := server.New(svc, cfg.MajorVersion, logger, server.NewMetrics())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, ":"+cfg.Port, cfg.ShutdownTimeout)
	})
	if cfg.SlackEnabled() {
		bot := slackbot.NewSlackBot(cfg.SlackAppToken, cfg.SlackBotToken, svc, logger.Named("slack"))
		g.Go(func() error {
			if err := bot.Start(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		})
	}

	logger.Info("service started",
		zap.String("port", cfg.Port),
		zap.String("major_version", cfg.MajorVersion),
		zap.Bool("slack", cfg.SlackEnabled()),
	)
	if err := g.Wait(); err != nil {
		logger.Fatal("service stopped", zap.Error(err))
	}
	logger.Info("service stopped")
}
