package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/bcdannyboy/optionpricer/api"
	"github.com/bcdannyboy/optionpricer/config"
	"github.com/bcdannyboy/optionpricer/lambdafn"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	svc := api.NewService(api.Settings{
		OptionScale:            cfg.OptionScale,
		DensityScale:           cfg.DensityScale,
		CalibrationMaxIter:     cfg.CalibrationMaxIter,
		CalibrationMaxAttempts: cfg.CalibrationMaxAttempts,
	}, logger)
	lambda.Start(lambdafn.NewHandler(svc, logger).Handle)
}
