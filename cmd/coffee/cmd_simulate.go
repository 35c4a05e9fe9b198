package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model/entities"
	sim "github.com/LeonardoBeccarini/coffee_forecast/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/forecast"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/predictor"
)

var (
	simCount    int
	simSeed     int64
	simSubmit   bool
	simCategory string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Generate plausible readings, optionally submitting them",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVarP(&simCount, "count", "n", 1, "Number of readings")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Random seed (0 = time based)")
	simulateCmd.Flags().BoolVar(&simSubmit, "submit", false, "Submit every reading to the prediction service")
	simulateCmd.Flags().StringVar(&simCategory, "category", "", "Coffee type (default: random)")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	seed := simSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := sim.NewDataGenerator(seed)

	var fixed entities.Category
	if simCategory != "" {
		c, err := entities.ParseCategory(simCategory)
		if err != nil {
			return err
		}
		fixed = c
	}

	var svc *forecast.Service
	if simSubmit {
		notifier, _ := openNotifier(cmd.Context())
		svc = forecast.NewService(forecast.Options{
			Predictor: predictor.NewClient(cfg.PredictorConfig(), logger),
			Notifier:  notifier,
			Timeout:   cfg.PredictTimeout(),
			Logger:    logger,
		})
	}

	out := cmd.OutOrStdout()
	for i := 0; i < simCount; i++ {
		fields, err := gen.Next()
		if err != nil {
			return err
		}
		category := fixed
		if category == "" {
			category = gen.Category()
		}

		doc, err := encodeInput(category, fields)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "---\n%s", doc)

		if svc == nil {
			continue
		}
		sess := svc.NewSession()
		if err := fillSession(sess, category, fields); err != nil {
			return err
		}
		result, err := svc.Submit(cmd.Context(), sess)
		_ = svc.CloseSession(sess.ID)
		if err != nil {
			return errors.New(forecast.UserMessage(err))
		}
		printPrediction(out, category, result)
	}
	return nil
}
