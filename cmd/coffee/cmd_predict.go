package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/coffee_forecast/internal/model"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/exporter"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/forecast"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/predictor"
	"github.com/LeonardoBeccarini/coffee_forecast/internal/services/validator"
)

var (
	inputPath  string
	withExport bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Validate a request file, submit it and print the forecast",
	Example: `  coffee predict --input plot.yaml
  coffee predict --input plot.yaml --export --export-dir ./exports`,
	RunE: runPredict,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the pre-submit checks on a request file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		category, fields, err := loadInput(inputPath)
		if err != nil {
			return err
		}
		return validate(cmd.OutOrStdout(), category, fields)
	},
}

func init() {
	for _, c := range []*cobra.Command{predictCmd, validateCmd} {
		c.Flags().StringVarP(&inputPath, "input", "i", "", "YAML request file (required)")
		_ = c.MarkFlagRequired("input")
	}
	predictCmd.Flags().BoolVar(&withExport, "export", false, "Save the forecast as a workbook")
}

func validate(w io.Writer, category model.Category, fields model.FieldSet) error {
	form := validator.NewForm()
	form.SetCategory(category)
	fields.Each(func(name, value string) { form.Update(name, value) })
	if !form.Complete() {
		fmt.Fprintf(w, "incomplete: %v\n", form.Fields().Missing())
	}
	if _, err := validator.Check(form.Fields()); err != nil {
		return errors.New(forecast.UserMessage(err) + " (" + err.Error() + ")")
	}
	fmt.Fprintf(w, "ok: %s, %d fields\n", category.Label(), model.NumFields)
	return nil
}

func runPredict(cmd *cobra.Command, _ []string) error {
	category, fields, err := loadInput(inputPath)
	if err != nil {
		return err
	}

	exp, closeExp := openExporter()
	defer closeExp()
	notifier, _ := openNotifier(cmd.Context())

	svc := forecast.NewService(forecast.Options{
		Predictor: predictor.NewClient(cfg.PredictorConfig(), logger),
		Exporter:  exp,
		Notifier:  notifier,
		Timeout:   cfg.PredictTimeout(),
		Logger:    logger,
	})
	sess := svc.NewSession()
	defer svc.CloseSession(sess.ID)

	if err := fillSession(sess, category, fields); err != nil {
		return err
	}
	result, err := svc.Submit(cmd.Context(), sess)
	if err != nil {
		return errors.New(forecast.UserMessage(err))
	}
	printPrediction(cmd.OutOrStdout(), category, result)

	if withExport {
		h, err := svc.Export(cmd.Context(), sess)
		if err != nil {
			return errors.New(forecast.UserMessage(err))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Archivo guardado como %s\n", h.Name)
	}
	return nil
}

func fillSession(sess *forecast.Session, category model.Category, fields model.FieldSet) error {
	if err := sess.SetCategory(string(category)); err != nil {
		return err
	}
	var err error
	fields.Each(func(name, value string) {
		if err != nil {
			return
		}
		if ok, _, uerr := sess.Update(name, value); uerr != nil {
			err = uerr
		} else if !ok {
			err = fmt.Errorf("%s: %q is not numeric", name, value)
		}
	})
	return err
}

func printPrediction(w io.Writer, category model.Category, result model.PredictionResult) {
	fmt.Fprintf(w, "%s: %s\n", exporter.CategoryLabel, category.Label())
	fmt.Fprintln(w, exporter.ResultHeader)
	for _, m := range forecast.FormattedPrediction(result) {
		fmt.Fprintf(w, "  %s: %s\n", m.Name, m.Value)
	}
}
