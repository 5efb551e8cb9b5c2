// Command techdoc prices a known parameter set per model, calibrates each
// model back against those prices and writes both parameter sets as JSON.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"github.com/xhhuango/json"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bcdannyboy/optionpricer/calibration"
	"github.com/bcdannyboy/optionpricer/config"
	"github.com/bcdannyboy/optionpricer/constraints"
	"github.com/bcdannyboy/optionpricer/pricing"
)

const (
	stock    = 178.46
	rate     = 0.0
	maturity = 1.0
	numU     = 8
)

var strikes = []float64{95, 100, 130, 150, 160, 165, 170, 175, 185, 190, 195, 200, 210, 240, 250}

func actualParameters() map[constraints.Model]constraints.CFParameters {
	sigL := math.Sqrt(0.05)
	return map[constraints.Model]constraints.CFParameters{
		constraints.ModelHeston: constraints.HestonParameters{
			Sigma: math.Sqrt(0.0398), V0: 0.0175, Speed: 1.5768, EtaV: 0.5751, Rho: -0.5711,
		},
		constraints.ModelMerton: constraints.MertonParameters{
			Sigma: sigL, Lambda: 1, MuL: -sigL * sigL * 0.5, SigL: sigL, V0: 1,
		},
		constraints.ModelCGMY: constraints.CGMYParameters{
			C: 1, G: 5, M: 5, Y: 1.5, V0: 1,
		},
	}
}

type job struct {
	model  constraints.Model
	actual constraints.CFParameters
}

func main() {
	outDir := pflag.StringP("out", "o", "techdoc", "directory for the generated JSON files")
	models := pflag.StringSliceP("models", "m", []string{"heston", "merton", "cgmy"}, "models to calibrate")
	maxIter := pflag.Int("max-iter", 400, "optimizer iterations per attempt")
	optionScale := pflag.Float64("option-scale", pricing.DefaultOptionScale, "strike domain scale")
	logLevel := pflag.String("log-level", "info", "log level")
	pflag.Parse()

	logger, err := config.NewLogger(strings.ToLower(*logLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Fatal("creating output directory", zap.Error(err))
	}

	actual := actualParameters()
	var jobs []job
	for _, name := range *models {
		m, err := constraints.ParseModel(name)
		if err != nil {
			logger.Fatal("unknown model", zap.String("model", name))
		}
		p, ok := actual[m]
		if !ok {
			logger.Fatal("model cannot be calibrated", zap.String("model", name))
		}
		jobs = append(jobs, job{model: m, actual: p})
	}

	p := mpb.New(mpb.WithWidth(64))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(pricing.Workers())
	for _, j := range jobs {
		j := j
		bar := p.AddBar(calibration.DefaultMaxAttempts,
			mpb.PrependDecorators(
				decor.Name(j.model.String(), decor.WCSyncSpaceR),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
		g.Go(func() error {
			defer bar.Abort(false)
			res, err := run(ctx, j, *optionScale, *maxIter, func(calibration.Attempt) { bar.Increment() })
			if err != nil {
				return fmt.Errorf("%s: %w", j.model, err)
			}
			bar.SetTotal(bar.Current(), true)
			logger.Info("calibrated",
				zap.String("model", j.model.String()),
				zap.Float64("final_cost_value", res.FinalCostValue),
			)
			return write(*outDir, j, res)
		})
	}
	err = g.Wait()
	p.Wait()
	if err != nil {
		logger.Fatal("techdoc failed", zap.Error(err))
	}
}

func run(ctx context.Context, j job, optionScale float64, maxIter int, onAttempt func(calibration.Attempt)) (*constraints.CalibrationResult, error) {
	graph, err := pricing.OptionResults(pricing.CallPrice, false, j.actual, optionScale, 1<<numU, stock, maturity, rate, strikes)
	if err != nil {
		return nil, err
	}
	quotes := make([]constraints.OptionData, len(graph))
	for i, g := range graph {
		quotes[i] = constraints.OptionData{Strike: g.AtPoint, Price: g.Value}
	}
	return calibration.Calibrate(ctx, j.model, &constraints.CalibrationParameters{
		Rate:       rate,
		Asset:      stock,
		NumU:       numU,
		OptionData: []constraints.OptionDataMaturity{{Maturity: maturity, OptionData: quotes}},
	}, calibration.Options{
		OptionScale:   optionScale,
		MaxIterations: maxIter,
		OnAttempt:     onAttempt,
	})
}

func write(dir string, j job, res *constraints.CalibrationResult) error {
	files := map[string]constraints.CFParameters{
		fmt.Sprintf("techdoc_%s.json", j.model):        res.Parameters,
		fmt.Sprintf("techdoc_%s_actual.json", j.model): j.actual,
	}
	for name, params := range files {
		b, err := json.Marshal(params)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			return err
		}
	}
	return nil
}
