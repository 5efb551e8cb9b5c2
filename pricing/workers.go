package pricing

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"golang.org/x/sync/errgroup"

	"github.com/bcdannyboy/optionpricer/blackscholes"
	"github.com/bcdannyboy/optionpricer/constraints"
)

// Workers returns the number of logical CPUs, falling back to the runtime's
// view when the host cannot be queried.
func Workers() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// attachImpliedVolatility inverts every price in place. A single failure
// fails the whole graph with NoConvergence.
func attachImpliedVolatility(graph []GraphElement, asset, rate, maturity float64, isCall bool) error {
	var g errgroup.Group
	g.SetLimit(Workers())
	ivs := make([]float64, len(graph))
	for i := range graph {
		i := i
		g.Go(func() error {
			iv, err := blackscholes.ImpliedVolatility(graph[i].Value, asset, graph[i].AtPoint, maturity, rate, isCall)
			if err != nil {
				return err
			}
			ivs[i] = iv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return constraints.NewNoConvergence()
	}
	for i := range graph {
		graph[i].IV = &ivs[i]
	}
	return nil
}
