package slackbot

import (
	"fmt"
	"strings"

	"github.com/xhhuango/json"

	"github.com/bcdannyboy/optionpricer/api"
	"github.com/bcdannyboy/optionpricer/constraints"
	"github.com/bcdannyboy/optionpricer/pricing"
)

const priceUsage = "Usage: /price <model> <option_type> <sensitivity> <json>"

type PriceHandler struct {
	svc *api.Service
}

func NewPriceHandler(svc *api.Service) *PriceHandler {
	return &PriceHandler{svc: svc}
}

type priceArgs struct {
	model       string
	optionType  string
	sensitivity string
	body        string
}

// parsePriceArgs splits off three words; the rest of the text is the body.
func parsePriceArgs(text string) (priceArgs, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return priceArgs{}, fmt.Errorf("invalid number of arguments. %s", priceUsage)
	}
	rest := text
	for i := 0; i < 3; i++ {
		rest = strings.TrimSpace(rest)
		rest = rest[len(fields[i]):]
	}
	return priceArgs{
		model:       strings.ToLower(fields[0]),
		optionType:  strings.ToLower(fields[1]),
		sensitivity: strings.ToLower(fields[2]),
		body:        strings.TrimSpace(rest),
	}, nil
}

func (h *PriceHandler) Reply(text string) string {
	args, err := parsePriceArgs(text)
	if err != nil {
		return err.Error()
	}
	out, err := h.svc.Calculator(args.model, args.optionType, args.sensitivity, args.sensitivity == "price", []byte(args.body))
	if err != nil {
		if pe, ok := constraints.AsParameterError(err); ok {
			return "Error: " + pe.Error()
		}
		return "Error: internal server error"
	}
	var graph []pricing.GraphElement
	if err := json.Unmarshal(out, &graph); err != nil {
		return "Error: " + err.Error()
	}
	return formatGraph(args, graph)
}

func formatGraph(args priceArgs, graph []pricing.GraphElement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", args.model, args.optionType, args.sensitivity)
	for _, g := range graph {
		fmt.Fprintf(&b, "K=%.2f  %s=%.6f", g.AtPoint, args.sensitivity, g.Value)
		if g.IV != nil {
			fmt.Fprintf(&b, "  iv=%.4f", *g.IV)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
