package slackbot

import (
	"bytes"
	"strings"

	"github.com/xhhuango/json"

	"github.com/bcdannyboy/optionpricer/api"
)

type RangesHandler struct {
	svc *api.Service
}

func NewRangesHandler(svc *api.Service) *RangesHandler {
	return &RangesHandler{svc: svc}
}

func (h *RangesHandler) Reply(text string) string {
	out, err := h.svc.ParameterRanges(strings.ToLower(strings.TrimSpace(text)))
	if err != nil {
		return "Error: " + err.Error()
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, out, "", "  "); err != nil {
		return "Error: " + err.Error()
	}
	return "```\n" + pretty.String() + "\n```"
}
