package slackbot

import (
	"errors"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bcdannyboy/optionpricer/api"
)

type recordingPoster struct {
	channel string
	posts   int
	err     error
}

func (p *recordingPoster) PostMessage(channelID string, options ...slack.MsgOption) (string, string, error) {
	p.channel = channelID
	p.posts++
	return channelID, "1700000000.000100", p.err
}

const mertonJSON = `{"maturity": 0.5, "rate": 0.1, "asset": 38, "strikes": [35, 40], "num_u": 8,
 "cf_parameters": {"lambda": 1, "mu_l": -0.025, "sig_l": 0.2236, "sigma": 0.2236, "v0": 1, "speed": 0, "eta_v": 0, "rho": 0}}`

func TestParsePriceArgs(t *testing.T) {
	args, err := parsePriceArgs("  Merton  call price {\"a\": 1,  \"b\": 2} ")
	require.NoError(t, err)
	assert.Equal(t, priceArgs{model: "merton", optionType: "call", sensitivity: "price", body: `{"a": 1,  "b": 2}`}, args)

	_, err = parsePriceArgs("merton call price")
	assert.EqualError(t, err, "invalid number of arguments. "+priceUsage)
}

func TestPriceReply(t *testing.T) {
	h := NewPriceHandler(api.NewService(api.DefaultSettings(), nil))

	reply := h.Reply("merton call price " + mertonJSON)
	assert.Contains(t, reply, "merton call price\n")
	assert.Contains(t, reply, "K=35.00  price=5.97")
	assert.Contains(t, reply, "iv=")

	reply = h.Reply("merton put delta " + mertonJSON)
	assert.Contains(t, reply, "K=40.00  delta=")
	assert.NotContains(t, reply, "iv=")

	assert.Equal(t, "Error: Function indicator call_vanna does not exist.", h.Reply("merton call vanna "+mertonJSON))
}

func TestRangesReply(t *testing.T) {
	h := NewRangesHandler(api.NewService(api.DefaultSettings(), nil))
	reply := h.Reply(" CGMY ")
	assert.Contains(t, reply, "```\n{")
	assert.Contains(t, reply, `"y": {`)
}

func TestHandlerRoutesCommands(t *testing.T) {
	h := NewHandler(api.NewService(api.DefaultSettings(), nil), zap.NewNop())
	p := &recordingPoster{}
	require.NoError(t, h.Handle(slack.SlashCommand{Command: "/help", ChannelID: "C1"}, p))
	assert.Equal(t, "C1", p.channel)
	assert.Equal(t, 1, p.posts)

	p.err = errors.New("channel_not_found")
	assert.EqualError(t, h.Handle(slack.SlashCommand{Command: "/ranges", Text: "heston", ChannelID: "C2"}, p), "channel_not_found")
}
