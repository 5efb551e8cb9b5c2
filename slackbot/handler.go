package slackbot

import (
	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/bcdannyboy/optionpricer/api"
)

// poster is the part of the socket mode client the commands use.
type poster interface {
	PostMessage(channelID string, options ...slack.MsgOption) (string, string, error)
}

type Handler struct {
	helpHandler   *HelpHandler
	priceHandler  *PriceHandler
	rangesHandler *RangesHandler
	logger        *zap.Logger
}

func NewHandler(svc *api.Service, logger *zap.Logger) *Handler {
	return &Handler{
		helpHandler:   NewHelpHandler(),
		priceHandler:  NewPriceHandler(svc),
		rangesHandler: NewRangesHandler(svc),
		logger:        logger,
	}
}

func (h *Handler) Handle(cmd slack.SlashCommand, client poster) error {
	var text string
	switch cmd.Command {
	case "/price":
		text = h.priceHandler.Reply(cmd.Text)
	case "/ranges":
		text = h.rangesHandler.Reply(cmd.Text)
	default:
		text = h.helpHandler.Reply()
	}
	h.logger.Debug("slash command", zap.String("command", cmd.Command), zap.String("user", cmd.UserName))
	_, _, err := client.PostMessage(cmd.ChannelID, slack.MsgOptionText(text, false))
	return err
}
