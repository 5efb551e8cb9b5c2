// Package slackbot answers pricing slash commands over Slack socket mode.
package slackbot

import (
	"context"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"

	"github.com/bcdannyboy/optionpricer/api"
)

type SlackBot struct {
	client       *slack.Client
	socketClient *socketmode.Client
	eventHandler *Handler
	logger       *zap.Logger
}

func NewSlackBot(appToken, botToken string, svc *api.Service, logger *zap.Logger) *SlackBot {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := slack.New(
		botToken,
		slack.OptionAppLevelToken(appToken),
	)

	socketClient := socketmode.New(
		client,
		socketmode.OptionLog(zap.NewStdLog(logger.Named("socketmode"))),
	)

	return &SlackBot{
		client:       client,
		socketClient: socketClient,
		eventHandler: NewHandler(svc, logger),
		logger:       logger,
	}
}

// Start dispatches slash commands until ctx is done or the connection fails.
func (sb *SlackBot) Start(ctx context.Context) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-sb.socketClient.Events:
				if !ok {
					return
				}
				switch evt.Type {
				case socketmode.EventTypeConnected:
					sb.logger.Info("slack connected")
				case socketmode.EventTypeSlashCommand:
					cmd, ok := evt.Data.(slack.SlashCommand)
					if !ok {
						continue
					}
					sb.socketClient.Ack(*evt.Request)
					if err := sb.eventHandler.Handle(cmd, sb.socketClient); err != nil {
						sb.logger.Error("slash command failed", zap.String("command", cmd.Command), zap.Error(err))
					}
				}
			}
		}
	}()

	return sb.socketClient.RunContext(ctx)
}
