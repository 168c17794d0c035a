package vkbot

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"vk-match-bot/internal/constants"
	"vk-match-bot/internal/models"
	"vk-match-bot/pkg/vkclient"
)

// Handler processes one inbound event
type Handler interface {
	Handle(ctx context.Context, ev models.Event) error
}

// Bot runs the long-poll event loop and dispatches inbound messages to the
// dialog handler
type Bot struct {
	client  *vkclient.Client
	handler Handler
	logger  *logrus.Logger
}

// NewBot creates a new bot
func NewBot(client *vkclient.Client, handler Handler, logger *logrus.Logger) *Bot {
	return &Bot{
		client:  client,
		handler: handler,
		logger:  logger,
	}
}

// Start runs the event loop until the context is cancelled. A failed poll
// or a panicking handler degrades to a short pause, never to process death.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting VK long poll loop")

	poller, err := b.openPoller(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Stopping VK long poll loop")
			return nil
		default:
		}

		events, err := poller.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Errorf("Long poll failed: %v", err)
			time.Sleep(constants.PollFailureDelay * time.Second)
			continue
		}

		for _, ev := range events {
			b.dispatch(ctx, ev)
		}
	}
}

// openPoller opens the long-poll session, retrying until the context ends
func (b *Bot) openPoller(ctx context.Context) (*vkclient.LongPoller, error) {
	for {
		poller, err := b.client.NewLongPoller(ctx)
		if err == nil {
			return poller, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		b.logger.Errorf("Failed to open long poll session: %v", err)
		time.Sleep(constants.PollFailureDelay * time.Second)
	}
}

// dispatch hands one event to the handler under a supervising recover
func (b *Bot) dispatch(ctx context.Context, ev models.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("Handler panicked on event from user %d: %v", ev.UserID, r)
		}
	}()

	b.logger.Infof("Received message from %d: %s", ev.UserID, ev.Text)
	if err := b.handler.Handle(ctx, ev); err != nil {
		b.logger.Errorf("Handler failed for user %d: %v", ev.UserID, err)
	}
}
