package vkclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"vk-match-bot/internal/constants"
	apperrors "vk-match-bot/internal/errors"
	"vk-match-bot/internal/models"
)

// longPollServer is the connection descriptor returned by
// groups.getLongPollServer
type longPollServer struct {
	Key    string `json:"key"`
	Server string `json:"server"`
	TS     string `json:"ts"`
}

// LongPoller consumes the Bots Long Poll stream and turns message_new
// updates into inbound events
type LongPoller struct {
	client  *Client
	groupID int64
	server  longPollServer
}

// NewLongPoller resolves the bot's group id and opens a long-poll session
func (c *Client) NewLongPoller(ctx context.Context) (*LongPoller, error) {
	groupID, err := c.groupID(ctx)
	if err != nil {
		return nil, err
	}

	lp := &LongPoller{client: c, groupID: groupID}
	if err := lp.refreshServer(ctx); err != nil {
		return nil, err
	}

	c.logger.Infof("Long poll session opened for group %d", groupID)
	return lp, nil
}

// groupID resolves the id of the group the token belongs to
func (c *Client) groupID(ctx context.Context) (int64, error) {
	var out struct {
		Groups []struct {
			ID int64 `json:"id"`
		} `json:"groups"`
	}
	if err := c.call(ctx, "groups.getById", c.groupToken, map[string]string{}, &out); err != nil {
		return 0, err
	}
	if len(out.Groups) == 0 {
		return 0, &apperrors.VkAPIError{Method: "groups.getById", Message: "empty group list for token"}
	}
	return out.Groups[0].ID, nil
}

// refreshServer requests a fresh long-poll server descriptor
func (lp *LongPoller) refreshServer(ctx context.Context) error {
	var server longPollServer
	err := lp.client.call(ctx, "groups.getLongPollServer", lp.client.groupToken, map[string]string{
		"group_id": strconv.FormatInt(lp.groupID, 10),
	}, &server)
	if err != nil {
		return err
	}
	lp.server = server
	return nil
}

// Poll blocks on the long-poll endpoint and returns the next batch of
// inbound message events. An empty batch is normal on wait timeout.
func (lp *LongPoller) Poll(ctx context.Context) ([]models.Event, error) {
	resp, err := lp.client.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"act":  "a_check",
			"key":  lp.server.Key,
			"ts":   lp.server.TS,
			"wait": strconv.Itoa(constants.LongPollWait),
		}).
		Get(lp.server.Server)
	if err != nil {
		return nil, fmt.Errorf("long poll request failed: %w", err)
	}

	var result struct {
		TS      string `json:"ts"`
		Failed  int    `json:"failed"`
		Updates []struct {
			Type   string `json:"type"`
			Object struct {
				Message struct {
					FromID  int64  `json:"from_id"`
					Text    string `json:"text"`
					Payload string `json:"payload"`
				} `json:"message"`
			} `json:"object"`
		} `json:"updates"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse long poll response: %w", err)
	}

	switch result.Failed {
	case 0:
		lp.server.TS = result.TS
	case 1:
		// History is outdated, resume from the server's ts.
		lp.server.TS = result.TS
		return nil, nil
	default:
		// Key or server expired.
		if err := lp.refreshServer(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var events []models.Event
	for _, update := range result.Updates {
		if update.Type != "message_new" {
			continue
		}
		msg := update.Object.Message
		if msg.FromID <= 0 {
			// Outgoing and group-authored messages are not user events.
			continue
		}
		events = append(events, models.Event{
			UserID:  msg.FromID,
			Text:    msg.Text,
			Payload: msg.Payload,
		})
	}

	return events, nil
}
