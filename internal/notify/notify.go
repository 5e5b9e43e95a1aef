package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sl "messaging_service/internal/lib/logger"
)

// Dispatcher delivers best-effort push notifications through the Pushy REST
// API. Failures are logged and never propagated to callers.
type Dispatcher struct {
	log    *slog.Logger
	client *http.Client
	apiKey string
	url    string
}

func New(log *slog.Logger, apiKey, url string) *Dispatcher {
	return &Dispatcher{
		log:    log,
		client: &http.Client{Timeout: 5 * time.Second},
		apiKey: apiKey,
		url:    url,
	}
}

func (d *Dispatcher) FriendRequest(ctx context.Context, pushTokens []string, fromUsername string) {
	d.send(ctx, pushTokens, map[string]any{
		"type":    "friendRequest",
		"message": fromUsername + " sent you a friend request.",
	})
}

func (d *Dispatcher) FriendAccepted(ctx context.Context, pushTokens []string, byUsername string) {
	d.send(ctx, pushTokens, map[string]any{
		"type":    "acceptFriendRequest",
		"message": byUsername + " accepted your friend request.",
	})
}

func (d *Dispatcher) FriendRemoved(ctx context.Context, pushTokens []string, byEmail string) {
	d.send(ctx, pushTokens, map[string]any{
		"type":  "deleteFriend",
		"email": byEmail,
	})
}

func (d *Dispatcher) AddedToChat(ctx context.Context, pushTokens []string, chatName string) {
	d.send(ctx, pushTokens, map[string]any{
		"type":     "addedUserToChat",
		"chatname": chatName,
	})
}

func (d *Dispatcher) RemovedFromChat(ctx context.Context, pushTokens []string, chatName string) {
	d.send(ctx, pushTokens, map[string]any{
		"type":     "removedUserFromChat",
		"chatname": chatName,
	})
}

func (d *Dispatcher) send(ctx context.Context, pushTokens []string, data map[string]any) {
	const op = "notify.send"

	log := d.log.With(slog.String("op", op))

	if d.apiKey == "" || len(pushTokens) == 0 {
		return
	}

	for _, token := range pushTokens {
		body, err := json.Marshal(map[string]any{
			"to":   token,
			"data": data,
		})
		if err != nil {
			log.Error("failed to marshal push payload", sl.Err(err))
			continue
		}

		url := fmt.Sprintf("%s/push?api_key=%s", d.url, d.apiKey)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			log.Error("failed to build push request", sl.Err(err))
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.client.Do(req)
		if err != nil {
			log.Error("failed to send push", sl.Err(err))
			continue
		}
		resp.Body.Close()

		if resp.StatusCode >= 300 {
			log.Error("push rejected", slog.Int("status", resp.StatusCode))
		}
	}
}
