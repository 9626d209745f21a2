package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Reminder is the payload handed to delivery channels when a trigger fires.
type Reminder struct {
	MessageID    string    `json:"message_id"`
	UserID       uint      `json:"user_id"`
	UserActionID uint      `json:"user_action_id"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	FireAt       time.Time `json:"fire_at"` // UTC
}

// Dispatcher is the push-transport boundary. Mobile push (GCM/APNS) lives
// behind this interface in a separate delivery service; this repo ships a
// webhook channel and the websocket feed.
type Dispatcher interface {
	Name() string
	Deliver(reminder Reminder) error
}

type WebhookDispatcher struct {
	URL    string
	Client *http.Client
}

func NewWebhookDispatcher(url string) *WebhookDispatcher {
	return &WebhookDispatcher{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WebhookDispatcher) Name() string {
	return "webhook"
}

func (w *WebhookDispatcher) Deliver(reminder Reminder) error {
	body, err := json.Marshal(reminder)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder payload: %w", err)
	}

	resp, err := w.Client.Post(w.URL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send reminder webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("reminder webhook returned status %d", resp.StatusCode)
	}

	return nil
}

// FuncDispatcher adapts a plain function into a Dispatcher, used to plug the
// websocket feed broadcast into the scheduler without an import cycle.
type FuncDispatcher struct {
	ChannelName string
	Fn          func(Reminder) error
}

func (f *FuncDispatcher) Name() string {
	return f.ChannelName
}

func (f *FuncDispatcher) Deliver(reminder Reminder) error {
	return f.Fn(reminder)
}
