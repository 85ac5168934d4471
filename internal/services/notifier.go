package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dawat-dev/dawat/internal/store"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	colorOrange = 16753920 // #FFA500 - follow-ups waiting

	webhookUsername = "Dawat Tracker"
	webhookTimeout  = 10 * time.Second

	// Digests list at most this many follow-ups; the rest are summarized.
	digestMaxEntries = 10
)

// Notifier sends follow-up reminder digests to the configured chat webhooks.
// Either URL may be empty, in which case that channel is skipped.
type Notifier struct {
	DiscordWebhook string
	SlackWebhook   string
}

// SendFollowUpDigest posts one digest covering the given follow-ups, soonest
// first as supplied by the store.
func (n *Notifier) SendFollowUpDigest(visits []store.VisitSummary) error {
	if len(visits) == 0 {
		return nil
	}

	if n.DiscordWebhook != "" {
		if err := n.sendDiscordDigest(visits); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
	}

	if n.SlackWebhook != "" {
		if err := n.sendSlackDigest(visits); err != nil {
			return fmt.Errorf("slack: %w", err)
		}
	}

	return nil
}

func (n *Notifier) sendDiscordDigest(visits []store.VisitSummary) error {
	fields := make([]DiscordWebhookField, 0, digestMaxEntries+1)

	for i, visit := range visits {
		if i == digestMaxEntries {
			fields = append(fields, DiscordWebhookField{
				Name:  "…",
				Value: fmt.Sprintf("and %d more", len(visits)-digestMaxEntries),
			})
			break
		}

		fields = append(fields, DiscordWebhookField{
			Name:   fmt.Sprintf("%s (%s)", visit.Contact.Name, visit.Block.Name),
			Value:  describeFollowUp(visit),
			Inline: false,
		})
	}

	payload := DiscordWebhookRequest{
		Username: webhookUsername,
		Embeds: []DiscordEmbed{
			{
				Title:       "Follow-ups due",
				Description: fmt.Sprintf("%d follow-up visit(s) need attention.", len(visits)),
				Color:       colorOrange,
				Fields:      fields,
				Timestamp:   time.Now().Format(time.RFC3339),
			},
		},
	}

	return postWebhook(n.DiscordWebhook, payload)
}

func (n *Notifier) sendSlackDigest(visits []store.VisitSummary) error {
	fields := make([]SlackField, 0, digestMaxEntries+1)

	for i, visit := range visits {
		if i == digestMaxEntries {
			fields = append(fields, SlackField{
				Title: "…",
				Value: fmt.Sprintf("and %d more", len(visits)-digestMaxEntries),
			})
			break
		}

		fields = append(fields, SlackField{
			Title: fmt.Sprintf("%s (%s)", visit.Contact.Name, visit.Block.Name),
			Value: describeFollowUp(visit),
			Short: false,
		})
	}

	payload := SlackWebhookRequest{
		Username: webhookUsername,
		Text:     fmt.Sprintf("%d follow-up visit(s) need attention.", len(visits)),
		Attachments: []SlackAttachment{
			{
				Color:     "#FFA500",
				Title:     "Follow-ups due",
				Fields:    fields,
				Timestamp: time.Now().Unix(),
			},
		},
	}

	return postWebhook(n.SlackWebhook, payload)
}

func describeFollowUp(visit store.VisitSummary) string {
	due := "no date"

	if visit.FollowUpDate != nil {
		due = visit.FollowUpDate.Format("2006-01-02")

		if visit.FollowUpDate.Before(time.Now()) {
			due += " (overdue)"
		}
	}

	return fmt.Sprintf("%s — due %s", visit.Purpose, due)
}

func postWebhook(url string, payload interface{}) error {
	body, err := json.Marshal(payload)

	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	client := &http.Client{Timeout: webhookTimeout}

	resp, err := client.Post(url, "application/json", bytes.NewReader(body))

	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
