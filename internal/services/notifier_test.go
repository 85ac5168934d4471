package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawat-dev/dawat/internal/models"
	"github.com/dawat-dev/dawat/internal/store"
)

func followUpVisit(name, block, purpose string, due time.Time) store.VisitSummary {
	return store.VisitSummary{
		Visit: models.Visit{
			Purpose:        purpose,
			FollowUpNeeded: true,
			FollowUpDate:   &due,
		},
		Contact: models.Contact{Name: name},
		Block:   models.Block{Name: block},
	}
}

func TestSendFollowUpDigestEmpty(t *testing.T) {
	n := &Notifier{DiscordWebhook: "http://127.0.0.1:1/should-not-be-called"}

	require.NoError(t, n.SendFollowUpDigest(nil))
}

func TestSendFollowUpDigestDiscord(t *testing.T) {
	var got DiscordWebhookRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := &Notifier{DiscordWebhook: srv.URL}

	visits := []store.VisitSummary{
		followUpVisit("Ahmad", "Gulberg", "Dawat", time.Now().AddDate(0, 0, 2)),
		followUpVisit("Bilal", "Anarkali", "Follow-up", time.Now().AddDate(0, 0, -1)),
	}

	require.NoError(t, n.SendFollowUpDigest(visits))

	require.Len(t, got.Embeds, 1)
	embed := got.Embeds[0]

	assert.Equal(t, "Follow-ups due", embed.Title)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Ahmad (Gulberg)", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[1].Value, "(overdue)")
}

func TestSendFollowUpDigestTruncates(t *testing.T) {
	var got SlackWebhookRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := &Notifier{SlackWebhook: srv.URL}

	visits := make([]store.VisitSummary, 0, digestMaxEntries+4)

	for i := 0; i < digestMaxEntries+4; i++ {
		visits = append(visits, followUpVisit(
			fmt.Sprintf("Contact %02d", i), "Gulberg", "Dawat",
			time.Now().AddDate(0, 0, 1),
		))
	}

	require.NoError(t, n.SendFollowUpDigest(visits))

	require.Len(t, got.Attachments, 1)
	require.Len(t, got.Attachments[0].Fields, digestMaxEntries+1)
	assert.Contains(t, got.Attachments[0].Fields[digestMaxEntries].Value, "and 4 more")
}

func TestSendFollowUpDigestReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := &Notifier{DiscordWebhook: srv.URL}

	visits := []store.VisitSummary{
		followUpVisit("Ahmad", "Gulberg", "Dawat", time.Now()),
	}

	assert.Error(t, n.SendFollowUpDigest(visits))
}
