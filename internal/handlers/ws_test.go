package handlers

import "testing"

func TestHubBroadcastWithoutClients(t *testing.T) {
	hub := NewHub()

	// No connected clients, must be a no-op.
	hub.BroadcastRefresh("blocks")
	hub.BroadcastFollowUpsDue(3)
}

func TestHubNilReceiver(t *testing.T) {
	var hub *Hub

	hub.BroadcastRefresh("blocks")
	hub.BroadcastFollowUpsDue(1)
}
