package sse

import (
	"testing"
	"time"

	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "render",
			data:      `{"view":"sound_grid"}`,
			expected:  "event: render\ndata: {\"view\":\"sound_grid\"}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "render",
			data:      "line1\nline2",
			expected:  "event: render\ndata: line1\ndata: line2\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatSSEMessage(tt.eventName, tt.data)
			if string(result) != tt.expected {
				t.Errorf("formatSSEMessage(%q, %q)\ngot:  %q\nwant: %q",
					tt.eventName, tt.data, string(result), tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single line",
			input:    "hello",
			expected: []string{"hello"},
		},
		{
			name:     "two lines",
			input:    "line1\nline2",
			expected: []string{"line1", "line2"},
		},
		{
			name:     "trailing newline",
			input:    "line1\n",
			expected: []string{"line1"},
		},
		{
			name:     "empty string",
			input:    "",
			expected: []string{""},
		},
		{
			name:     "crlf line endings",
			input:    "line1\r\nline2\r\n",
			expected: []string{"line1", "line2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("splitLines(%q) returned %d lines, want %d",
					tt.input, len(result), len(tt.expected))
				return
			}
			for i, line := range result {
				if line != tt.expected[i] {
					t.Errorf("splitLines(%q)[%d] = %q, want %q",
						tt.input, i, line, tt.expected[i])
				}
			}
		})
	}
}

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub("maths", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "player1")
	hub.Register(client)

	// Give the hub time to process registration
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.BroadcastEvent("round_ready", "go")

	select {
	case msg := <-client.send:
		expected := "event: round_ready\ndata: go\n\n"
		if string(msg) != expected {
			t.Errorf("client received %q, want %q", string(msg), expected)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive message")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub("maths", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "player1")
	hub.Register(client)

	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 1 {
		t.Errorf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after unregister, want 0", hub.ClientCount())
	}
}

func TestHub_SendToPlayers(t *testing.T) {
	hub := NewHub("maths", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client1 := NewClient(hub, "player1")
	client2 := NewClient(hub, "player2")
	client3 := NewClient(hub, "player3")

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	time.Sleep(10 * time.Millisecond)

	message := formatSSEMessage("kicked", "{}")
	reached := hub.SendToPlayers([]model.PlayerID{"player1", "player3"}, message)
	if reached != 2 {
		t.Errorf("SendToPlayers reached %d players, want 2", reached)
	}

	for _, client := range []*Client{client1, client3} {
		select {
		case msg := <-client.send:
			if string(msg) != string(message) {
				t.Errorf("client %s received %q, want %q", client.playerID, string(msg), string(message))
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("client %s did not receive message", client.playerID)
		}
	}

	select {
	case msg := <-client2.send:
		t.Errorf("untargeted client received %q", string(msg))
	default:
	}
}

func TestHub_SendToPlayersReportsMisses(t *testing.T) {
	hub := NewHub("maths", testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	client := NewClient(hub, "player1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	reached := hub.SendToPlayers([]model.PlayerID{"player1", "elsewhere"}, []byte("x"))
	if reached != 1 {
		t.Errorf("SendToPlayers reached %d players, want 1", reached)
	}
}

func TestHubManager_GetOrCreateHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	hub1 := manager.GetOrCreateHub("maths")
	if hub1 == nil {
		t.Fatal("GetOrCreateHub returned nil")
	}

	hub2 := manager.GetOrCreateHub("maths")
	if hub1 != hub2 {
		t.Error("GetOrCreateHub returned different hub for same room")
	}

	hub3 := manager.GetOrCreateHub("science")
	if hub3 == hub1 {
		t.Error("GetOrCreateHub returned same hub for different room")
	}

	manager.RemoveHub("maths")
	manager.RemoveHub("science")
}

func TestHubManager_GetHub(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	if manager.GetHub("missing") != nil {
		t.Error("GetHub returned non-nil for non-existent hub")
	}

	created := manager.GetOrCreateHub("maths")
	got := manager.GetHub("maths")
	if got != created {
		t.Error("GetHub returned different hub than GetOrCreateHub")
	}

	manager.RemoveHub("maths")
}

func TestHubManager_DeliverBroadcastsRoomScope(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.RemoveHub("maths")

	hub := manager.GetOrCreateHub("maths")
	client := NewClient(hub, "player1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	manager.Deliver(model.RoomScope("maths"), []byte("hello"))

	select {
	case msg := <-client.send:
		if string(msg) != "hello" {
			t.Errorf("client received %q, want %q", string(msg), "hello")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive broadcast")
	}
}

func TestHubManager_DeliverFindsPlayerOutsideScopedRoom(t *testing.T) {
	// Clients in the login flow sit on the lobby hub with no room id; a
	// player-scoped message still has to find them.
	manager := NewHubManager(testutil.NopLogger())
	defer manager.RemoveHub("")
	defer manager.RemoveHub("maths")

	lobby := manager.GetOrCreateHub("")
	manager.GetOrCreateHub("maths")

	client := NewClient(lobby, "player1")
	lobby.Register(client)
	time.Sleep(10 * time.Millisecond)

	manager.Deliver(model.Scope{Room: "maths", Players: []model.PlayerID{"player1"}}, []byte("for you"))

	select {
	case msg := <-client.send:
		if string(msg) != "for you" {
			t.Errorf("client received %q, want %q", string(msg), "for you")
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("lobby client did not receive player-scoped message")
	}
}

func TestHubManager_CleanupEmptyHubs(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())

	manager.GetOrCreateHub("")
	manager.GetOrCreateHub("empty")

	active := manager.GetOrCreateHub("active")
	client := NewClient(active, "player1")
	active.Register(client)
	time.Sleep(10 * time.Millisecond)

	manager.CleanupEmptyHubs()

	if manager.GetHub("empty") != nil {
		t.Error("empty hub still exists after cleanup")
	}
	if manager.GetHub("active") == nil {
		t.Error("active hub was removed during cleanup")
	}
	if manager.GetHub("") == nil {
		t.Error("lobby hub was removed during cleanup")
	}

	manager.RemoveHub("active")
	manager.RemoveHub("")
}
