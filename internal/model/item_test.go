package model

import "testing"

func TestValidKind(t *testing.T) {
	tests := []struct {
		kind     string
		expected bool
	}{
		{KindLost, true},
		{KindFound, true},
		{"stolen", false},
		{"", false},
		{"Lost", false},
	}

	for _, tt := range tests {
		if got := ValidKind(tt.kind); got != tt.expected {
			t.Errorf("ValidKind(%q) = %v, want %v", tt.kind, got, tt.expected)
		}
	}
}

func TestValidItemStatus(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{ItemStatusActive, true},
		{ItemStatusClaimed, true},
		{ItemStatusArchived, true},
		{"deleted", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidItemStatus(tt.status); got != tt.expected {
			t.Errorf("ValidItemStatus(%q) = %v, want %v", tt.status, got, tt.expected)
		}
	}
}

func TestConversationSendable(t *testing.T) {
	tests := []struct {
		status   string
		count    int
		max      int
		expected bool
	}{
		{ConversationActive, 0, 5, true},
		{ConversationActive, 4, 5, true},
		{ConversationActive, 5, 5, false},
		{ConversationResolved, 0, 5, false},
		{ConversationExpired, 2, 5, false},
	}

	for _, tt := range tests {
		c := Conversation{Status: tt.status, MessageCount: tt.count, MaxMessages: tt.max}
		if got := c.Sendable(); got != tt.expected {
			t.Errorf("Sendable(status=%s, count=%d/%d) = %v, want %v",
				tt.status, tt.count, tt.max, got, tt.expected)
		}
	}
}
