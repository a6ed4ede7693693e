package conversation

import (
	"errors"
	"testing"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

func TestSendMessageAlternatesRolesAndExpires(t *testing.T) {
	conv := New("item-1", "user-1")
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	wantRoles := []string{
		model.RoleClaimant,
		model.RolePoster,
		model.RoleClaimant,
		model.RolePoster,
		model.RoleClaimant,
	}

	for i, want := range wantRoles {
		next, err := SendMessage(conv, "hello", now.Add(time.Duration(i)*time.Minute))
		if err != nil {
			t.Fatalf("send %d: %v", i+1, err)
		}
		if got := next.Messages[i].SenderRole; got != want {
			t.Errorf("message %d role = %s, want %s", i+1, got, want)
		}
		if next.MessageCount != i+1 {
			t.Errorf("message %d: count = %d, want %d", i+1, next.MessageCount, i+1)
		}
		if next.MessageCount != len(next.Messages) {
			t.Errorf("count %d does not match %d messages", next.MessageCount, len(next.Messages))
		}
		conv = next
	}

	// The window is full: the sixth send must fail.
	if _, err := SendMessage(conv, "one more", now); !errors.Is(err, ErrExpired) {
		t.Errorf("sixth send error = %v, want ErrExpired", err)
	}
	if conv.MessageCount > conv.MaxMessages {
		t.Errorf("message count %d exceeded max %d", conv.MessageCount, conv.MaxMessages)
	}
}

func TestSendMessageDoesNotMutateInput(t *testing.T) {
	conv := New("item-1", "user-1")
	now := time.Now()

	first, err := SendMessage(conv, "first", now)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if conv.MessageCount != 0 || len(conv.Messages) != 0 {
		t.Errorf("input conversation was mutated: %+v", conv)
	}

	// Appending to the new value must not leak into the old one.
	second, err := SendMessage(first, "second", now)
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if len(first.Messages) != 1 {
		t.Errorf("first snapshot gained messages: %d", len(first.Messages))
	}
	if second.Messages[1].SenderRole != model.RolePoster {
		t.Errorf("second message role = %s", second.Messages[1].SenderRole)
	}
}

func TestSendMessageRejectsBlankText(t *testing.T) {
	conv := New("item-1", "user-1")

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := SendMessage(conv, text, time.Now()); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("SendMessage(%q) error = %v, want ErrEmptyMessage", text, err)
		}
	}
}

func TestSendMessageRefusesTerminalStates(t *testing.T) {
	conv := New("item-1", "user-1")
	conv.Status = model.ConversationResolved
	if _, err := SendMessage(conv, "hi", time.Now()); !errors.Is(err, ErrExpired) {
		t.Errorf("send to resolved conversation error = %v, want ErrExpired", err)
	}

	conv.Status = model.ConversationExpired
	if _, err := SendMessage(conv, "hi", time.Now()); !errors.Is(err, ErrExpired) {
		t.Errorf("send to expired conversation error = %v, want ErrExpired", err)
	}
}

func TestResolve(t *testing.T) {
	conv := New("item-1", "user-1")
	now := time.Now()

	// Zero or one message: not resolvable.
	if _, err := Resolve(conv); !errors.Is(err, ErrNotResolvable) {
		t.Errorf("resolve empty conversation error = %v, want ErrNotResolvable", err)
	}
	conv, _ = SendMessage(conv, "is this mine?", now)
	if _, err := Resolve(conv); !errors.Is(err, ErrNotResolvable) {
		t.Errorf("resolve after 1 message error = %v, want ErrNotResolvable", err)
	}

	// Two messages: resolvable exactly once.
	conv, _ = SendMessage(conv, "describe the keychain", now)
	resolved, err := Resolve(conv)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.Status != model.ConversationResolved {
		t.Errorf("status = %s, want resolved", resolved.Status)
	}
	if conv.Status != model.ConversationActive {
		t.Errorf("input conversation was mutated: %s", conv.Status)
	}

	if _, err := Resolve(resolved); !errors.Is(err, ErrNotResolvable) {
		t.Errorf("second resolve error = %v, want ErrNotResolvable", err)
	}
}

func TestResolveRefusesFullWindow(t *testing.T) {
	conv := New("item-1", "user-1")
	now := time.Now()
	for i := 0; i < conv.MaxMessages; i++ {
		var err error
		if conv, err = SendMessage(conv, "msg", now); err != nil {
			t.Fatalf("send %d: %v", i+1, err)
		}
	}

	// A full window is effectively expired, which is terminal.
	if _, err := Resolve(conv); !errors.Is(err, ErrNotResolvable) {
		t.Errorf("resolve of full conversation error = %v, want ErrNotResolvable", err)
	}
}
