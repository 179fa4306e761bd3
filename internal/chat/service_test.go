package chat

import (
	"fmt"
	"testing"
	"time"
)

func TestPostAssignsIDAndTimestamp(t *testing.T) {
	service := NewService(NewInMemoryRepository())

	first, err := service.Post(Message{Text: "olá"})
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	second, err := service.Post(Message{Text: "tudo bem?"})
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}

	if first.ID == "" || second.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct ids, got %q and %q", first.ID, second.ID)
	}
	if second.Timestamp <= first.Timestamp {
		t.Fatalf("timestamps must be strictly increasing: %d then %d", first.Timestamp, second.Timestamp)
	}
}

func TestPostRejectsEmptyText(t *testing.T) {
	service := NewService(NewInMemoryRepository())

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := service.Post(Message{Text: text}); err != ErrEmptyMessage {
			t.Fatalf("text %q: expected ErrEmptyMessage, got %v", text, err)
		}
	}
}

func TestGuestNameFallback(t *testing.T) {
	service := NewService(NewInMemoryRepository())

	anon, err := service.Post(Message{Text: "oi"})
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if anon.UserName != GuestName {
		t.Fatalf("expected %q, got %q", GuestName, anon.UserName)
	}

	id := 7
	named, err := service.Post(Message{Text: "oi", UserID: &id, UserName: "Ana"})
	if err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if named.UserName != "Ana" {
		t.Fatalf("expected named sender, got %q", named.UserName)
	}
}

func TestRecentReturnsLastNChronological(t *testing.T) {
	service := NewService(NewInMemoryRepository())

	for i := 0; i < 30; i++ {
		if _, err := service.Post(Message{Text: fmt.Sprintf("msg-%d", i)}); err != nil {
			t.Fatalf("post failed: %v", err)
		}
	}

	recent, err := service.Recent(0)
	if err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if len(recent) != DefaultRecentLimit {
		t.Fatalf("expected %d messages, got %d", DefaultRecentLimit, len(recent))
	}
	if recent[0].Text != "msg-5" || recent[len(recent)-1].Text != "msg-29" {
		t.Fatalf("expected chronological tail, got %q .. %q", recent[0].Text, recent[len(recent)-1].Text)
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].Timestamp <= recent[i-1].Timestamp {
			t.Fatal("messages out of order")
		}
	}
}

func TestSubscribeDeliversHistoryThenUpdates(t *testing.T) {
	service := NewService(NewInMemoryRepository())
	if _, err := service.Post(Message{Text: "primeira"}); err != nil {
		t.Fatalf("post failed: %v", err)
	}

	snapshots, detach, err := service.Subscribe(10)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer detach()

	select {
	case history := <-snapshots:
		if len(history) != 1 || history[0].Text != "primeira" {
			t.Fatalf("unexpected history %+v", history)
		}
	case <-time.After(time.Second):
		t.Fatal("no immediate history")
	}

	if _, err := service.Post(Message{Text: "segunda"}); err != nil {
		t.Fatalf("post failed: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		select {
		case snap := <-snapshots:
			if len(snap) == 2 && snap[1].Text == "segunda" {
				return
			}
		case <-deadline:
			t.Fatal("update never delivered")
		}
	}
}

func TestSubscribeDetachClosesChannel(t *testing.T) {
	service := NewService(NewInMemoryRepository())

	snapshots, detach, err := service.Subscribe(5)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	<-snapshots
	detach()
	detach()

	select {
	case _, ok := <-snapshots:
		if ok {
			// a buffered snapshot may still drain first
			if _, ok := <-snapshots; ok {
				t.Fatal("channel still open after detach")
			}
		}
	case <-time.After(time.Second):
		t.Fatal("channel never closed")
	}
}
