package catalog

import (
	"testing"
	"time"
)

func receiveSnapshot(t *testing.T, ch <-chan []Product) []Product {
	t.Helper()
	select {
	case snap := <-ch:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeDeliversImmediateSnapshot(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	_, _ = svc.Create(ProductInput{Name: "existing"})

	ch, detach, err := svc.Subscribe(10)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer detach()

	snap := receiveSnapshot(t, ch)
	if len(snap) != 1 || snap[0].Name != "existing" {
		t.Fatalf("unexpected initial snapshot: %+v", snap)
	}
}

func TestSubscribeRedeliversOnChange(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	ch, detach, err := svc.Subscribe(2)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer detach()

	if snap := receiveSnapshot(t, ch); len(snap) != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", snap)
	}

	_, _ = svc.Create(ProductInput{Name: "a"})
	snap := receiveSnapshot(t, ch)
	if len(snap) != 1 || snap[0].Name != "a" {
		t.Fatalf("expected snapshot with a, got %+v", snap)
	}

	// a classification update re-delivers the full snapshot too
	category := "Eletrônicos"
	if err := svc.Update(snap[0].ID, Patch{Category: &category}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	snap = receiveSnapshot(t, ch)
	if snap[0].Category == nil || *snap[0].Category != "Eletrônicos" {
		t.Fatalf("subscriber did not see the enrichment write: %+v", snap)
	}
}

func TestSubscribeHonorsLimitNewestFirst(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	_, _ = svc.Create(ProductInput{Name: "t1"})
	_, _ = svc.Create(ProductInput{Name: "t2"})
	_, _ = svc.Create(ProductInput{Name: "t3"})

	ch, detach, err := svc.Subscribe(2)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer detach()

	snap := receiveSnapshot(t, ch)
	if len(snap) != 2 || snap[0].Name != "t3" || snap[1].Name != "t2" {
		t.Fatalf("expected [t3, t2], got %+v", snap)
	}
}

func TestDetachStopsDeliveries(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	ch, detach, err := svc.Subscribe(10)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	receiveSnapshot(t, ch) // initial
	detach()
	detach() // idempotent

	// channel closes once the worker notices the detach
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after detach")
		}
	}
}

func TestUpdateEmptyPatchIsNoop(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	if err := svc.Update("whatever", Patch{}); err != nil {
		t.Fatalf("empty patch should be a no-op, got %v", err)
	}
}
