package sse

import (
	"strings"
	"testing"
	"time"
)

func receive(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("client channel closed")
		}
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestBrokerPublish(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Subscription is async; make sure the loop registered the client.
	for i := 0; i < 100 && b.ClientCount() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if b.ClientCount() != 1 {
		t.Fatalf("ClientCount = %d, want 1", b.ClientCount())
	}

	b.Publish(Event{Type: "ping", Data: map[string]string{"k": "v"}})
	msg := receive(t, ch)
	if !strings.Contains(msg, "event: ping") || !strings.Contains(msg, `"k":"v"`) {
		t.Errorf("message = %q", msg)
	}
}

func TestBrokerRecordEventAndThrottle(t *testing.T) {
	b := NewBroker(time.Hour) // throttle long enough to fire exactly once
	defer b.Close()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)
	for i := 0; i < 100 && b.ClientCount() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}

	b.PublishRecordEvent("created", "semaphore")
	first := receive(t, ch)
	if !strings.Contains(first, "event: record.created") || !strings.Contains(first, `"id":"semaphore"`) {
		t.Errorf("first message = %q", first)
	}
	second := receive(t, ch)
	if !strings.Contains(second, "event: kb.updated") {
		t.Errorf("second message = %q", second)
	}

	// Within the throttle window only the record event arrives.
	b.PublishRecordEvent("updated", "semaphore")
	third := receive(t, ch)
	if !strings.Contains(third, "event: record.updated") {
		t.Errorf("third message = %q", third)
	}
	select {
	case msg := <-ch:
		t.Errorf("unexpected extra event: %q", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()

	ch := b.Subscribe()
	for i := 0; i < 100 && b.ClientCount() == 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}

	b.Unsubscribe(ch)
	for i := 0; i < 100 && b.ClientCount() != 0; i++ {
		time.Sleep(10 * time.Millisecond)
	}
	if b.ClientCount() != 0 {
		t.Errorf("ClientCount = %d after unsubscribe", b.ClientCount())
	}
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after unsubscribe")
	}
}

func TestBrokerClose(t *testing.T) {
	b := NewBroker(time.Second)
	ch := b.Subscribe()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after broker close")
	}
	// Operations on a closed broker are no-ops.
	b.Publish(Event{Type: "ping"})
	b.PublishRecordEvent("created", "x")
	if n := b.ClientCount(); n != 0 {
		t.Errorf("ClientCount = %d after close", n)
	}
	ch2 := b.Subscribe()
	if _, ok := <-ch2; ok {
		t.Error("subscribe after close should return a closed channel")
	}
}
