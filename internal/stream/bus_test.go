package stream

import (
	"encoding/json"
	"testing"
	"time"
)

func recv(t *testing.T, ch chan []byte) Event {
	t.Helper()
	select {
	case data := <-ch:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("bad event payload: %v", err)
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublishReachesBoardSubscribers(t *testing.T) {
	bus := NewBus()
	ch1, cancel1 := bus.Subscribe("b1")
	defer cancel1()
	ch2, cancel2 := bus.Subscribe("b1")
	defer cancel2()
	other, cancelOther := bus.Subscribe("b2")
	defer cancelOther()

	bus.Publish(Event{Type: EventPostsChanged, BoardID: "b1", SectionID: "s1"})

	for _, ch := range []chan []byte{ch1, ch2} {
		ev := recv(t, ch)
		if ev.Type != EventPostsChanged || ev.SectionID != "s1" {
			t.Fatalf("unexpected event: %+v", ev)
		}
	}
	select {
	case <-other:
		t.Fatal("event leaked to another board's subscriber")
	default:
	}
}

func TestCancelRemovesSubscriber(t *testing.T) {
	bus := NewBus()
	_, cancel := bus.Subscribe("b1")
	if got := bus.Subscribers("b1"); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}
	cancel()
	if got := bus.Subscribers("b1"); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}
	// publishing to an empty board must not panic
	bus.Publish(Event{Type: EventBoardUpdated, BoardID: "b1"})
}

func TestSlowSubscriberDropsEvents(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe("b1")
	defer cancel()

	for i := 0; i < cap(ch)+8; i++ {
		bus.Publish(Event{Type: EventPostsChanged, BoardID: "b1"})
	}
	if len(ch) != cap(ch) {
		t.Fatalf("expected full buffer of %d, got %d", cap(ch), len(ch))
	}
}
