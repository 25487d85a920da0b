package hub

import "testing"

func TestBroadcastMatchesSubscription(t *testing.T) {
	h := New()
	mine := &Client{ID: "c1", Send: make(chan []byte, 1), Subscription: Subscription{EntryID: "e1"}}
	other := &Client{ID: "c2", Send: make(chan []byte, 1), Subscription: Subscription{EntryID: "e2"}}
	all := &Client{ID: "c3", Send: make(chan []byte, 1)}
	h.Register(mine)
	h.Register(other)
	h.Register(all)

	h.Broadcast([]byte(`{"entry_id":"e1"}`), Subscription{EntryID: "e1"})

	if len(mine.Send) != 1 {
		t.Fatalf("subscribed client should receive the message")
	}
	if len(other.Send) != 0 {
		t.Fatalf("client subscribed to another entry should not receive the message")
	}
	if len(all.Send) != 1 {
		t.Fatalf("wildcard client should receive the message")
	}
}

func TestBroadcastByStage(t *testing.T) {
	h := New()
	stage := &Client{ID: "c1", Send: make(chan []byte, 1), Subscription: Subscription{StageID: "s1"}}
	h.Register(stage)

	h.Broadcast([]byte(`{}`), Subscription{EntryID: "e1", StageID: "s2"})
	if len(stage.Send) != 0 {
		t.Fatalf("stage filter should exclude other stages")
	}

	h.Broadcast([]byte(`{}`), Subscription{EntryID: "e1", StageID: "s1"})
	if len(stage.Send) != 1 {
		t.Fatalf("stage filter should include matching stage")
	}
}

func TestBroadcastDropsWhenClientFull(t *testing.T) {
	h := New()
	client := &Client{ID: "c1", Send: make(chan []byte, 1)}
	h.Register(client)

	h.Broadcast([]byte(`1`), Subscription{})
	h.Broadcast([]byte(`2`), Subscription{})

	if len(client.Send) != 1 {
		t.Fatalf("second message should be dropped, got %d buffered", len(client.Send))
	}
}

func TestParseSubscribe(t *testing.T) {
	msg, ok := ParseSubscribe([]byte(`{"action":"subscribe","entry_id":"e1"}`))
	if !ok || msg.EntryID != "e1" {
		t.Fatalf("expected valid subscribe message, got %+v ok=%v", msg, ok)
	}
	if _, ok := ParseSubscribe([]byte(`{"action":"other"}`)); ok {
		t.Fatalf("unknown action should be rejected")
	}
	if _, ok := ParseSubscribe([]byte(`not json`)); ok {
		t.Fatalf("invalid json should be rejected")
	}
}

func TestUnregisterClosesSend(t *testing.T) {
	h := New()
	client := &Client{ID: "c1", Send: make(chan []byte, 1)}
	h.Register(client)
	h.Unregister(client)

	if _, open := <-client.Send; open {
		t.Fatalf("send channel should be closed after unregister")
	}
	h.Broadcast([]byte(`{}`), Subscription{})
}
