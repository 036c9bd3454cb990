package hub

import (
	"testing"
	"time"

	"github.com/holoview/go-window/pkg/protocol"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// registerBare registers a client that has no websocket connection or
// pumps; its send channel stands in for a renderer of a given speed.
func registerBare(h *Hub, buffer int) *Client {
	c := &Client{hub: h, send: make(chan Message, buffer)}
	h.register <- c
	return c
}

func TestHub_BroadcastReachesClient(t *testing.T) {
	h := New("test")
	go h.Run()

	c := registerBare(h, 4)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast(NewJSONMessage([]byte(`{"type":"pose"}`)))

	select {
	case msg := <-c.send:
		if string(msg.Data) != `{"type":"pose"}` {
			t.Errorf("delivered %q, want pose message", msg.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message never delivered")
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	h := New("test")
	go h.Run()

	// Unbuffered send with no reader: the first broadcast cannot queue.
	registerBare(h, 0)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast(NewJSONMessage([]byte(`{"type":"projection"}`)))

	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

// A slow-client drop mutates the client set while status handlers poll
// ClientCount; both must be able to run concurrently.
func TestHub_ClientCountDuringSlowClientDrop(t *testing.T) {
	h := New("test")
	go h.Run()

	for i := 0; i < 8; i++ {
		registerBare(h, 0)
	}
	waitFor(t, func() bool { return h.ClientCount() == 8 })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			h.ClientCount()
		}
	}()

	h.Broadcast(NewJSONMessage([]byte(`{"type":"projection"}`)))

	<-done
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func TestHub_IsRunning(t *testing.T) {
	h := New("test")
	if h.IsRunning() {
		t.Error("hub reports running before Run")
	}
	go h.Run()
	waitFor(t, h.IsRunning)
}

func TestPongFor(t *testing.T) {
	ping, err := protocol.NewMessage(protocol.TypePing, nil)
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	pingRaw, _ := ping.Bytes()

	reply, ok := pongFor(pingRaw)
	if !ok {
		t.Fatal("ping did not produce a reply")
	}
	msg, err := protocol.ParseMessage(reply.Data)
	if err != nil {
		t.Fatalf("reply is not a protocol message: %v", err)
	}
	if msg.Type != protocol.TypePong {
		t.Errorf("reply type = %q, want %q", msg.Type, protocol.TypePong)
	}

	for _, payload := range []string{
		`{"type":"pose"}`,
		`not json`,
		``,
	} {
		if _, ok := pongFor([]byte(payload)); ok {
			t.Errorf("payload %q produced a pong", payload)
		}
	}
}
