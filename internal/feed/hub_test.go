package feed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub()
	go hub.Run(ctx)
	return hub
}

func TestHub_Broadcast_EvictsSlowClient(t *testing.T) {
	a := assert.New(t)

	hub := startHub(t)

	// register a client with a full send buffer (capacity 1)
	slow := &Client{
		hub:  hub,
		send: make(chan []byte, 1),
	}
	hub.join <- slow
	time.Sleep(10 * time.Millisecond)

	// fill the buffer so next broadcast can't deliver
	slow.send <- []byte("fill")

	done := make(chan struct{})
	go func() {
		hub.Broadcast(Message{Type: "test"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast deadlocked on slow client")
	}

	// slow client's send channel should be closed
	time.Sleep(10 * time.Millisecond)
	_, open := <-slow.send // drain the "fill" message
	a.True(open)
	_, open = <-slow.send
	a.False(open)
}

func TestHub_BroadcastSticky_ReplayedToLateClient(t *testing.T) {
	a := assert.New(t)

	hub := startHub(t)
	a.Nil(hub.Sticky())

	hub.BroadcastSticky(Message{Type: "relay", Content: "User alice created star on org/repo"})
	time.Sleep(10 * time.Millisecond)

	a.Contains(string(hub.Sticky()), "User alice created star on org/repo")

	late := &Client{hub: hub, send: make(chan []byte, 1)}
	a.True(hub.add(late))

	select {
	case msg := <-late.send:
		a.Contains(string(msg), `"type":"relay"`)
	case <-time.After(2 * time.Second):
		t.Fatal("sticky message not replayed")
	}
}

func TestHub_Broadcast_ConcurrentDoesNotDeadlock(t *testing.T) {
	hub := startHub(t)

	for i := 0; i < 5; i++ {
		c := &Client{
			hub:  hub,
			send: make(chan []byte, 1),
		}
		hub.join <- c
	}
	time.Sleep(10 * time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Broadcast(Message{Type: "test"})
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("concurrent broadcasts deadlocked")
	}
}

func TestHub_Run_StopsOnCancel(t *testing.T) {
	a := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := &Client{hub: hub, send: make(chan []byte, 1)}
	a.True(hub.add(c))

	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
	_, open := <-c.send
	a.False(open, "clients are closed on shutdown")
	a.False(hub.add(&Client{hub: hub}), "stopped hub refuses clients")
}
