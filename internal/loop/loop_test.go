package loop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRunExecutesInOrder(t *testing.T) {
	l := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		if !l.Post(func() { got = append(got, i) }) {
			t.Fatalf("Post %d rejected", i)
		}
	}
	// Call runs after everything posted before it.
	if !l.Call(func() {}) {
		t.Fatal("Call rejected")
	}

	for i, v := range got {
		if v != i {
			t.Errorf("position %d: got %d", i, v)
		}
	}
	if len(got) != 5 {
		t.Errorf("got %d executions, want 5", len(got))
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Run: got %v, want context.Canceled", err)
	}
}

func TestPostFromManyGoroutines(t *testing.T) {
	l := New(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	counter := 0 // only touched on the loop goroutine
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				l.Post(func() { counter++ })
			}
		}()
	}
	wg.Wait()

	var final int
	l.Call(func() { final = counter })
	if final != 1000 {
		t.Errorf("counter: got %d, want 1000", final)
	}
}

func TestCloseRejectsPost(t *testing.T) {
	l := New(1)
	l.Close()
	l.Close() // idempotent

	if l.Post(func() {}) {
		t.Error("Post after Close should return false")
	}
	if l.Call(func() {}) {
		t.Error("Call after Close should return false")
	}
	if err := l.Run(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Run after Close: got %v, want ErrClosed", err)
	}
}

func TestCloseUnblocksFullQueue(t *testing.T) {
	l := New(1)
	l.Post(func() {})

	done := make(chan bool, 1)
	go func() { done <- l.Post(func() {}) }()

	time.Sleep(10 * time.Millisecond)
	l.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("blocked Post should return false after Close")
		}
	case <-time.After(time.Second):
		t.Fatal("Post still blocked after Close")
	}
}
