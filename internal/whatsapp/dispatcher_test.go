package whatsapp

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatcherPreservesPerSenderOrder(t *testing.T) {
	d := NewDispatcher(64, zap.NewNop())
	defer d.Shutdown()

	var mu sync.Mutex
	seen := map[string][]int{}
	var wg sync.WaitGroup

	for _, sender := range []string{"a", "b", "c"} {
		for i := 0; i < 50; i++ {
			sender, i := sender, i
			wg.Add(1)
			d.Dispatch(sender, func(_ context.Context) {
				defer wg.Done()
				mu.Lock()
				seen[sender] = append(seen[sender], i)
				mu.Unlock()
			})
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("tasks did not finish in time")
	}

	mu.Lock()
	defer mu.Unlock()
	for _, sender := range []string{"a", "b", "c"} {
		require.Len(t, seen[sender], 50)
		for i, got := range seen[sender] {
			assert.Equal(t, i, got, "sender %s out of order", sender)
		}
	}
}

func TestDispatcherSendersRunIndependently(t *testing.T) {
	d := NewDispatcher(4, zap.NewNop())
	defer d.Shutdown()

	blocked := make(chan struct{})
	release := make(chan struct{})
	d.Dispatch("slow", func(_ context.Context) {
		close(blocked)
		<-release
	})
	<-blocked

	ran := make(chan struct{})
	d.Dispatch("fast", func(_ context.Context) {
		close(ran)
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("a blocked sender stalled an unrelated one")
	}
	close(release)
}

func TestDispatcherFullQueueDropsTask(t *testing.T) {
	d := NewDispatcher(1, zap.NewNop())
	defer d.Shutdown()

	release := make(chan struct{})
	started := make(chan struct{})
	d.Dispatch("s", func(_ context.Context) {
		close(started)
		<-release
	})
	<-started

	var ran int32
	var mu sync.Mutex
	count := func(_ context.Context) {
		mu.Lock()
		ran++
		mu.Unlock()
	}

	d.Dispatch("s", count) // fills the queue
	d.Dispatch("s", count) // dropped
	close(release)
	d.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, int32(1), ran)
}

func TestDispatcherShutdownDrainsQueuedTasks(t *testing.T) {
	d := NewDispatcher(16, zap.NewNop())

	var mu sync.Mutex
	var ran int
	for i := 0; i < 10; i++ {
		d.Dispatch("s", func(_ context.Context) {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}

	d.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, ran)
}

func TestDispatcherRejectsAfterShutdown(t *testing.T) {
	d := NewDispatcher(4, zap.NewNop())
	d.Shutdown()

	ran := false
	d.Dispatch("s", func(_ context.Context) { ran = true })
	time.Sleep(50 * time.Millisecond)
	assert.False(t, ran)
}
