package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, Job{EventID: "1", Location: "data/1.csv"}) {
		t.Error("expected enqueue to succeed")
	}

	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	job := <-q.Dequeue(ctx)
	if job.EventID != "1" || job.Location != "data/1.csv" {
		t.Errorf("unexpected job %+v", job)
	}

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, Job{EventID: "1"}) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, Job{EventID: "2"}) {
		t.Error("expected enqueue to succeed")
	}

	if q.Enqueue(ctx, Job{EventID: "3"}) {
		t.Error("expected enqueue to fail when full")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if q.Enqueue(ctx, Job{EventID: "1"}) {
		t.Error("expected enqueue to fail with a cancelled context")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	const producers, perProducer = 8, 25
	q := NewInMemoryQueue(WithCapacity(16))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				job := Job{EventID: fmt.Sprintf("%d_%d", id, j)}
				for !q.Enqueue(ctx, job) {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	seen := make(map[string]struct{})
	var mu sync.Mutex
	var consumers sync.WaitGroup
	jobs := q.Dequeue(ctx)
	for i := 0; i < 4; i++ {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			for job := range jobs {
				mu.Lock()
				seen[job.EventID] = struct{}{}
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	_ = q.Close()
	consumers.Wait()

	if len(seen) != producers*perProducer {
		t.Errorf("expected %d distinct jobs, got %d", producers*perProducer, len(seen))
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected final length 0, got %d", l)
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	if !q.Enqueue(ctx, Job{EventID: "1"}) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, Job{EventID: "2"}) {
		t.Error("expected enqueue to succeed")
	}

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}

	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}

	if q.Enqueue(ctx, Job{EventID: "3"}) {
		t.Error("expected enqueue to fail after closing")
	}

	// Queued jobs drain before the channel closes.
	var got []string
	timeout := time.After(time.Second)
	jobs := q.Dequeue(ctx)
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				if len(got) != 2 {
					t.Errorf("expected 2 drained jobs, got %v", got)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			got = append(got, job.EventID)
		case <-timeout:
			t.Error("expected dequeue channel to be closed within timeout")
			return
		}
	}
}
