package executor

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool_SingleWorkerIsFIFO(t *testing.T) {
	p := NewPool("test", 1)
	defer p.Close()

	var mu sync.Mutex
	var got []int
	for i := 0; i < 100; i++ {
		i := i
		p.Execute(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	Wait(p)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 100 {
		t.Fatalf("len(got) = %d, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestPool_RunsConcurrently(t *testing.T) {
	p := NewPool("test", 3)
	defer p.Close()

	var running, peak int32
	var wg sync.WaitGroup
	release := make(chan struct{})
	for i := 0; i < 3; i++ {
		wg.Add(1)
		p.Execute(func() {
			defer wg.Done()
			n := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			<-release
			atomic.AddInt32(&running, -1)
		})
	}

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&peak) < 3 {
		select {
		case <-deadline:
			close(release)
			t.Fatalf("peak concurrency = %d, want 3", atomic.LoadInt32(&peak))
		case <-time.After(time.Millisecond):
		}
	}
	close(release)
	wg.Wait()
}

func TestPool_CloseDrainsQueue(t *testing.T) {
	p := NewPool("test", 1)

	var count int32
	for i := 0; i < 10; i++ {
		p.Execute(func() { atomic.AddInt32(&count, 1) })
	}
	p.Close()

	if n := atomic.LoadInt32(&count); n != 10 {
		t.Errorf("ran %d tasks, want 10", n)
	}

	p.Execute(func() { atomic.AddInt32(&count, 1) })
	if n := atomic.LoadInt32(&count); n != 10 {
		t.Errorf("task ran after Close, count = %d", n)
	}
}

func TestPool_SurvivesPanic(t *testing.T) {
	p := NewPool("test", 1)
	defer p.Close()

	p.Execute(func() { panic("boom") })
	ran := false
	p.Execute(func() { ran = true })
	Wait(p)

	if !ran {
		t.Error("task after panic did not run")
	}
}

func TestInline(t *testing.T) {
	ran := false
	Inline{}.Execute(func() { ran = true })
	if !ran {
		t.Error("inline task did not run")
	}
}
