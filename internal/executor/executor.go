package executor

import (
	"log"
	"sync"
)

// Executor runs tasks asynchronously. Execute never blocks the caller.
type Executor interface {
	Execute(task func())
}

// Inline runs every task on the calling goroutine.
type Inline struct{}

func (Inline) Execute(task func()) { task() }

// Pool is a fixed set of workers draining one unbounded FIFO queue.
// A pool with a single worker runs tasks strictly in submission order.
type Pool struct {
	name string

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	wg     sync.WaitGroup
}

// NewPool starts a pool with the given number of workers.
func NewPool(name string, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{name: name}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) Execute(task func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		log.Printf("executor: %s closed, dropping task", p.name)
		return
	}
	p.queue = append(p.queue, task)
	p.cond.Signal()
}

// Close stops accepting tasks, runs everything already queued and waits for
// the workers to exit.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Pool) work() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		task := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.run(task)
	}
}

func (p *Pool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("executor: %s task panicked: %v", p.name, r)
		}
	}()
	task()
}

// AppExecutors groups the three execution contexts shared by the sync pipeline.
type AppExecutors struct {
	DiskIO    *Pool // single worker, writes never interleave
	NetworkIO *Pool // up to three concurrent fetches
	Main      *Pool // observer callbacks
}

const networkWorkers = 3

// New starts a full set of executors. The caller owns it and must Close it.
func New() *AppExecutors {
	return &AppExecutors{
		DiskIO:    NewPool("disk", 1),
		NetworkIO: NewPool("network", networkWorkers),
		Main:      NewPool("main", 1),
	}
}

// Close drains the pools, network first so fetches that finish can still hand
// their results to main and disk.
func (e *AppExecutors) Close() {
	e.NetworkIO.Close()
	e.Main.Close()
	e.DiskIO.Close()
}

// Wait blocks until every task queued on ex before the call has run. It is only
// meaningful for single-worker executors, and ex must not be closed.
func Wait(ex Executor) {
	done := make(chan struct{})
	ex.Execute(func() { close(done) })
	<-done
}
