package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of goroutines running fork-join batches of row work.
//
// Each worker owns a queue; a worker whose queue is empty steals from the
// others, which keeps bands of uneven cost balanced. Pool is safe for
// concurrent use: several Run calls may share the workers.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool

	// mu is held for reading while Run hands tasks to the queues and for
	// writing while Close stops the workers.
	mu sync.RWMutex
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)
	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)
	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]

	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

// drain runs whatever is left in queue.
func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

// steal takes one task from another worker's queue, or returns nil.
func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run executes every task and returns once all of them have finished.
//
// Tasks are dealt round-robin onto the worker queues. A single task, a
// single-worker pool and a closed pool all run the tasks on the calling
// goroutine, in order.
func (p *Pool) Run(tasks []func()) {
	if len(tasks) == 0 {
		return
	}
	if len(tasks) == 1 || p.workers == 1 || !p.dispatch(tasks) {
		for _, task := range tasks {
			task()
		}
	}
}

// dispatch queues tasks on the workers and waits for them. It reports false,
// without running anything, when the pool is closed.
func (p *Pool) dispatch(tasks []func()) bool {
	p.mu.RLock()
	if !p.running.Load() {
		p.mu.RUnlock()
		return false
	}

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		p.queues[i%p.workers] <- func() {
			defer wg.Done()
			task()
		}
	}
	// Close drains every queue before its workers exit, so the tasks
	// finish even if Close runs from here on.
	p.mu.RUnlock()
	wg.Wait()
	return true
}

// Close stops the workers after the queued work completes.
// It is safe to call more than once; Run keeps working afterwards, serially.
func (p *Pool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still has live workers.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}
