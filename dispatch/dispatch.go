package dispatch

import "sync"

// DefaultBuffer is the number of pending callbacks a queue holds before
// Post blocks.
const DefaultBuffer = 128

// Queue executes posted callbacks one at a time, in order, on a single
// dedicated goroutine. Callbacks posted to the same queue never run
// concurrently with each other.
type Queue struct {
	tasks chan func()
	done  chan struct{}

	mu      sync.Mutex
	stopped bool
}

// New creates a queue and starts its worker goroutine.
func New() *Queue {
	q := &Queue{
		tasks: make(chan func(), DefaultBuffer),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	for fn := range q.tasks {
		fn()
	}
	close(q.done)
}

// Post enqueues fn for serialized execution. Posting to a stopped queue
// drops the callback.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return
	}
	q.tasks <- fn
}

// Stop runs callbacks already posted, then shuts the worker down. It blocks
// until the worker goroutine exits and is safe to call more than once.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.stopped {
		q.stopped = true
		close(q.tasks)
	}
	q.mu.Unlock()
	<-q.done
}
