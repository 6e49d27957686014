package mail

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var errPanicked = errors.New("task panicked")

// Task is a best-effort side effect run after the request has committed.
type Task func(ctx context.Context) error

// Recorder observes task outcomes; metrics.EmailRecorder implements it.
type Recorder interface {
	ObserveTask(task string, duration time.Duration, err error)
	DroppedTask(task string)
}

type job struct {
	name string
	fn   Task
}

// Dispatcher runs tasks on a fixed pool of workers fed by a bounded queue.
// Failures are logged and never reach the caller.
type Dispatcher struct {
	tasks    chan job
	log      *logrus.Logger
	timeout  time.Duration
	recorder Recorder

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(log *logrus.Logger, workers, queueSize int, timeout time.Duration, recorder Recorder) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	d := &Dispatcher{
		tasks:    make(chan job, queueSize),
		log:      log,
		timeout:  timeout,
		recorder: recorder,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}

	return d
}

// Dispatch enqueues fn without blocking. It reports false when the task was
// dropped because the queue is full or the dispatcher is closed.
func (d *Dispatcher) Dispatch(name string, fn Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(name, "dispatcher closed")
		return false
	}

	select {
	case d.tasks <- job{name: name, fn: fn}:
		return true
	default:
		d.drop(name, "queue full")
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.tasks)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for j := range d.tasks {
		d.run(j)
	}
}

func (d *Dispatcher) run(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				d.log.WithFields(logrus.Fields{"task": j.name, "panic": r}).Error("background task panicked")
				err = errPanicked
			}
		}()
		return j.fn(ctx)
	}()
	duration := time.Since(start)

	if d.recorder != nil {
		d.recorder.ObserveTask(j.name, duration, err)
	}

	entry := d.log.WithFields(logrus.Fields{"task": j.name, "duration": duration.String()})
	if err != nil {
		entry.WithError(err).Warn("background task failed")
		return
	}
	entry.Debug("background task done")
}

func (d *Dispatcher) drop(name, reason string) {
	d.log.WithFields(logrus.Fields{"task": name, "reason": reason}).Warn("background task dropped")
	if d.recorder != nil {
		d.recorder.DroppedTask(name)
	}
}
