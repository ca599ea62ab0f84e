// Package task runs background work under supervision: every task carries a
// cancellable handle and a completion/error signal. Callers are free to
// ignore the signal, the registry logs the outcome either way.
package task

import (
	"context"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/thenoizz/dotmenu/helpers"
	"github.com/thenoizz/dotmenu/log2"
)

type Func func(ctx context.Context) error

type Task struct {
	Name string

	alive *alive.Alive
	done  chan struct{}
	err   helpers.AtomicError
}

// Stop cancels the task context. It does not wait.
func (t *Task) Stop() { t.alive.Stop() }

// Done is closed after the task function returned.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err is meaningful after Done is closed.
func (t *Task) Err() error {
	e, _ := t.err.Load()
	return e
}

type Registry struct {
	Log *log2.Log

	alive *alive.Alive
	mu    sync.Mutex
	run   map[*Task]struct{}
}

// NewRegistry ties all task lifetimes to parent: parent stop cancels every
// running task.
func NewRegistry(log *log2.Log, parent *alive.Alive) *Registry {
	r := &Registry{
		Log:   log,
		alive: alive.NewAlive(),
		run:   make(map[*Task]struct{}, 8),
	}
	if parent != nil {
		go helpers.AliveSub(parent, r.alive)
	}
	return r
}

// Start runs fn in a new goroutine. Returns nil after registry stop.
func (r *Registry) Start(ctx context.Context, name string, fn Func) *Task {
	t := &Task{
		Name:  name,
		alive: alive.NewAlive(),
		done:  make(chan struct{}),
	}
	if !r.alive.Add(1) {
		r.Log.Errorf("task=%s not started: registry is stopping", name)
		return nil
	}
	go helpers.AliveSub(r.alive, t.alive)

	r.mu.Lock()
	r.run[t] = struct{}{}
	r.mu.Unlock()

	tctx, cancel := context.WithCancel(ctx)
	go func() {
		<-t.alive.StopChan()
		cancel()
	}()
	go func() {
		defer r.alive.Done()
		err := errors.Annotatef(fn(tctx), "task=%s", name)
		t.err.StoreOnce(err)

		r.mu.Lock()
		delete(r.run, t)
		r.mu.Unlock()

		if err != nil {
			r.Log.Error(err)
		} else {
			r.Log.Debugf("task=%s done", name)
		}

		t.alive.Stop() // release the cancel goroutine
		close(t.done)
	}()
	return t
}

// StopWait cancels running tasks and waits for them to return.
func (r *Registry) StopWait() {
	r.alive.Stop()
	r.alive.Wait()
}

func (r *Registry) Running() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.run)
}
