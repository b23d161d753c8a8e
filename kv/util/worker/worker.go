// Package worker runs queued tasks on a background goroutine. The benchmark
// uses it to take delivery transactions off the client threads, the way the
// deferred execution mode of TPC-C allows.
package worker

import (
	"sync"

	"go.uber.org/atomic"
)

type TaskStop struct{}

type Task interface{}

type Worker struct {
	name     string
	sender   chan<- Task
	receiver <-chan Task
	wg       *sync.WaitGroup
	// queued counts tasks sent but not yet handled.
	queued  atomic.Int64
	handled atomic.Int64
}

type TaskHandler interface {
	Handle(t Task)
}

// Starter is implemented by handlers that need setup on the worker
// goroutine.
type Starter interface {
	Start()
}

func (w *Worker) Start(handler TaskHandler) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if s, ok := handler.(Starter); ok {
			s.Start()
		}
		for {
			task := <-w.receiver
			if _, ok := task.(TaskStop); ok {
				return
			}
			handler.Handle(task)
			w.queued.Dec()
			w.handled.Inc()
		}
	}()
}

// Send queues t, blocking while the queue is full.
func (w *Worker) Send(t Task) {
	w.queued.Inc()
	w.sender <- t
}

func (w *Worker) Sender() chan<- Task {
	return w.sender
}

func (w *Worker) Name() string {
	return w.name
}

// Queued returns the number of tasks sent with Send and not yet handled.
func (w *Worker) Queued() int64 {
	return w.queued.Load()
}

func (w *Worker) Handled() int64 {
	return w.handled.Load()
}

// Stop asks the worker to exit once the tasks queued before it are handled.
func (w *Worker) Stop() {
	w.sender <- TaskStop{}
}

const defaultWorkerCapacity = 128

func NewWorker(name string, wg *sync.WaitGroup) *Worker {
	return NewWorkerWithCapacity(name, wg, defaultWorkerCapacity)
}

func NewWorkerWithCapacity(name string, wg *sync.WaitGroup, capacity int) *Worker {
	ch := make(chan Task, capacity)
	return &Worker{
		sender:   (chan<- Task)(ch),
		receiver: (<-chan Task)(ch),
		name:     name,
		wg:       wg,
	}
}
