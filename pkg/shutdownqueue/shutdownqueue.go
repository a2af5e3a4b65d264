// Package shutdownqueue collects named cleanup tasks and drains them in LIFO
// order when the process stops:
//
//	q := shutdownqueue.New()
//	q.Add("postgres", func(context.Context) error { return db.Close() })
//	...
//	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
//	defer cancel()
//	err := q.Shutdown(ctx)
//
// Tasks run once. Panics are recovered and reported as errors.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Task is a shutdown function. It should honor ctx.
type Task func(ctx context.Context) error

type entry struct {
	name string
	task Task
}

type Queue struct {
	mu     sync.Mutex
	tasks  []entry
	closed bool
}

func New() *Queue {
	return &Queue{tasks: make([]entry, 0, 8)}
}

// Add registers t under name. Nil tasks and tasks added once Shutdown has
// started are ignored.
func (q *Queue) Add(name string, t Task) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		log.WithField("task", name).Warn("shutdown already started, task dropped")
		return
	}

	q.tasks = append(q.tasks, entry{name: name, task: t})
}

// Shutdown runs every task newest first. Only the first call does work.
// When ctx ends mid-drain the remaining tasks are skipped and the context
// error is joined with the task errors so far.
func (q *Queue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}

	q.closed = true
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	var errs []error

	for i := len(tasks) - 1; i >= 0; i-- {
		e := tasks[i]

		if ctx.Err() != nil {
			errs = append(errs, fmt.Errorf("shutdown canceled before %s: %w", e.name, ctx.Err()))
			return errors.Join(errs...)
		}

		start := time.Now()
		err := run(ctx, e)

		l := log.WithFields(log.Fields{"task": e.name, "took": time.Since(start)})
		if err != nil {
			l.WithError(err).Error("shutdown task failed")
			errs = append(errs, err)

			continue
		}

		l.Info("shutdown task done")
	}

	return errors.Join(errs...)
}

func run(ctx context.Context, e entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in shutdown task %s: %v", e.name, r)
		}
	}()

	err = e.task(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", e.name, err)
	}

	return nil
}
