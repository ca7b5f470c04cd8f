package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	ErrTaskTimeout = errors.New("worker: task timed out")
	ErrTaskPanic   = errors.New("worker: task panicked")
)

// DefaultTimeout bounds a single task when the pool is created without one.
const DefaultTimeout = 10 * time.Second

// Task is one unit of asynchronous work.
type Task[T any] struct {
	Name string
	Work func(ctx context.Context) (T, error)
}

// Result holds the outcome of the task submitted at the same index.
type Result[T any] struct {
	Name    string
	Value   T
	Err     error
	Elapsed time.Duration
}

// Pool runs a batch of tasks with at most maxWorkers of them in flight.
// Results come back in submission order no matter when each task finished,
// and a failing task never affects its siblings. A Pool is single use.
type Pool[T any] struct {
	maxWorkers int
	timeout    time.Duration

	mu     sync.Mutex
	tasks  []Task[T]
	waited bool
}

func NewPool[T any](maxWorkers int, timeout time.Duration) *Pool[T] {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pool[T]{
		maxWorkers: maxWorkers,
		timeout:    timeout,
	}
}

// Submit queues a task. It panics when called after Wait.
func (p *Pool[T]) Submit(name string, work func(ctx context.Context) (T, error)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waited {
		panic("worker: Submit called after Wait")
	}
	p.tasks = append(p.tasks, Task[T]{Name: name, Work: work})
}

// Len returns the number of submitted tasks.
func (p *Pool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// Wait starts every submitted task and blocks until all of them resolved.
// Tasks that could not start before ctx was cancelled resolve with ctx.Err().
func (p *Pool[T]) Wait(ctx context.Context) []Result[T] {
	p.mu.Lock()
	if p.waited {
		p.mu.Unlock()
		panic("worker: Wait called twice")
	}
	p.waited = true
	tasks := p.tasks
	p.mu.Unlock()

	results := make([]Result[T], len(tasks))
	sem := semaphore.NewWeighted(int64(p.maxWorkers))

	var wg sync.WaitGroup
	for i, task := range tasks {
		results[i].Name = task.Name

		// Acquire in submission order so that a limit of one runs tasks in sequence.
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i].Err = err
			continue
		}

		wg.Add(1)
		go func(i int, task Task[T]) {
			defer wg.Done()
			defer sem.Release(1)
			start := time.Now()
			results[i].Value, results[i].Err = p.run(ctx, task)
			results[i].Elapsed = time.Since(start)
		}(i, task)
	}
	wg.Wait()

	return results
}

func (p *Pool[T]) run(ctx context.Context, task Task[T]) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		var out outcome
		defer func() {
			if r := recover(); r != nil {
				out.err = fmt.Errorf("%w: %s: %v", ErrTaskPanic, task.Name, r)
			}
			done <- out
		}()
		out.value, out.err = task.Work(ctx)
	}()

	select {
	case out := <-done:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, fmt.Errorf("%w after %s: %s", ErrTaskTimeout, p.timeout, task.Name)
		}
		return zero, ctx.Err()
	}
}
