// Package sync keeps a local copy of the task list in step with the server
// using optimistic updates: every mutation lands locally first, then the
// remote call either confirms it or rolls it back to the exact prior state.
package sync

import (
	"context"
	"sync"
	"time"

	"taskpulse/internal/client/api"
	"taskpulse/internal/domain"
)

// API is the remote surface the engine drives. *api.Client satisfies it.
type API interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	CreateTask(ctx context.Context, req api.CreateTaskRequest) (domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// Notifier receives the transient user-facing notices ("Updated", "Could not
// update"). Implementations decide how long to show them.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(string)

func (f NotifierFunc) Notify(message string) { f(message) }

const createTimeout = 12 * time.Second

// Engine holds the local task list and one remembered prior status per task
// for undo. The slot is overwritten on every toggle; a second mutation before
// the first settles overwrites it silently.
type Engine struct {
	api      API
	notifier Notifier

	mu    sync.Mutex
	tasks []domain.Task
	last  map[int64]domain.TaskStatus
}

func NewEngine(apiClient API, notifier Notifier) *Engine {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	return &Engine{
		api:      apiClient,
		notifier: notifier,
		last:     make(map[int64]domain.TaskStatus),
	}
}

// Refresh replaces the local list with the server's. Undo history survives
// only for tasks still present.
func (e *Engine) Refresh(ctx context.Context) error {
	tasks, err := e.api.ListTasks(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tasks = tasks
	for id := range e.last {
		if e.indexLocked(id) < 0 {
			delete(e.last, id)
		}
	}
	return nil
}

// Tasks returns a copy of the local list, newest-first.
func (e *Engine) Tasks() []domain.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.Task, len(e.tasks))
	copy(out, e.tasks)
	return out
}

func (e *Engine) indexLocked(id int64) int {
	for i := range e.tasks {
		if e.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Toggle advances the task's status one step around the cycle
// PENDING, IN_PROGRESS, COMPLETED and back to PENDING. The prior status is
// remembered for Undo regardless of outcome; on remote failure the task is
// restored to its exact pre-toggle snapshot.
func (e *Engine) Toggle(ctx context.Context, id int64) error {
	e.mu.Lock()
	i := e.indexLocked(id)
	if i < 0 {
		e.mu.Unlock()
		return domain.ErrNotFound
	}
	snapshot := e.tasks[i]
	next := domain.NextStatus(snapshot.Status)
	e.tasks[i].Status = next
	e.last[id] = snapshot.Status
	e.mu.Unlock()

	updated, err := e.api.UpdateTaskStatus(ctx, id, next)

	e.mu.Lock()
	defer e.mu.Unlock()
	i = e.indexLocked(id)
	if err != nil {
		if i >= 0 {
			e.tasks[i] = snapshot
		}
		e.notifier.Notify("Could not update task")
		return err
	}
	if i >= 0 {
		e.tasks[i] = updated
	}
	e.notifier.Notify("Updated")
	return nil
}

// Undo restores the remembered prior status if one exists, otherwise
// synthesizes a single backward step. The remembered slot is consumed only
// when the remote call succeeds. Undoing to the current status is a no-op.
func (e *Engine) Undo(ctx context.Context, id int64) error {
	e.mu.Lock()
	i := e.indexLocked(id)
	if i < 0 {
		e.mu.Unlock()
		return domain.ErrNotFound
	}
	snapshot := e.tasks[i]

	target, remembered := e.last[id]
	if !remembered {
		target = domain.PrevStatus(snapshot.Status)
	}
	if target == snapshot.Status {
		e.mu.Unlock()
		return nil
	}
	e.tasks[i].Status = target
	e.mu.Unlock()

	updated, err := e.api.UpdateTaskStatus(ctx, id, target)

	e.mu.Lock()
	defer e.mu.Unlock()
	i = e.indexLocked(id)
	if err != nil {
		if i >= 0 {
			e.tasks[i] = snapshot
		}
		e.notifier.Notify("Could not undo")
		return err
	}
	if i >= 0 {
		e.tasks[i] = updated
	}
	delete(e.last, id)
	e.notifier.Notify("Undone")
	return nil
}

// Delete removes the task locally, then remotely. On failure the task is
// reinserted at its original position.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	e.mu.Lock()
	i := e.indexLocked(id)
	if i < 0 {
		e.mu.Unlock()
		return domain.ErrNotFound
	}
	snapshot := e.tasks[i]
	pos := i
	e.tasks = append(e.tasks[:i], e.tasks[i+1:]...)
	e.mu.Unlock()

	err := e.api.DeleteTask(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		if pos > len(e.tasks) {
			pos = len(e.tasks)
		}
		e.tasks = append(e.tasks[:pos], append([]domain.Task{snapshot}, e.tasks[pos:]...)...)
		e.notifier.Notify("Could not delete task")
		return err
	}
	delete(e.last, id)
	e.notifier.Notify("Deleted")
	return nil
}

// Create sends the new task to the server with a bounded timeout and prepends
// the confirmed task to the local list. Creation is not optimistic: there is
// no local id to show before the server assigns one.
func (e *Engine) Create(ctx context.Context, req api.CreateTaskRequest) (domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, createTimeout)
	defer cancel()

	t, err := e.api.CreateTask(ctx, req)
	if err != nil {
		e.notifier.Notify("Could not create task")
		return domain.Task{}, err
	}

	e.mu.Lock()
	e.tasks = append([]domain.Task{t}, e.tasks...)
	e.mu.Unlock()

	e.notifier.Notify("Task created")
	return t, nil
}
