package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskpulse/internal/client/api"
	"taskpulse/internal/domain"
)

type fakeAPI struct {
	tasks []domain.Task

	failUpdate bool
	failDelete bool
	failCreate bool

	lastStatus  domain.TaskStatus
	updateCalls int

	createDeadline bool
	nextID         int64
}

var errRemote = errors.New("remote failure")

func (f *fakeAPI) ListTasks(context.Context) ([]domain.Task, error) {
	out := make([]domain.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, req api.CreateTaskRequest) (domain.Task, error) {
	if _, ok := ctx.Deadline(); ok {
		f.createDeadline = true
	}
	if f.failCreate {
		return domain.Task{}, errRemote
	}
	f.nextID++
	return domain.Task{ID: f.nextID, Title: req.Title, Status: domain.StatusPending}, nil
}

func (f *fakeAPI) UpdateTaskStatus(_ context.Context, id int64, status domain.TaskStatus) (domain.Task, error) {
	f.updateCalls++
	f.lastStatus = status
	if f.failUpdate {
		return domain.Task{}, errRemote
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks[i].Status = status
			return f.tasks[i], nil
		}
	}
	return domain.Task{}, domain.ErrNotFound
}

func (f *fakeAPI) DeleteTask(_ context.Context, id int64) error {
	if f.failDelete {
		return errRemote
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(message string) {
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) lastMessage() string {
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

func newTestEngine(t *testing.T, tasks ...domain.Task) (*Engine, *fakeAPI, *recordingNotifier) {
	t.Helper()

	f := &fakeAPI{tasks: tasks}
	n := &recordingNotifier{}
	e := NewEngine(f, n)
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return e, f, n
}

func task(id int64, status domain.TaskStatus) domain.Task {
	return domain.Task{
		ID:        id,
		Title:     "task",
		Duration:  30,
		Energy:    domain.EnergyMedium,
		Status:    status,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestToggleCyclesThroughAllStates(t *testing.T) {
	e, _, _ := newTestEngine(t, task(1, domain.StatusPending))

	want := []domain.TaskStatus{
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusPending,
		domain.StatusInProgress,
	}
	for _, expected := range want {
		if err := e.Toggle(context.Background(), 1); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if got := e.Tasks()[0].Status; got != expected {
			t.Fatalf("status: got %s, want %s", got, expected)
		}
	}
}

func TestToggleFailureRestoresExactSnapshot(t *testing.T) {
	original := task(1, domain.StatusInProgress)
	e, f, n := newTestEngine(t, original)
	f.failUpdate = true

	err := e.Toggle(context.Background(), 1)
	if !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if got := e.Tasks()[0]; got != original {
		t.Fatalf("snapshot not restored: %+v", got)
	}
	if n.lastMessage() != "Could not update task" {
		t.Fatalf("notice: %q", n.lastMessage())
	}
}

func TestToggleUnknownTask(t *testing.T) {
	e, f, _ := newTestEngine(t, task(1, domain.StatusPending))

	if err := e.Toggle(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if f.updateCalls != 0 {
		t.Fatalf("remote call made for unknown task")
	}
}

func TestUndoRestoresRememberedStatusOnce(t *testing.T) {
	e, _, n := newTestEngine(t, task(1, domain.StatusPending))

	if err := e.Toggle(context.Background(), 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := e.Undo(context.Background(), 1); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := e.Tasks()[0].Status; got != domain.StatusPending {
		t.Fatalf("status after undo: %s", got)
	}
	if n.lastMessage() != "Undone" {
		t.Fatalf("notice: %q", n.lastMessage())
	}

	// Slot consumed: a second undo synthesizes backward from PENDING, which
	// is a no-op.
	if err := e.Undo(context.Background(), 1); err != nil {
		t.Fatalf("second undo: %v", err)
	}
	if got := e.Tasks()[0].Status; got != domain.StatusPending {
		t.Fatalf("status after second undo: %s", got)
	}
}

func TestUndoSynthesizesBackwardStep(t *testing.T) {
	e, f, _ := newTestEngine(t, task(1, domain.StatusCompleted))

	if err := e.Undo(context.Background(), 1); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if f.lastStatus != domain.StatusInProgress {
		t.Fatalf("synthesized target: %s", f.lastStatus)
	}
	if got := e.Tasks()[0].Status; got != domain.StatusInProgress {
		t.Fatalf("status: %s", got)
	}
}

func TestUndoFailureKeepsSlot(t *testing.T) {
	e, f, _ := newTestEngine(t, task(1, domain.StatusPending))

	if err := e.Toggle(context.Background(), 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	f.failUpdate = true
	if err := e.Undo(context.Background(), 1); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if got := e.Tasks()[0].Status; got != domain.StatusInProgress {
		t.Fatalf("status after failed undo: %s", got)
	}

	// Slot survives the failure; the retry still targets the remembered
	// status.
	f.failUpdate = false
	if err := e.Undo(context.Background(), 1); err != nil {
		t.Fatalf("retry undo: %v", err)
	}
	if got := e.Tasks()[0].Status; got != domain.StatusPending {
		t.Fatalf("status after retried undo: %s", got)
	}
}

func TestSecondToggleOverwritesUndoSlot(t *testing.T) {
	e, _, _ := newTestEngine(t, task(1, domain.StatusPending))

	if err := e.Toggle(context.Background(), 1); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if err := e.Toggle(context.Background(), 1); err != nil {
		t.Fatalf("second toggle: %v", err)
	}

	// Undo goes back one step only, to the status before the second toggle.
	if err := e.Undo(context.Background(), 1); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if got := e.Tasks()[0].Status; got != domain.StatusInProgress {
		t.Fatalf("status after undo: %s", got)
	}
}

func TestDeleteOptimisticRemoval(t *testing.T) {
	e, _, n := newTestEngine(t, task(2, domain.StatusPending), task(1, domain.StatusPending))

	if err := e.Delete(context.Background(), 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks := e.Tasks()
	if len(tasks) != 1 || tasks[0].ID != 1 {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
	if n.lastMessage() != "Deleted" {
		t.Fatalf("notice: %q", n.lastMessage())
	}
}

func TestDeleteFailureReinsertsAtOriginalPosition(t *testing.T) {
	e, f, n := newTestEngine(t,
		task(3, domain.StatusPending),
		task(2, domain.StatusInProgress),
		task(1, domain.StatusCompleted),
	)
	f.failDelete = true

	if err := e.Delete(context.Background(), 2); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}

	tasks := e.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("task count after rollback: %d", len(tasks))
	}
	if tasks[1].ID != 2 || tasks[1].Status != domain.StatusInProgress {
		t.Fatalf("task not reinserted in place: %+v", tasks)
	}
	if n.lastMessage() != "Could not delete task" {
		t.Fatalf("notice: %q", n.lastMessage())
	}
}

func TestCreatePrependsAndBoundsCall(t *testing.T) {
	e, f, n := newTestEngine(t, task(1, domain.StatusPending))

	created, err := e.Create(context.Background(), api.CreateTaskRequest{Title: "new"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !f.createDeadline {
		t.Fatalf("create call had no deadline")
	}

	tasks := e.Tasks()
	if tasks[0].ID != created.ID || tasks[0].Title != "new" {
		t.Fatalf("created task not prepended: %+v", tasks)
	}
	if n.lastMessage() != "Task created" {
		t.Fatalf("notice: %q", n.lastMessage())
	}
}

func TestCreateFailureLeavesListUnchanged(t *testing.T) {
	e, f, n := newTestEngine(t, task(1, domain.StatusPending))
	f.failCreate = true

	if _, err := e.Create(context.Background(), api.CreateTaskRequest{Title: "new"}); !errors.Is(err, errRemote) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if len(e.Tasks()) != 1 {
		t.Fatalf("list changed on failed create")
	}
	if n.lastMessage() != "Could not create task" {
		t.Fatalf("notice: %q", n.lastMessage())
	}
}

func TestRefreshDropsHistoryForRemovedTasks(t *testing.T) {
	e, f, _ := newTestEngine(t, task(1, domain.StatusPending))

	if err := e.Toggle(context.Background(), 1); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	f.tasks = nil
	if err := e.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(e.Tasks()) != 0 {
		t.Fatalf("tasks not replaced")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.last) != 0 {
		t.Fatalf("undo history kept for removed task")
	}
}
