package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tugasbot/internal/models"
)

// fakeGateway is an in-memory TaskGateway mirroring the store's
// contract: lower-cased matching, done exclusion, due_at ordering.
type fakeGateway struct {
	tasks   []models.Task
	failErr error
	queries int
}

func (f *fakeGateway) CreateTask(_ context.Context, task *models.Task) error {
	if f.failErr != nil {
		return f.failErr
	}
	task.ID = "task-1"
	f.tasks = append(f.tasks, *task)
	return nil
}

func (f *fakeGateway) TasksByCourse(_ context.Context, userID, course string) ([]models.Task, error) {
	f.queries++
	if f.failErr != nil {
		return nil, f.failErr
	}
	var out []models.Task
	for _, t := range f.tasks {
		if t.UserID == userID &&
			strings.ToLower(t.Course) == course &&
			t.Status != models.StatusDone {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt < out[j].DueAt })
	return out, nil
}

func (f *fakeGateway) TasksByDueDate(_ context.Context, userID, date string) ([]models.Task, error) {
	f.queries++
	if f.failErr != nil {
		return nil, f.failErr
	}
	var out []models.Task
	for _, t := range f.tasks {
		if t.UserID == userID &&
			strings.HasPrefix(t.DueAt, date) &&
			t.Status != models.StatusDone {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt < out[j].DueAt })
	return out, nil
}

func (f *fakeGateway) SetStatusByTitle(_ context.Context, userID, title, status string) (int64, error) {
	f.queries++
	if f.failErr != nil {
		return 0, f.failErr
	}
	var affected int64
	for i, t := range f.tasks {
		if t.UserID == userID && strings.ToLower(t.Title) == title {
			f.tasks[i].Status = status
			affected++
		}
	}
	return affected, nil
}

func newTestDispatcher(gw TaskGateway) IntentDispatcher {
	return NewDispatcher(zerolog.Nop(), gw, "demo")
}

func TestDispatch_AddTask_NormalizesAndInserts(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "add_task", map[string]any{
		"title":    "Laporan Praktikum",
		"course":   "Fisika",
		"due_date": "2025-11-21",
		"priority": "tinggi",
	})

	if reply.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", reply.Outcome)
	}
	if len(gw.tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(gw.tasks))
	}
	task := gw.tasks[0]
	if task.Priority != models.PriorityHigh {
		t.Errorf("priority = %q, want high", task.Priority)
	}
	if task.DueAt != "2025-11-21 23:59:00" {
		t.Errorf("due_at = %q, want %q", task.DueAt, "2025-11-21 23:59:00")
	}
	if task.Status != models.StatusTodo {
		t.Errorf("status = %q, want todo", task.Status)
	}
	for _, want := range []string{"Laporan Praktikum", "Fisika", "2025-11-21 23:59:00"} {
		if !strings.Contains(reply.Text, want) {
			t.Errorf("reply %q does not mention %q", reply.Text, want)
		}
	}
}

func TestDispatch_AddTask_DefaultsPlaceholders(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "tambah_tugas", map[string]any{})

	if reply.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", reply.Outcome)
	}
	task := gw.tasks[0]
	if task.Title != "Tanpa judul" {
		t.Errorf("title = %q, want placeholder", task.Title)
	}
	if task.Course != "Umum" {
		t.Errorf("course = %q, want placeholder", task.Course)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	today := time.Now().Format(time.DateOnly)
	if task.DueAt != today+" 23:59:00" {
		t.Errorf("due_at = %q, want end of today", task.DueAt)
	}
}

func TestDispatch_ListByCourse_MissingCourseAsksWithoutQuerying(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "list_tasks_by_course", map[string]any{})

	if reply.Outcome != OutcomeValidationGap {
		t.Fatalf("outcome = %v, want validation gap", reply.Outcome)
	}
	if gw.queries != 0 {
		t.Errorf("gateway queried %d times, want 0", gw.queries)
	}
}

func TestDispatch_ListByCourse_MatchesCaseInsensitively(t *testing.T) {
	gw := &fakeGateway{tasks: []models.Task{
		{UserID: "demo", Title: "Laporan", Course: "Fisika", DueAt: "2025-11-21 23:59", Priority: "high", Status: "todo"},
	}}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "list_tasks_by_course", map[string]any{
		"course": "FISIKA",
	})

	if reply.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", reply.Outcome)
	}
	if !strings.Contains(reply.Text, "Laporan") {
		t.Errorf("reply %q does not list the task", reply.Text)
	}
}

func TestDispatch_ListByCourse_EmptyResultMessage(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "course", map[string]any{
		"course": "Kalkulus",
	})

	if reply.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", reply.Outcome)
	}
	if !strings.Contains(reply.Text, "Kalkulus") {
		t.Errorf("reply %q does not name the course", reply.Text)
	}
}

func TestDispatch_ListByCourse_ExcludesDoneTasks(t *testing.T) {
	gw := &fakeGateway{tasks: []models.Task{
		{UserID: "demo", Title: "Selesai", Course: "Fisika", DueAt: "2025-11-20 10:00", Status: models.StatusDone},
		{UserID: "demo", Title: "Berjalan", Course: "Fisika", DueAt: "2025-11-21 10:00", Status: models.StatusTodo},
	}}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "list_tasks_by_course", map[string]any{
		"course": "Fisika",
	})

	if strings.Contains(reply.Text, "Selesai") {
		t.Errorf("reply %q lists a done task", reply.Text)
	}
	if !strings.Contains(reply.Text, "Berjalan") {
		t.Errorf("reply %q misses the open task", reply.Text)
	}
}

func TestDispatch_ListByDate_DefaultsToToday(t *testing.T) {
	today := time.Now().Format(time.DateOnly)
	gw := &fakeGateway{}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "tugas_hari_ini", map[string]any{})

	if reply.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", reply.Outcome)
	}
	if !strings.Contains(reply.Text, today) {
		t.Errorf("reply %q does not mention today %q", reply.Text, today)
	}
}

func TestDispatch_ListByDate_AcceptsDueDateParam(t *testing.T) {
	gw := &fakeGateway{tasks: []models.Task{
		{UserID: "demo", Title: "Laporan", Course: "Fisika", DueAt: "2025-11-21 19:30", Status: models.StatusTodo},
	}}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "list_tasks_by_date", map[string]any{
		"due_date": "2025-11-21T00:00:00+07:00",
	})

	if !strings.Contains(reply.Text, "Laporan") {
		t.Errorf("reply %q does not list the task", reply.Text)
	}
	if !strings.Contains(reply.Text, "2025-11-21") {
		t.Errorf("reply %q does not mention the date", reply.Text)
	}
}

func TestDispatch_UpdateStatus_MissingTitleAsksWithoutQuerying(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "update_status", map[string]any{})

	if reply.Outcome != OutcomeValidationGap {
		t.Fatalf("outcome = %v, want validation gap", reply.Outcome)
	}
	if gw.queries != 0 {
		t.Errorf("gateway queried %d times, want 0", gw.queries)
	}
}

func TestDispatch_UpdateStatus_MatchesTitleCaseInsensitively(t *testing.T) {
	gw := &fakeGateway{tasks: []models.Task{
		{UserID: "demo", Title: "Laporan Praktikum", Course: "Fisika", Status: models.StatusTodo},
	}}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "update_status", map[string]any{
		"title":  "laporan praktikum",
		"status": "selesai",
	})

	if reply.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", reply.Outcome)
	}
	if gw.tasks[0].Status != models.StatusDone {
		t.Errorf("status = %q, want done", gw.tasks[0].Status)
	}
	if !strings.Contains(reply.Text, "done") {
		t.Errorf("reply %q does not confirm the new status", reply.Text)
	}
}

func TestDispatch_UpdateStatus_NotFound(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "ubah_status_tugas", map[string]any{
		"title": "Tidak Ada",
	})

	if reply.Outcome != OutcomeNotFound {
		t.Fatalf("outcome = %v, want not found", reply.Outcome)
	}
	if !strings.Contains(reply.Text, "Tidak Ada") {
		t.Errorf("reply %q does not name the missing task", reply.Text)
	}
}

func TestDispatch_UpdateStatus_DefaultsToTodo(t *testing.T) {
	gw := &fakeGateway{tasks: []models.Task{
		{UserID: "demo", Title: "Laporan", Status: models.StatusDone},
	}}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "update_status", map[string]any{
		"title": "Laporan",
	})

	if reply.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", reply.Outcome)
	}
	if gw.tasks[0].Status != models.StatusTodo {
		t.Errorf("status = %q, want todo", gw.tasks[0].Status)
	}
}

func TestDispatch_UnknownIntent(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "foo", map[string]any{})

	if reply.Outcome != OutcomeUnhandled {
		t.Fatalf("outcome = %v, want unhandled", reply.Outcome)
	}
	if gw.queries != 0 || len(gw.tasks) != 0 {
		t.Error("unknown intent touched the store")
	}
}

func TestDispatch_StoreFailureCollapsesToGenericReply(t *testing.T) {
	gw := &fakeGateway{failErr: errors.New("connection refused")}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "add_task", map[string]any{
		"title": "Laporan",
	})

	if reply.Outcome != OutcomeStoreFailure {
		t.Fatalf("outcome = %v, want store failure", reply.Outcome)
	}
	if reply.Text != ServerErrorText {
		t.Errorf("reply = %q, want generic server error", reply.Text)
	}
	if strings.Contains(reply.Text, "connection refused") {
		t.Errorf("reply %q leaks error detail", reply.Text)
	}
}

func TestDispatch_IntentNameNormalizedBeforeMatch(t *testing.T) {
	gw := &fakeGateway{}
	d := newTestDispatcher(gw)

	reply := d.Dispatch(context.Background(), "  Tambah Tugas ", map[string]any{
		"title": "Laporan",
	})

	if reply.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, want success", reply.Outcome)
	}
	if len(gw.tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(gw.tasks))
	}
}
