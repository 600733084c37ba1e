package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tugasbot/internal/models"
	"tugasbot/internal/normalize"
)

type dispatcherImpl struct {
	logger zerolog.Logger
	tasks  TaskGateway
	userID string
}

func NewDispatcher(
	logger zerolog.Logger,
	tasks TaskGateway,
	userID string,
) IntentDispatcher {
	return &dispatcherImpl{
		logger: logger,
		tasks:  tasks,
		userID: userID,
	}
}

// Dispatch selects one of the five intent branches by exact alias
// match on the normalized intent name.
func (d *dispatcherImpl) Dispatch(ctx context.Context, rawIntent string, params map[string]any) Reply {
	intent := normalize.Intent(rawIntent)

	switch intent {
	case "add_task", "tambah_tugas", "tambah tugas":
		return d.addTask(ctx, params)
	case "list_tasks_by_course", "course", "tugas_per_mata_kuliah":
		return d.listByCourse(ctx, params)
	case "list_tasks_by_date", "tugas_per_tanggal", "tugas_hari_ini":
		return d.listByDate(ctx, params)
	case "update_status", "ubah_status_tugas", "ubah status tugas":
		return d.updateStatus(ctx, params)
	default:
		d.logger.Warn().
			Str("intent", intent).
			Msg("unhandled intent")
		return Reply{
			Outcome: OutcomeUnhandled,
			Text:    "Webhook sudah menerima pesan, tapi intent ini belum di-handle di server.",
		}
	}
}

func (d *dispatcherImpl) addTask(ctx context.Context, params map[string]any) Reply {
	title := strings.TrimSpace(normalize.DisplayString(params["title"], "Tanpa judul"))
	course := strings.TrimSpace(normalize.DisplayString(params["course"], "Umum"))
	dueAt := normalize.DueTimestamp(
		normalize.DisplayString(params["due_date"], ""),
		normalize.DisplayString(params["due_time"], ""),
	)
	priority := normalize.Priority(normalize.DisplayString(params["priority"], ""))

	task := models.Task{
		UserID:   d.userID,
		Title:    title,
		Course:   course,
		DueAt:    dueAt,
		Priority: priority,
		Status:   models.StatusTodo,
	}

	err := d.tasks.CreateTask(ctx, &task)
	if err != nil {
		return d.storeFailure(err, "failed to insert task")
	}
	d.logger.Info().
		Str("task_id", task.ID).
		Str("title", title).
		Str("priority", priority).
		Msg("created task")

	return Reply{
		Outcome: OutcomeSuccess,
		Text: fmt.Sprintf(
			"Siap! Tugas %q untuk %s sudah disimpan dengan deadline %s.",
			title, course, dueAt,
		),
	}
}

func (d *dispatcherImpl) listByCourse(ctx context.Context, params map[string]any) Reply {
	course := strings.TrimSpace(normalize.DisplayString(params["course"], ""))
	if course == "" {
		return Reply{
			Outcome: OutcomeValidationGap,
			Text:    "Mata kuliahnya apa? Misalnya: Kalkulus, Fisika Dasar, dst.",
		}
	}

	tasks, err := d.tasks.TasksByCourse(ctx, d.userID, strings.ToLower(course))
	if err != nil {
		return d.storeFailure(err, "failed to select tasks by course")
	}

	if len(tasks) == 0 {
		return Reply{
			Outcome: OutcomeSuccess,
			Text: fmt.Sprintf(
				"Belum ada tugas (atau semua sudah selesai) untuk mata kuliah %s.",
				course,
			),
		}
	}
	d.logger.Debug().
		Int("count", len(tasks)).
		Str("course", course).
		Msg("selected tasks by course")

	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = fmt.Sprintf(
			"• %s — %s (prioritas: %s, status: %s)",
			t.Title, t.DueAt, t.Priority, t.Status,
		)
	}

	return Reply{
		Outcome: OutcomeSuccess,
		Text: fmt.Sprintf(
			"Tugas %s yang belum selesai:\n%s",
			course, strings.Join(lines, "\n"),
		),
	}
}

func (d *dispatcherImpl) listByDate(ctx context.Context, params map[string]any) Reply {
	raw := params["date"]
	if raw == nil {
		raw = params["due_date"]
	}
	date := normalize.DateOnly(normalize.DisplayString(raw, ""))
	if date == "" {
		date = time.Now().Format(time.DateOnly)
	}

	tasks, err := d.tasks.TasksByDueDate(ctx, d.userID, date)
	if err != nil {
		return d.storeFailure(err, "failed to select tasks by date")
	}

	if len(tasks) == 0 {
		return Reply{
			Outcome: OutcomeSuccess,
			Text:    fmt.Sprintf("Tidak ada tugas yang belum selesai pada tanggal %s.", date),
		}
	}
	d.logger.Debug().
		Int("count", len(tasks)).
		Str("date", date).
		Msg("selected tasks by date")

	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = fmt.Sprintf(
			"• %s [%s] — %s (prioritas: %s)",
			t.Title, t.Course, t.DueAt, t.Priority,
		)
	}

	return Reply{
		Outcome: OutcomeSuccess,
		Text: fmt.Sprintf(
			"Tugas yang belum selesai pada %s:\n%s",
			date, strings.Join(lines, "\n"),
		),
	}
}

func (d *dispatcherImpl) updateStatus(ctx context.Context, params map[string]any) Reply {
	title := strings.TrimSpace(normalize.DisplayString(params["title"], ""))
	if title == "" {
		return Reply{
			Outcome: OutcomeValidationGap,
			Text:    "Tolong sebutkan judul tugas yang ingin diubah statusnya, misalnya: laporan praktikum.",
		}
	}

	status := normalize.Status(normalize.DisplayString(params["status"], ""))

	affected, err := d.tasks.SetStatusByTitle(ctx, d.userID, strings.ToLower(title), status)
	if err != nil {
		return d.storeFailure(err, "failed to update task status")
	}

	if affected == 0 {
		d.logger.Info().
			Str("title", title).
			Msg("task not found")
		return Reply{
			Outcome: OutcomeNotFound,
			Text:    fmt.Sprintf("Tugas dengan judul %q tidak ditemukan di database.", title),
		}
	}
	d.logger.Info().
		Str("title", title).
		Str("status", status).
		Int64("affected", affected).
		Msg("updated task status")

	return Reply{
		Outcome: OutcomeSuccess,
		Text:    fmt.Sprintf("Status tugas %q sudah diubah menjadi %s.", title, status),
	}
}

func (d *dispatcherImpl) storeFailure(err error, msg string) Reply {
	d.logger.Error().
		Err(err).
		Msg(msg)
	return Reply{
		Outcome: OutcomeStoreFailure,
		Text:    ServerErrorText,
	}
}
