package repository

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"tugasbot/internal/models"
)

// TaskRepository is the pgx-backed task gateway. All statements are
// built with positional binds; no caller value ever reaches SQL text.
type TaskRepository struct {
	logger  zerolog.Logger
	pool    *pgxpool.Pool
	builder squirrel.StatementBuilderType
}

func NewTaskRepository(logger zerolog.Logger, pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		logger:  logger,
		pool:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *TaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	task.ID = uuid.NewString()

	query, args, err := r.builder.
		Insert("tasks").
		Columns("id", "user_id", "title", "course", "due_at", "priority", "status").
		Values(task.ID, task.UserID, task.Title, task.Course, task.DueAt, task.Priority, task.Status).
		ToSql()
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			r.logger.Error().
				Str("code", pgErr.Code).
				Str("constraint", pgErr.ConstraintName).
				Msg("task insert violated a constraint")
		} else {
			r.logger.Error().
				Err(err).
				Msg("failed to insert task")
		}
		return err
	}
	r.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	return nil
}

func (r *TaskRepository) TasksByCourse(ctx context.Context, userID, course string) ([]models.Task, error) {
	query, args, err := r.builder.
		Select(
			"title",
			"to_char(due_at, 'YYYY-MM-DD HH24:MI') AS due_at",
			"priority",
			"status",
		).
		From("tasks").
		Where(squirrel.Eq{"user_id": userID}).
		Where("LOWER(course) = ?", course).
		Where(squirrel.NotEq{"status": models.StatusDone}).
		OrderBy("due_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to select tasks by course")
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task := models.Task{UserID: userID, Course: course}
		err = rows.Scan(
			&task.Title,
			&task.DueAt,
			&task.Priority,
			&task.Status,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	return tasks, nil
}

func (r *TaskRepository) TasksByDueDate(ctx context.Context, userID, date string) ([]models.Task, error) {
	query, args, err := r.builder.
		Select(
			"title",
			"course",
			"to_char(due_at, 'YYYY-MM-DD HH24:MI') AS due_at",
			"priority",
			"status",
		).
		From("tasks").
		Where(squirrel.Eq{"user_id": userID}).
		Where("due_at BETWEEN ? AND ?", date+" 00:00:00", date+" 23:59:59").
		Where(squirrel.NotEq{"status": models.StatusDone}).
		OrderBy("due_at ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to select tasks by date")
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task := models.Task{UserID: userID}
		err = rows.Scan(
			&task.Title,
			&task.Course,
			&task.DueAt,
			&task.Priority,
			&task.Status,
		)
		if err != nil {
			r.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	return tasks, nil
}

func (r *TaskRepository) SetStatusByTitle(ctx context.Context, userID, title, status string) (int64, error) {
	query, args, err := r.builder.
		Update("tasks").
		Set("status", status).
		Where(squirrel.Eq{"user_id": userID}).
		Where("LOWER(title) = ?", title).
		ToSql()
	if err != nil {
		return 0, err
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to update task status")
		return 0, err
	}
	r.logger.Debug().
		Str("title", title).
		Str("status", status).
		Int64("affected", tag.RowsAffected()).
		Msg("updated task status")

	return tag.RowsAffected(), nil
}
