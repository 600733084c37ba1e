package services

import (
	"context"

	"tugasbot/internal/models"
)

// TaskGateway executes parameterized statements against the task store.
// Implementations must never interpolate caller values into SQL text.
type TaskGateway interface {
	// CreateTask inserts one task, minting its ID.
	CreateTask(ctx context.Context, task *models.Task) error

	// TasksByCourse returns the user's unfinished tasks for a course,
	// matched case-insensitively on the lower-cased course name,
	// ordered by due timestamp ascending.
	TasksByCourse(ctx context.Context, userID, course string) ([]models.Task, error)

	// TasksByDueDate returns the user's unfinished tasks due within the
	// given "YYYY-MM-DD" day, ordered by due timestamp ascending.
	TasksByDueDate(ctx context.Context, userID, date string) ([]models.Task, error)

	// SetStatusByTitle updates the status of every task matching the
	// lower-cased title and reports how many rows changed.
	SetStatusByTitle(ctx context.Context, userID, title, status string) (int64, error)
}

// IntentDispatcher turns one decoded webhook request into a reply.
type IntentDispatcher interface {
	Dispatch(ctx context.Context, rawIntent string, params map[string]any) Reply
}

// Outcome classifies a reply so tests and logs can tell branches apart
// without parsing reply text. The platform still always sees HTTP 200.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeValidationGap means a required parameter was missing and
	// the reply asks the user for it. No query was run.
	OutcomeValidationGap
	// OutcomeNotFound means an update matched no rows.
	OutcomeNotFound
	// OutcomeUnhandled means the intent matched no known alias.
	OutcomeUnhandled
	// OutcomeStoreFailure means the gateway errored; the reply is the
	// generic server-error text.
	OutcomeStoreFailure
)

type Reply struct {
	Outcome Outcome
	Text    string
}

// ServerErrorText is the uniform reply for store failures. The caller
// never sees error detail; operators get it from the logs.
const ServerErrorText = "Terjadi error di server, silakan coba lagi nanti."
