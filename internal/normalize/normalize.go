// Package normalize converts raw Dialogflow parameter values into the
// canonical forms the task store expects. Every function is total: bad
// input falls back to a documented default, never an error.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tugasbot/internal/models"
)

// Intent trims and lower-cases an intent display name. An absent name
// becomes the empty string, which matches no known intent.
func Intent(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// DisplayString stringifies an arbitrary parameter value, falling back
// when the value is absent. Dialogflow delivers numbers as float64, so
// whole numbers render without a trailing ".0".
func DisplayString(v any, fallback string) string {
	switch t := v.(type) {
	case nil:
		return fallback
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// DateOnly extracts the leading "YYYY-MM-DD" from a @sys.date token,
// which often arrives as "2025-11-21T00:00:00+07:00". Tokens that do not
// form a valid calendar date are treated as absent.
func DateOnly(raw string) string {
	if raw == "" {
		return ""
	}
	d, _, _ := strings.Cut(raw, "T")
	if _, err := time.Parse(time.DateOnly, d); err != nil {
		return ""
	}
	return d
}

var timePattern = regexp.MustCompile(`\d{2}:\d{2}(:\d{2})?`)

// TimeOnly extracts the first "HH:MM" or "HH:MM:SS" substring from a
// @sys.time token and pads the short form to "HH:MM:SS".
func TimeOnly(raw string) string {
	t := timePattern.FindString(raw)
	if t == "" {
		return ""
	}
	if len(t) == len("HH:MM") {
		t += ":00"
	}
	return t
}

// DueTimestamp combines raw date and time tokens into a sortable
// "YYYY-MM-DD HH:MM:SS". A missing date means today; a missing time
// means end of day.
func DueTimestamp(rawDate, rawTime string) string {
	d := DateOnly(rawDate)
	if d == "" {
		d = time.Now().Format(time.DateOnly)
	}
	t := TimeOnly(rawTime)
	if t == "" {
		t = "23:59:00"
	}
	return d + " " + t
}

var prioritySynonyms = map[string]string{
	"rendah": models.PriorityLow,
	"low":    models.PriorityLow,
	"sedang": models.PriorityMedium,
	"medium": models.PriorityMedium,
	"tinggi": models.PriorityHigh,
	"high":   models.PriorityHigh,
	"urgent": models.PriorityHigh,
}

// Priority maps a raw priority synonym onto the closed enum,
// defaulting to medium.
func Priority(raw string) string {
	if p, ok := prioritySynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return p
	}
	return models.PriorityMedium
}

var statusSynonyms = map[string]string{
	"todo":        models.StatusTodo,
	"to do":       models.StatusTodo,
	"belum":       models.StatusTodo,
	"in progress": models.StatusInProgress,
	"progres":     models.StatusInProgress,
	"proses":      models.StatusInProgress,
	"in_progress": models.StatusInProgress,
	"done":        models.StatusDone,
	"selesai":     models.StatusDone,
	"beres":       models.StatusDone,
}

// Status maps a raw status synonym onto the closed enum,
// defaulting to todo.
func Status(raw string) string {
	if s, ok := statusSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return models.StatusTodo
}
