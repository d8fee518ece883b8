package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// TimestampLayout is the textual form of created_at and deleted_at.
// Lexical order matches chronological order.
const TimestampLayout = "2006-01-02 15:04:05"

var ErrNotBoolean = errors.New("value is not boolean-like")

type Todo struct {
	ID        int64   `json:"id" db:"id"`
	Title     string  `json:"title" db:"title"`
	Completed bool    `json:"completed" db:"completed"`
	CreatedAt string  `json:"created_at" db:"created_at"`
	DeletedAt *string `json:"deleted_at" db:"deleted_at"`
}

func (t *Todo) Deleted() bool {
	return t.DeletedAt != nil
}

func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// ParseCompleted accepts exactly true, false, 0, 1, "0" and "1".
func ParseCompleted(raw json.RawMessage) (bool, error) {
	switch string(bytes.TrimSpace(raw)) {
	case "true", "1", `"1"`:
		return true, nil
	case "false", "0", `"0"`:
		return false, nil
	default:
		return false, ErrNotBoolean
	}
}
