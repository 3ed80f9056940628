package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/arathikrishnaam/dueDash/cmd/identity"
	"github.com/arathikrishnaam/dueDash/cmd/internal/apperr"
	"github.com/arathikrishnaam/dueDash/cmd/internal/task"
)

var errDueTimeFormat = errors.New("invalid due_time")

// Zone-less layouts are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

func parseDueTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errDueTimeFormat
}

// dueTime accepts RFC 3339 or a zone-less YYYY-MM-DDTHH:MM[:SS].
type dueTime time.Time

func (d *dueTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errDueTimeFormat
	}
	t, err := parseDueTime(s)
	if err != nil {
		return err
	}
	*d = dueTime(t)
	return nil
}

func (d *dueTime) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

// optional tells an absent member apart from an explicit null.
type optional[T any] struct {
	Set   bool
	Value *T
}

func (o *optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	DueTime     *dueTime `json:"due_time"`
}

func (req createTaskRequest) newTask() task.NewTask {
	return task.NewTask{
		Title:       req.Title,
		Description: req.Description,
		DueTime:     req.DueTime.ptr(),
	}
}

type updateTaskRequest struct {
	Title       optional[string]  `json:"title"`
	Description optional[string]  `json:"description"`
	DueTime     optional[dueTime] `json:"due_time"`
	Completed   optional[bool]    `json:"completed"`
}

// patch converts the request. Null clears description and due_time; it is
// rejected for title and completed, which are not nullable.
func (req updateTaskRequest) patch() (task.Patch, error) {
	var p task.Patch
	if req.Title.Set {
		if req.Title.Value == nil {
			return task.Patch{}, apperr.Invalid("title", "must not be null")
		}
		p.Title = req.Title.Value
	}
	if req.Description.Set {
		p.Description = req.Description.Value
		p.ClearDescription = req.Description.Value == nil
	}
	if req.DueTime.Set {
		p.DueTime = req.DueTime.Value.ptr()
		p.ClearDueTime = req.DueTime.Value == nil
	}
	if req.Completed.Set {
		if req.Completed.Value == nil {
			return task.Patch{}, apperr.Invalid("completed", "must not be null")
		}
		p.Completed = req.Completed.Value
	}
	return p, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

type signupResponse struct {
	Message  string `json:"message"`
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func toSignupResponse(u identity.User) signupResponse {
	return signupResponse{Message: "User created successfully", ID: u.ID, Username: u.Username}
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type taskResponse struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	DueTime     *time.Time    `json:"due_time"`
	Completed   bool          `json:"completed"`
	Status      task.Category `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func toTaskResponse(t task.Task, status task.Category) taskResponse {
	return taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		DueTime:     t.DueTime,
		Completed:   t.Completed,
		Status:      status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// toTaskResponses renders ts, deriving each status at now.
func toTaskResponses(ts []task.Task, now time.Time) []taskResponse {
	out := make([]taskResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTaskResponse(t, task.Categorize(t, now)))
	}
	return out
}

type summaryResponse struct {
	Completed []taskResponse `json:"completed"`
	Pending   []taskResponse `json:"pending"`
	Overdue   []taskResponse `json:"overdue"`
}
