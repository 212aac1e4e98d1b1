// internal/app/features/tasks/types.go
package tasks

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/dalemusser/internportal/internal/app/services/workflow"
	"github.com/dalemusser/internportal/internal/app/system/apperr"
)

// dueDate accepts RFC 3339 timestamps as well as the zone-less forms
// browsers send from date and datetime-local inputs (read as UTC).
type dueDate struct {
	t *time.Time
}

var dueLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func (d *dueDate) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		d.t = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.t = nil
		return nil
	}
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			d.t = &t
			return nil
		}
	}
	return apperr.New(apperr.InvalidInput, "due_date must be a date or RFC 3339 timestamp.")
}

type taskRequest struct {
	InternshipID string  `json:"internship_id"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	DueDate      dueDate `json:"due_date"`
}

func (req taskRequest) input(forCreate bool) (workflow.TaskInput, error) {
	in := workflow.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate.t,
	}
	if forCreate {
		id, err := workflow.ParseID(req.InternshipID, "internship")
		if err != nil {
			return in, err
		}
		in.InternshipID = id
	}
	return in, nil
}

type assignRequest struct {
	InterneeID string `json:"internee_id"`
}
