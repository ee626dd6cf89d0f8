package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/gcalendar"
	pkgLog "github.com/ayushchhipa1509/OCI-COPILOT/pkg/log"
)

// eventCreator is the slice of the calendar client the recorder needs.
type eventCreator interface {
	CreateEvent(ctx context.Context, req gcalendar.CreateEventRequest) (*gcalendar.Event, error)
}

// calendarRecorder writes every destructive step onto a shared change
// calendar so operators can correlate incidents with copilot activity.
type calendarRecorder struct {
	calendar   eventCreator
	calendarID string
	timezone   string
	l          pkgLog.Logger
}

var _ Recorder = (*calendarRecorder)(nil)

// NewCalendarRecorder creates a change recorder backed by Google
// Calendar. calendarID defaults to "primary".
func NewCalendarRecorder(calendar eventCreator, calendarID, timezone string, l pkgLog.Logger) Recorder {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &calendarRecorder{
		calendar:   calendar,
		calendarID: calendarID,
		timezone:   timezone,
		l:          l,
	}
}

func (r *calendarRecorder) RecordChange(ctx context.Context, step model.Step, result model.StepResult) {
	now := time.Now()

	description := fmt.Sprintf("status: %s", result.Status)
	if result.Error != nil {
		description += fmt.Sprintf(" (%s: %s)", result.Error.Kind, result.Error.Message)
	}
	if params, err := json.Marshal(step.Params); err == nil {
		description += "\nparams: " + string(params)
	}

	_, err := r.calendar.CreateEvent(ctx, gcalendar.CreateEventRequest{
		CalendarID:  r.calendarID,
		Summary:     fmt.Sprintf("[oci-copilot] %s on %s", step.Action, step.Service),
		Description: description,
		StartTime:   now,
		EndTime:     now.Add(30 * time.Minute),
		Timezone:    r.timezone,
	})
	if err != nil {
		r.l.Warnf(ctx, "%s: change calendar write failed: %v", LogPrefixRecord, err)
	}
}
