package activity

import (
	"github.com/go-playground/validator/v10"

	"github.com/mergington/activities/core"
)

// Activity is an extracurricular activity students can sign up for.
// It is identified by its Name.
type Activity struct {
	Name            string          `json:"-"`
	Description     string          `json:"description"`
	Schedule        string          `json:"schedule"`
	ScheduleDetails ScheduleDetails `json:"schedule_details"`
	MaxParticipants int             `json:"max_participants"`
	Participants    []string        `json:"participants"`
}

type ScheduleDetails struct {
	Days      []string `json:"days"`
	StartTime string   `json:"start_time"` // HH:MM, 24-hour
	EndTime   string   `json:"end_time"`   // HH:MM, 24-hour
}

func (a Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// IsFull reports whether the activity reached MaxParticipants. A zero max means no limit.
func (a Activity) IsFull() bool {
	return a.MaxParticipants > 0 && len(a.Participants) >= a.MaxParticipants
}

func (a Activity) MeetsOn(day string) bool {
	for _, d := range a.ScheduleDetails.Days {
		if d == day {
			return true
		}
	}
	return false
}

// QueryFilter applies AND on the set fields. Times compare as HH:MM strings.
type QueryFilter struct {
	Day       string `query:"day" json:"day" validate:"omitempty,weekday"`
	StartTime string `query:"start_time" json:"start_time" validate:"omitempty,hhmm"` // starts at or after
	EndTime   string `query:"end_time" json:"end_time" validate:"omitempty,hhmm"`     // ends at or before
}

func (qf *QueryFilter) Clean() {
	qf.Day = core.CleanString(qf.Day)
	qf.StartTime = core.CleanString(qf.StartTime)
	qf.EndTime = core.CleanString(qf.EndTime)
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Clean()
	return validate.Struct(qf)
}

func (qf QueryFilter) IsEmpty() bool {
	return qf.Day == "" && qf.StartTime == "" && qf.EndTime == ""
}

func (qf QueryFilter) Match(a Activity) bool {
	if qf.Day != "" && !a.MeetsOn(qf.Day) {
		return false
	}
	if qf.StartTime != "" && (a.ScheduleDetails.StartTime == "" || a.ScheduleDetails.StartTime < qf.StartTime) {
		return false
	}
	if qf.EndTime != "" && (a.ScheduleDetails.EndTime == "" || a.ScheduleDetails.EndTime > qf.EndTime) {
		return false
	}
	return true
}

// SignupMailData is the template data of signup and unregister confirmation mails.
type SignupMailData struct {
	Email      string
	Activity   string
	Schedule   string
	SignedUpBy string
}
