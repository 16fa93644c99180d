package casework

import (
	"fmt"

	"github.com/google/uuid"
)

// AlertableType is the fixed enumeration of things an alert can be about.
type AlertableType string

const (
	AlertableCheckIn     AlertableType = "check_in"
	AlertableAppointment AlertableType = "appointment"
	AlertableAssessment  AlertableType = "assessment"
	AlertableGoal        AlertableType = "goal"
	AlertableInactivity  AlertableType = "inactivity"
)

var alertableTypes = []AlertableType{
	AlertableCheckIn,
	AlertableAppointment,
	AlertableAssessment,
	AlertableGoal,
	AlertableInactivity,
}

// AlertableTypes returns the enumeration in declaration order.
func AlertableTypes() []AlertableType {
	out := make([]AlertableType, len(alertableTypes))
	copy(out, alertableTypes)
	return out
}

func (t AlertableType) Valid() bool {
	for _, k := range alertableTypes {
		if k == t {
			return true
		}
	}
	return false
}

// AlertSubject is the typed target of an alert. Each alertable type has
// exactly one implementation.
type AlertSubject interface {
	Kind() AlertableType
	SubjectID() uuid.UUID
}

type CheckInSubject struct{ CheckInID uuid.UUID }
type AppointmentSubject struct{ AppointmentID uuid.UUID }
type AssessmentSubject struct{ AssessmentID uuid.UUID }
type GoalSubject struct{ GoalID uuid.UUID }

// InactivitySubject points at the user who went quiet.
type InactivitySubject struct{ UserID uuid.UUID }

func (s CheckInSubject) Kind() AlertableType     { return AlertableCheckIn }
func (s CheckInSubject) SubjectID() uuid.UUID    { return s.CheckInID }
func (s AppointmentSubject) Kind() AlertableType { return AlertableAppointment }
func (s AppointmentSubject) SubjectID() uuid.UUID {
	return s.AppointmentID
}
func (s AssessmentSubject) Kind() AlertableType  { return AlertableAssessment }
func (s AssessmentSubject) SubjectID() uuid.UUID { return s.AssessmentID }
func (s GoalSubject) Kind() AlertableType        { return AlertableGoal }
func (s GoalSubject) SubjectID() uuid.UUID       { return s.GoalID }
func (s InactivitySubject) Kind() AlertableType  { return AlertableInactivity }
func (s InactivitySubject) SubjectID() uuid.UUID { return s.UserID }

// NewAlertSubject builds the variant for kind. Unknown kinds are an error.
func NewAlertSubject(kind AlertableType, id uuid.UUID) (AlertSubject, error) {
	switch kind {
	case AlertableCheckIn:
		return CheckInSubject{CheckInID: id}, nil
	case AlertableAppointment:
		return AppointmentSubject{AppointmentID: id}, nil
	case AlertableAssessment:
		return AssessmentSubject{AssessmentID: id}, nil
	case AlertableGoal:
		return GoalSubject{GoalID: id}, nil
	case AlertableInactivity:
		return InactivitySubject{UserID: id}, nil
	default:
		return nil, fmt.Errorf("unknown alertable type %q", kind)
	}
}
