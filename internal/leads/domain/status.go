// Package domain holds the lead lifecycle rules shared by the wizard, the
// orchestrator and the admin surface.
package domain

// Status is a lead's lifecycle tag.
type Status string

const (
	StatusNew             Status = "new"
	StatusPropertyLoaded  Status = "property_loaded"
	StatusSurveyDone      Status = "survey_done"
	StatusQuoted          Status = "quoted"
	StatusPhotosSubmitted Status = "photos_submitted"

	StatusContacted  Status = "contacted"
	StatusFollowedUp Status = "followed_up"
	StatusScheduled  Status = "scheduled"
	StatusCompleted  Status = "completed"
	StatusLost       Status = "lost"
)

// AllStatuses lists every status in display order.
var AllStatuses = []Status{
	StatusNew,
	StatusPropertyLoaded,
	StatusSurveyDone,
	StatusQuoted,
	StatusPhotosSubmitted,
	StatusContacted,
	StatusFollowedUp,
	StatusScheduled,
	StatusCompleted,
	StatusLost,
}

var adminOnly = map[Status]bool{
	StatusContacted:  true,
	StatusFollowedUp: true,
	StatusScheduled:  true,
	StatusCompleted:  true,
	StatusLost:       true,
}

func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// AdminOnly reports whether only an admin edit may set s.
func (s Status) AdminOnly() bool {
	return adminOnly[s]
}

// WizardEvent is a customer-driven milestone that moves the status.
type WizardEvent int

const (
	EventPropertyLoaded WizardEvent = iota + 1
	EventSurveyCompleted
	EventQuoted
	EventPhotosSubmitted
)

// NextStatus returns the status after ev. A loaded property only promotes
// a lead that is still new; the other milestones apply from any status.
func NextStatus(current Status, ev WizardEvent) Status {
	switch ev {
	case EventPropertyLoaded:
		if current == StatusNew || current == "" {
			return StatusPropertyLoaded
		}
		return current
	case EventSurveyCompleted:
		return StatusSurveyDone
	case EventQuoted:
		return StatusQuoted
	case EventPhotosSubmitted:
		return StatusPhotosSubmitted
	default:
		return current
	}
}
