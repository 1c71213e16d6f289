package audit

import "time"

// Category classifies events for retention and routing.
type Category string

const (
	// CategoryCompliance covers account creation and removal.
	CategoryCompliance Category = "compliance"
	// CategoryOperations covers events operators must act on.
	CategoryOperations Category = "operations"
)

// Action names one auditable fact.
type Action string

const (
	ActionAccountRegistered       Action = "account_registered"
	ActionRegistrationCompensated Action = "registration_compensated"
	ActionRegistrationOrphaned    Action = "registration_orphaned"
	ActionOrphanResolved          Action = "orphan_resolved"
)

var actionCategories = map[Action]Category{
	ActionAccountRegistered:       CategoryCompliance,
	ActionRegistrationCompensated: CategoryCompliance,
	ActionOrphanResolved:          CategoryCompliance,
	ActionRegistrationOrphaned:    CategoryOperations,
}

// Category returns the category of an action; unknown actions are operational.
func (a Action) Category() Category {
	if c, ok := actionCategories[a]; ok {
		return c
	}
	return CategoryOperations
}

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  Category
	Timestamp time.Time
	// Subject is the identity id the event is about.
	Subject   string
	Action    Action
	Username  string
	Reason    string
	RequestID string
	// Device is a display name derived from the client's User-Agent.
	Device    string
}
