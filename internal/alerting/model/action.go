package model

import "time"

// Action is the closed set of semantic lifecycle transitions. Internal
// callers pass typed constants; the HTTP boundary parses the untyped string
// with ParseAction and is the only place an invalid name can appear.
type Action string

const (
	ActionMarkRead    Action = "mark_read"
	ActionMarkUnread  Action = "mark_unread"
	ActionResolve     Action = "resolve"
	ActionDismiss     Action = "dismiss"
	ActionEscalate    Action = "escalate"
	ActionAcknowledge Action = "acknowledge"
)

// ParseAction validates an action name arriving over the wire.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionMarkRead, ActionMarkUnread, ActionResolve, ActionDismiss, ActionEscalate, ActionAcknowledge:
		return Action(s), nil
	}
	return "", ErrInvalidAction
}

// ActionPatch is the field set an action writes to one alert record. Nil
// pointers are left untouched. IncrementEscalation is applied as an atomic
// store-side increment, never as read-modify-write.
type ActionPatch struct {
	IsRead     *bool
	IsResolved *bool
	Status     *string

	ResolvedAt     *time.Time
	ResolvedBy     *string
	DismissedAt    *time.Time
	DismissedBy    *string
	AcknowledgedAt *time.Time
	AcknowledgedBy *string

	EscalationLevel     *string
	IncrementEscalation bool
	LastEscalatedAt     *time.Time

	UpdatedAt time.Time
}
