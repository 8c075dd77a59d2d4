package model

import "time"

// Alert is the unified alert/notification record. It is the single source of
// truth for operational alerts raised across the delivery platform (visits,
// vehicles, drivers, warehouse events). All contextual references are
// nullable; this layer does not enforce referential integrity on them.
type Alert struct {
	ID      string  `json:"id"`
	AlertID *string `json:"alert_id,omitempty"` // external correlation key, duplicates allowed

	AlertType string `json:"alert_type"`
	Category  string `json:"category"`
	Severity  string `json:"severity"`
	Priority  string `json:"priority"`

	Title       string `json:"title"`
	Message     string `json:"message,omitempty"`
	Description string `json:"description,omitempty"`

	Status     string `json:"status"`
	IsRead     bool   `json:"is_read"`
	IsResolved bool   `json:"is_resolved"`

	EscalationLevel string     `json:"escalation_level"`
	EscalationCount int        `json:"escalation_count"`
	LastEscalatedAt *time.Time `json:"last_escalated_at,omitempty"`

	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`
	DismissedAt    *time.Time `json:"dismissed_at,omitempty"`
	DismissedBy    *string    `json:"dismissed_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy *string    `json:"acknowledged_by,omitempty"`

	VisitID       *string    `json:"visit_id,omitempty"`
	DelegateID    *string    `json:"delegate_id,omitempty"`
	CustomerID    *string    `json:"customer_id,omitempty"`
	CustomerName  *string    `json:"customer_name,omitempty"`
	VehicleID     *string    `json:"vehicle_id,omitempty"`
	VehiclePlate  *string    `json:"vehicle_plate,omitempty"`
	DriverID      *string    `json:"driver_id,omitempty"`
	DriverName    *string    `json:"driver_name,omitempty"`
	Location      *string    `json:"location,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	ActualTime    *time.Time `json:"actual_time,omitempty"`
	DelayMinutes  *int       `json:"delay_minutes,omitempty"`

	NotifyAdmins          bool `json:"notify_admins"`
	NotifySupervisors     bool `json:"notify_supervisors"`
	SendPushNotification  bool `json:"send_push_notification"`
	SendEmailNotification bool `json:"send_email_notification"`
	SendSMSNotification   bool `json:"send_sms_notification"`

	Metadata map[string]any `json:"metadata,omitempty"`
	Tags     []string       `json:"tags,omitempty"`

	SourceSystem *string    `json:"source_system,omitempty"`
	CreatedBy    *string    `json:"created_by,omitempty"`
	AssignedTo   *string    `json:"assigned_to,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Observed status values. The column itself is free-form text.
const (
	StatusActive    = "active"
	StatusResolved  = "resolved"
	StatusDismissed = "dismissed"

	// StatusAll is a query sentinel, never stored.
	StatusAll = "all"
)

const (
	EscalationInitial   = "initial"
	EscalationEscalated = "escalated"
)

// CreateAlertRequest carries the full creatable field set. Routing flags are
// pointers so that omitted flags can be filled from routing defaults instead
// of being forced to false by JSON decoding.
type CreateAlertRequest struct {
	AlertID *string `json:"alert_id"`

	AlertType string `json:"alert_type"`
	Category  string `json:"category"`
	Severity  string `json:"severity"`
	Priority  string `json:"priority"`

	Title       string `json:"title" binding:"required"`
	Message     string `json:"message"`
	Description string `json:"description"`

	Status string `json:"status"`

	VisitID       *string    `json:"visit_id"`
	DelegateID    *string    `json:"delegate_id"`
	CustomerID    *string    `json:"customer_id"`
	CustomerName  *string    `json:"customer_name"`
	VehicleID     *string    `json:"vehicle_id"`
	VehiclePlate  *string    `json:"vehicle_plate"`
	DriverID      *string    `json:"driver_id"`
	DriverName    *string    `json:"driver_name"`
	Location      *string    `json:"location"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	ActualTime    *time.Time `json:"actual_time"`
	DelayMinutes  *int       `json:"delay_minutes"`

	NotifyAdmins          *bool `json:"notify_admins"`
	NotifySupervisors     *bool `json:"notify_supervisors"`
	SendPushNotification  *bool `json:"send_push_notification"`
	SendEmailNotification *bool `json:"send_email_notification"`
	SendSMSNotification   *bool `json:"send_sms_notification"`

	Metadata map[string]any `json:"metadata"`
	Tags     []string       `json:"tags"`

	SourceSystem *string    `json:"source_system"`
	CreatedBy    *string    `json:"created_by"`
	AssignedTo   *string    `json:"assigned_to"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// UpdateAlertRequest is the allowlisted PUT body. Lifecycle and escalation
// fields are deliberately absent; those move only through actions. Unknown
// fields are rejected at decode time.
type UpdateAlertRequest struct {
	AlertType   *string `json:"alert_type"`
	Category    *string `json:"category"`
	Severity    *string `json:"severity"`
	Priority    *string `json:"priority"`
	Title       *string `json:"title"`
	Message     *string `json:"message"`
	Description *string `json:"description"`
	Status      *string `json:"status"`

	VisitID       *string    `json:"visit_id"`
	DelegateID    *string    `json:"delegate_id"`
	CustomerID    *string    `json:"customer_id"`
	CustomerName  *string    `json:"customer_name"`
	VehicleID     *string    `json:"vehicle_id"`
	VehiclePlate  *string    `json:"vehicle_plate"`
	DriverID      *string    `json:"driver_id"`
	DriverName    *string    `json:"driver_name"`
	Location      *string    `json:"location"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	ActualTime    *time.Time `json:"actual_time"`
	DelayMinutes  *int       `json:"delay_minutes"`

	NotifyAdmins          *bool `json:"notify_admins"`
	NotifySupervisors     *bool `json:"notify_supervisors"`
	SendPushNotification  *bool `json:"send_push_notification"`
	SendEmailNotification *bool `json:"send_email_notification"`
	SendSMSNotification   *bool `json:"send_sms_notification"`

	Metadata map[string]any `json:"metadata"`
	Tags     []string       `json:"tags"`

	SourceSystem *string    `json:"source_system"`
	AssignedTo   *string    `json:"assigned_to"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// ListFilter narrows a list query. Status "all" disables the status filter.
type ListFilter struct {
	Limit     int
	Status    string
	Severity  string
	AlertType string
}
