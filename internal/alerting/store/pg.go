package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	adb "github.com/logiops/alertcenter/internal/alerting/database"
	"github.com/logiops/alertcenter/internal/alerting/model"
)

// PgStore is the PostgreSQL-backed Store over the alerting database wrapper.
type PgStore struct {
	DB *adb.Database
}

func NewPgStore(db *adb.Database) *PgStore { return &PgStore{DB: db} }

// alertColumns is the full column list of unified_alerts_notifications in
// scan order. Keep in sync with scanAlert.
const alertColumns = `id, alert_id, alert_type, category, severity, priority,
	title, message, description, status, is_read, is_resolved,
	escalation_level, escalation_count, last_escalated_at,
	resolved_at, resolved_by, dismissed_at, dismissed_by, acknowledged_at, acknowledged_by,
	visit_id, delegate_id, customer_id, customer_name, vehicle_id, vehicle_plate,
	driver_id, driver_name, location, scheduled_time, actual_time, delay_minutes,
	notify_admins, notify_supervisors, send_push_notification, send_email_notification, send_sms_notification,
	metadata, tags, source_system, created_by, assigned_to, expires_at,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(r rowScanner) (*model.Alert, error) {
	var a model.Alert
	var metadataRaw, tagsRaw []byte
	err := r.Scan(
		&a.ID, &a.AlertID, &a.AlertType, &a.Category, &a.Severity, &a.Priority,
		&a.Title, &a.Message, &a.Description, &a.Status, &a.IsRead, &a.IsResolved,
		&a.EscalationLevel, &a.EscalationCount, &a.LastEscalatedAt,
		&a.ResolvedAt, &a.ResolvedBy, &a.DismissedAt, &a.DismissedBy, &a.AcknowledgedAt, &a.AcknowledgedBy,
		&a.VisitID, &a.DelegateID, &a.CustomerID, &a.CustomerName, &a.VehicleID, &a.VehiclePlate,
		&a.DriverID, &a.DriverName, &a.Location, &a.ScheduledTime, &a.ActualTime, &a.DelayMinutes,
		&a.NotifyAdmins, &a.NotifySupervisors, &a.SendPushNotification, &a.SendEmailNotification, &a.SendSMSNotification,
		&metadataRaw, &tagsRaw, &a.SourceSystem, &a.CreatedBy, &a.AssignedTo, &a.ExpiresAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &a.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &a.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &a, nil
}

// storeErr wraps a database failure, surfacing the SQLSTATE when the driver
// reports one.
func storeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %s (SQLSTATE %s)", op, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *PgStore) Insert(ctx context.Context, a *model.Alert) error {
	metadataJSON, _ := json.Marshal(a.Metadata)
	tagsJSON, _ := json.Marshal(a.Tags)
	q := `INSERT INTO unified_alerts_notifications (` + alertColumns + `)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,
	        $24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36,$37,$38,$39::jsonb,$40::jsonb,$41,$42,$43,$44,$45,$46)`
	_, err := s.DB.ExecContext(ctx, q,
		a.ID, a.AlertID, a.AlertType, a.Category, a.Severity, a.Priority,
		a.Title, a.Message, a.Description, a.Status, a.IsRead, a.IsResolved,
		a.EscalationLevel, a.EscalationCount, a.LastEscalatedAt,
		a.ResolvedAt, a.ResolvedBy, a.DismissedAt, a.DismissedBy, a.AcknowledgedAt, a.AcknowledgedBy,
		a.VisitID, a.DelegateID, a.CustomerID, a.CustomerName, a.VehicleID, a.VehiclePlate,
		a.DriverID, a.DriverName, a.Location, a.ScheduledTime, a.ActualTime, a.DelayMinutes,
		a.NotifyAdmins, a.NotifySupervisors, a.SendPushNotification, a.SendEmailNotification, a.SendSMSNotification,
		string(metadataJSON), string(tagsJSON), a.SourceSystem, a.CreatedBy, a.AssignedTo, a.ExpiresAt,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return storeErr("insert alert", err)
	}
	return nil
}

func (s *PgStore) GetByID(ctx context.Context, id string) (*model.Alert, error) {
	q := `SELECT ` + alertColumns + ` FROM unified_alerts_notifications WHERE id = $1`
	a, err := scanAlert(s.DB.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, storeErr("get alert", err)
	}
	return a, nil
}

// setClause accumulates a dynamic SET list with positional placeholders.
type setClause struct {
	parts []string
	args  []any
}

func (c *setClause) add(expr string, v any) {
	c.args = append(c.args, v)
	c.parts = append(c.parts, fmt.Sprintf(expr, "$"+strconv.Itoa(len(c.args))))
}

func (c *setClause) addRaw(expr string) {
	c.parts = append(c.parts, expr)
}

func (s *PgStore) Update(ctx context.Context, id string, req *model.UpdateAlertRequest, now time.Time) (*model.Alert, error) {
	var set setClause
	if req.AlertType != nil {
		set.add("alert_type = %s", *req.AlertType)
	}
	if req.Category != nil {
		set.add("category = %s", *req.Category)
	}
	if req.Severity != nil {
		set.add("severity = %s", *req.Severity)
	}
	if req.Priority != nil {
		set.add("priority = %s", *req.Priority)
	}
	if req.Title != nil {
		set.add("title = %s", *req.Title)
	}
	if req.Message != nil {
		set.add("message = %s", *req.Message)
	}
	if req.Description != nil {
		set.add("description = %s", *req.Description)
	}
	if req.Status != nil {
		set.add("status = %s", *req.Status)
	}
	if req.VisitID != nil {
		set.add("visit_id = %s", *req.VisitID)
	}
	if req.DelegateID != nil {
		set.add("delegate_id = %s", *req.DelegateID)
	}
	if req.CustomerID != nil {
		set.add("customer_id = %s", *req.CustomerID)
	}
	if req.CustomerName != nil {
		set.add("customer_name = %s", *req.CustomerName)
	}
	if req.VehicleID != nil {
		set.add("vehicle_id = %s", *req.VehicleID)
	}
	if req.VehiclePlate != nil {
		set.add("vehicle_plate = %s", *req.VehiclePlate)
	}
	if req.DriverID != nil {
		set.add("driver_id = %s", *req.DriverID)
	}
	if req.DriverName != nil {
		set.add("driver_name = %s", *req.DriverName)
	}
	if req.Location != nil {
		set.add("location = %s", *req.Location)
	}
	if req.ScheduledTime != nil {
		set.add("scheduled_time = %s", *req.ScheduledTime)
	}
	if req.ActualTime != nil {
		set.add("actual_time = %s", *req.ActualTime)
	}
	if req.DelayMinutes != nil {
		set.add("delay_minutes = %s", *req.DelayMinutes)
	}
	if req.NotifyAdmins != nil {
		set.add("notify_admins = %s", *req.NotifyAdmins)
	}
	if req.NotifySupervisors != nil {
		set.add("notify_supervisors = %s", *req.NotifySupervisors)
	}
	if req.SendPushNotification != nil {
		set.add("send_push_notification = %s", *req.SendPushNotification)
	}
	if req.SendEmailNotification != nil {
		set.add("send_email_notification = %s", *req.SendEmailNotification)
	}
	if req.SendSMSNotification != nil {
		set.add("send_sms_notification = %s", *req.SendSMSNotification)
	}
	if req.Metadata != nil {
		metadataJSON, _ := json.Marshal(req.Metadata)
		set.add("metadata = %s::jsonb", string(metadataJSON))
	}
	if req.Tags != nil {
		tagsJSON, _ := json.Marshal(req.Tags)
		set.add("tags = %s::jsonb", string(tagsJSON))
	}
	if req.SourceSystem != nil {
		set.add("source_system = %s", *req.SourceSystem)
	}
	if req.AssignedTo != nil {
		set.add("assigned_to = %s", *req.AssignedTo)
	}
	if req.ExpiresAt != nil {
		set.add("expires_at = %s", *req.ExpiresAt)
	}
	set.add("updated_at = %s", now)

	q := `UPDATE unified_alerts_notifications SET ` + strings.Join(set.parts, ", ") +
		` WHERE id = $` + strconv.Itoa(len(set.args)+1) + ` RETURNING ` + alertColumns
	set.args = append(set.args, id)

	a, err := scanAlert(s.DB.QueryRowContext(ctx, q, set.args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, storeErr("update alert", err)
	}
	return a, nil
}

// ApplyPatch applies an action patch in a single UPDATE. The escalation
// counter is incremented in SQL so concurrent escalations cannot lose
// updates.
func (s *PgStore) ApplyPatch(ctx context.Context, id string, patch *model.ActionPatch) (*model.Alert, error) {
	var set setClause
	if patch.IsRead != nil {
		set.add("is_read = %s", *patch.IsRead)
	}
	if patch.IsResolved != nil {
		set.add("is_resolved = %s", *patch.IsResolved)
	}
	if patch.Status != nil {
		set.add("status = %s", *patch.Status)
	}
	if patch.ResolvedAt != nil {
		set.add("resolved_at = %s", *patch.ResolvedAt)
	}
	if patch.ResolvedBy != nil {
		set.add("resolved_by = %s", *patch.ResolvedBy)
	}
	if patch.DismissedAt != nil {
		set.add("dismissed_at = %s", *patch.DismissedAt)
	}
	if patch.DismissedBy != nil {
		set.add("dismissed_by = %s", *patch.DismissedBy)
	}
	if patch.AcknowledgedAt != nil {
		set.add("acknowledged_at = %s", *patch.AcknowledgedAt)
	}
	if patch.AcknowledgedBy != nil {
		set.add("acknowledged_by = %s", *patch.AcknowledgedBy)
	}
	if patch.EscalationLevel != nil {
		set.add("escalation_level = %s", *patch.EscalationLevel)
	}
	if patch.IncrementEscalation {
		set.addRaw("escalation_count = escalation_count + 1")
	}
	if patch.LastEscalatedAt != nil {
		set.add("last_escalated_at = %s", *patch.LastEscalatedAt)
	}
	set.add("updated_at = %s", patch.UpdatedAt)

	q := `UPDATE unified_alerts_notifications SET ` + strings.Join(set.parts, ", ") +
		` WHERE id = $` + strconv.Itoa(len(set.args)+1) + ` RETURNING ` + alertColumns
	set.args = append(set.args, id)

	a, err := scanAlert(s.DB.QueryRowContext(ctx, q, set.args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, storeErr("apply action", err)
	}
	return a, nil
}

func (s *PgStore) Delete(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM unified_alerts_notifications WHERE id = $1`, id)
	if err != nil {
		return storeErr("delete alert", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *PgStore) List(ctx context.Context, f model.ListFilter) ([]*model.Alert, error) {
	q := `SELECT ` + alertColumns + ` FROM unified_alerts_notifications WHERE 1=1`
	args := []any{}

	if f.Status != "" && f.Status != model.StatusAll {
		q += " AND status = $" + strconv.Itoa(len(args)+1)
		args = append(args, f.Status)
	}
	if f.Severity != "" {
		q += " AND severity = $" + strconv.Itoa(len(args)+1)
		args = append(args, f.Severity)
	}
	if f.AlertType != "" {
		q += " AND alert_type = $" + strconv.Itoa(len(args)+1)
		args = append(args, f.AlertType)
	}

	q += " ORDER BY created_at DESC"

	if f.Limit > 0 {
		q += " LIMIT $" + strconv.Itoa(len(args)+1)
		args = append(args, f.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("list alerts", err)
	}
	defer rows.Close()

	alerts := make([]*model.Alert, 0, f.Limit)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, storeErr("scan alert", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list alerts", err)
	}
	return alerts, nil
}
