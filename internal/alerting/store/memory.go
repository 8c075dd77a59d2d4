package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/logiops/alertcenter/internal/alerting/model"
)

// MemStore is an in-memory Store with the same semantics as PgStore. It backs
// package tests and local development without a database.
type MemStore struct {
	mu     sync.Mutex
	alerts map[string]*model.Alert
	seq    map[string]int
	next   int
}

func NewMemStore() *MemStore {
	return &MemStore{alerts: map[string]*model.Alert{}, seq: map[string]int{}}
}

func cloneAlert(a *model.Alert) *model.Alert {
	c := *a
	if a.Metadata != nil {
		c.Metadata = make(map[string]any, len(a.Metadata))
		for k, v := range a.Metadata {
			c.Metadata[k] = v
		}
	}
	if a.Tags != nil {
		c.Tags = append([]string(nil), a.Tags...)
	}
	return &c
}

func (m *MemStore) Insert(ctx context.Context, a *model.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[a.ID] = cloneAlert(a)
	m.next++
	m.seq[a.ID] = m.next
	return nil
}

func (m *MemStore) GetByID(ctx context.Context, id string) (*model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return cloneAlert(a), nil
}

func (m *MemStore) Update(ctx context.Context, id string, req *model.UpdateAlertRequest, now time.Time) (*model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if req.AlertType != nil {
		a.AlertType = *req.AlertType
	}
	if req.Category != nil {
		a.Category = *req.Category
	}
	if req.Severity != nil {
		a.Severity = *req.Severity
	}
	if req.Priority != nil {
		a.Priority = *req.Priority
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Message != nil {
		a.Message = *req.Message
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
	if req.VisitID != nil {
		a.VisitID = req.VisitID
	}
	if req.DelegateID != nil {
		a.DelegateID = req.DelegateID
	}
	if req.CustomerID != nil {
		a.CustomerID = req.CustomerID
	}
	if req.CustomerName != nil {
		a.CustomerName = req.CustomerName
	}
	if req.VehicleID != nil {
		a.VehicleID = req.VehicleID
	}
	if req.VehiclePlate != nil {
		a.VehiclePlate = req.VehiclePlate
	}
	if req.DriverID != nil {
		a.DriverID = req.DriverID
	}
	if req.DriverName != nil {
		a.DriverName = req.DriverName
	}
	if req.Location != nil {
		a.Location = req.Location
	}
	if req.ScheduledTime != nil {
		a.ScheduledTime = req.ScheduledTime
	}
	if req.ActualTime != nil {
		a.ActualTime = req.ActualTime
	}
	if req.DelayMinutes != nil {
		a.DelayMinutes = req.DelayMinutes
	}
	if req.NotifyAdmins != nil {
		a.NotifyAdmins = *req.NotifyAdmins
	}
	if req.NotifySupervisors != nil {
		a.NotifySupervisors = *req.NotifySupervisors
	}
	if req.SendPushNotification != nil {
		a.SendPushNotification = *req.SendPushNotification
	}
	if req.SendEmailNotification != nil {
		a.SendEmailNotification = *req.SendEmailNotification
	}
	if req.SendSMSNotification != nil {
		a.SendSMSNotification = *req.SendSMSNotification
	}
	if req.Metadata != nil {
		a.Metadata = req.Metadata
	}
	if req.Tags != nil {
		a.Tags = req.Tags
	}
	if req.SourceSystem != nil {
		a.SourceSystem = req.SourceSystem
	}
	if req.AssignedTo != nil {
		a.AssignedTo = req.AssignedTo
	}
	if req.ExpiresAt != nil {
		a.ExpiresAt = req.ExpiresAt
	}
	a.UpdatedAt = now
	return cloneAlert(a), nil
}

func (m *MemStore) ApplyPatch(ctx context.Context, id string, patch *model.ActionPatch) (*model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.alerts[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	if patch.IsRead != nil {
		a.IsRead = *patch.IsRead
	}
	if patch.IsResolved != nil {
		a.IsResolved = *patch.IsResolved
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.ResolvedAt != nil {
		a.ResolvedAt = patch.ResolvedAt
	}
	if patch.ResolvedBy != nil {
		a.ResolvedBy = patch.ResolvedBy
	}
	if patch.DismissedAt != nil {
		a.DismissedAt = patch.DismissedAt
	}
	if patch.DismissedBy != nil {
		a.DismissedBy = patch.DismissedBy
	}
	if patch.AcknowledgedAt != nil {
		a.AcknowledgedAt = patch.AcknowledgedAt
	}
	if patch.AcknowledgedBy != nil {
		a.AcknowledgedBy = patch.AcknowledgedBy
	}
	if patch.EscalationLevel != nil {
		a.EscalationLevel = *patch.EscalationLevel
	}
	if patch.IncrementEscalation {
		a.EscalationCount++
	}
	if patch.LastEscalatedAt != nil {
		a.LastEscalatedAt = patch.LastEscalatedAt
	}
	a.UpdatedAt = patch.UpdatedAt
	return cloneAlert(a), nil
}

func (m *MemStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.alerts[id]; !ok {
		return model.ErrNotFound
	}
	delete(m.alerts, id)
	delete(m.seq, id)
	return nil
}

func (m *MemStore) List(ctx context.Context, f model.ListFilter) ([]*model.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]*model.Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		if f.Status != "" && f.Status != model.StatusAll && a.Status != f.Status {
			continue
		}
		if f.Severity != "" && a.Severity != f.Severity {
			continue
		}
		if f.AlertType != "" && a.AlertType != f.AlertType {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return m.seq[matched[i].ID] > m.seq[matched[j].ID]
	})
	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	out := make([]*model.Alert, 0, len(matched))
	for _, a := range matched {
		out = append(out, cloneAlert(a))
	}
	return out, nil
}
