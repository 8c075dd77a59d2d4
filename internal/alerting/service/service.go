package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/logiops/alertcenter/internal/alerting/cache"
	"github.com/logiops/alertcenter/internal/alerting/model"
	"github.com/logiops/alertcenter/internal/alerting/store"
	"github.com/logiops/alertcenter/internal/metrics"
	"github.com/rs/zerolog/log"
)

const (
	defaultAlertType = "system"
	defaultCategory  = "general"
	defaultSeverity  = "medium"
	defaultPriority  = "medium"
	defaultListLimit = 10
)

// Service owns alert creation defaults, the list query, the allowlisted
// update and the action processor. The store is injected so tests can run
// against an in-memory fake.
type Service struct {
	store   store.Store
	cache   cache.Cache
	routing *RoutingDefaults

	// Now is the clock for every mutation timestamp. Overridable in tests.
	Now func() time.Time
}

func New(st store.Store, c cache.Cache, routing *RoutingDefaults) *Service {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &Service{store: st, cache: c, routing: routing, Now: func() time.Time { return time.Now().UTC() }}
}

// Create assembles a new alert from the request with documented defaults and
// inserts it. Routing flags left unset fall back to the per-type routing
// defaults, then to the built-in ones.
func (s *Service) Create(ctx context.Context, req *model.CreateAlertRequest) (*model.Alert, error) {
	if s.store == nil {
		return nil, model.ErrStoreUnavailable
	}
	now := s.Now()
	a := &model.Alert{
		ID:      uuid.NewString(),
		AlertID: req.AlertID,

		AlertType: orDefault(req.AlertType, defaultAlertType),
		Category:  orDefault(req.Category, defaultCategory),
		Severity:  orDefault(req.Severity, defaultSeverity),
		Priority:  orDefault(req.Priority, defaultPriority),

		Title:       req.Title,
		Message:     req.Message,
		Description: req.Description,

		Status:          orDefault(req.Status, model.StatusActive),
		EscalationLevel: model.EscalationInitial,

		VisitID:       req.VisitID,
		DelegateID:    req.DelegateID,
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		VehicleID:     req.VehicleID,
		VehiclePlate:  req.VehiclePlate,
		DriverID:      req.DriverID,
		DriverName:    req.DriverName,
		Location:      req.Location,
		ScheduledTime: req.ScheduledTime,
		ActualTime:    req.ActualTime,
		DelayMinutes:  req.DelayMinutes,

		Metadata: req.Metadata,
		Tags:     req.Tags,

		SourceSystem: req.SourceSystem,
		CreatedBy:    req.CreatedBy,
		AssignedTo:   req.AssignedTo,
		ExpiresAt:    req.ExpiresAt,

		CreatedAt: now,
		UpdatedAt: now,
	}

	flags := s.routing.For(a.AlertType)
	a.NotifyAdmins = resolveFlag(req.NotifyAdmins, flags.NotifyAdmins, true)
	a.NotifySupervisors = resolveFlag(req.NotifySupervisors, flags.NotifySupervisors, false)
	a.SendPushNotification = resolveFlag(req.SendPushNotification, flags.SendPushNotification, true)
	a.SendEmailNotification = resolveFlag(req.SendEmailNotification, flags.SendEmailNotification, false)
	a.SendSMSNotification = resolveFlag(req.SendSMSNotification, flags.SendSMSNotification, false)

	if err := s.store.Insert(ctx, a); err != nil {
		return nil, err
	}
	s.writeThrough(ctx, a)
	metrics.AlertsCreatedTotal.WithLabelValues(a.AlertType, a.Severity).Inc()
	log.Info().Str("alert_id", a.ID).Str("alert_type", a.AlertType).Str("severity", a.Severity).Msg("alert created")
	return a, nil
}

// Get reads one record, trying the cache before the store.
func (s *Service) Get(ctx context.Context, id string) (*model.Alert, error) {
	if s.store == nil {
		return nil, model.ErrStoreUnavailable
	}
	if a, err := s.cache.GetAlert(ctx, id); err != nil {
		log.Warn().Err(err).Str("alert_id", id).Msg("cache read failed")
	} else if a != nil {
		return a, nil
	}
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.writeThrough(ctx, a)
	return a, nil
}

// List returns alerts newest-first. Zero-value filter fields take the
// documented defaults; status "all" disables the status filter.
func (s *Service) List(ctx context.Context, f model.ListFilter) ([]*model.Alert, error) {
	if s.store == nil {
		return nil, model.ErrStoreUnavailable
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Status == "" {
		f.Status = model.StatusActive
	}
	return s.store.List(ctx, f)
}

// Update applies the allowlisted field set to one record.
func (s *Service) Update(ctx context.Context, id string, req *model.UpdateAlertRequest) (*model.Alert, error) {
	if s.store == nil {
		return nil, model.ErrStoreUnavailable
	}
	a, err := s.store.Update(ctx, id, req, s.Now())
	if err != nil {
		return nil, err
	}
	s.writeThrough(ctx, a)
	log.Info().Str("alert_id", id).Msg("alert updated")
	return a, nil
}

// Delete removes one record and drops it from the cache.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return model.ErrStoreUnavailable
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		log.Warn().Err(err).Str("alert_id", id).Msg("cache invalidation failed")
	}
	log.Info().Str("alert_id", id).Msg("alert deleted")
	return nil
}

// ApplyAction translates an action into its field patch and applies it to one
// record in a single store update.
func (s *Service) ApplyAction(ctx context.Context, id string, action model.Action, userID string) (*model.Alert, error) {
	if s.store == nil {
		return nil, model.ErrStoreUnavailable
	}
	patch, err := buildPatch(action, userID, s.Now())
	if err != nil {
		return nil, err
	}
	a, err := s.store.ApplyPatch(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.writeThrough(ctx, a)
	metrics.AlertActionsTotal.WithLabelValues(string(action)).Inc()
	log.Info().Str("alert_id", id).Str("action", string(action)).Str("actor", userID).Msg("alert action applied")
	return a, nil
}

// buildPatch maps each recognized action to exactly the fields it writes.
// Every patch refreshes updated_at.
func buildPatch(action model.Action, userID string, now time.Time) (*model.ActionPatch, error) {
	patch := &model.ActionPatch{UpdatedAt: now}
	switch action {
	case model.ActionMarkRead:
		patch.IsRead = boolPtr(true)
	case model.ActionMarkUnread:
		patch.IsRead = boolPtr(false)
	case model.ActionResolve:
		patch.IsResolved = boolPtr(true)
		patch.Status = strPtr(model.StatusResolved)
		patch.ResolvedAt = &now
		patch.ResolvedBy = &userID
	case model.ActionDismiss:
		patch.Status = strPtr(model.StatusDismissed)
		patch.DismissedAt = &now
		patch.DismissedBy = &userID
	case model.ActionEscalate:
		patch.EscalationLevel = strPtr(model.EscalationEscalated)
		patch.IncrementEscalation = true
		patch.LastEscalatedAt = &now
	case model.ActionAcknowledge:
		patch.AcknowledgedAt = &now
		patch.AcknowledgedBy = &userID
	default:
		return nil, model.ErrInvalidAction
	}
	return patch, nil
}

func (s *Service) writeThrough(ctx context.Context, a *model.Alert) {
	if err := s.cache.WriteAlert(ctx, a); err != nil {
		log.Warn().Err(err).Str("alert_id", a.ID).Msg("cache write failed")
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func resolveFlag(req *bool, typeDefault *bool, builtin bool) bool {
	if req != nil {
		return *req
	}
	if typeDefault != nil {
		return *typeDefault
	}
	return builtin
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }
