package store

import (
	"context"
	"time"

	"github.com/logiops/alertcenter/internal/alerting/model"
)

// Store is the record-store boundary for alert persistence. The external
// database is the sole point of concurrency control; implementations perform
// no cross-record transactions.
type Store interface {
	Insert(ctx context.Context, a *model.Alert) error
	GetByID(ctx context.Context, id string) (*model.Alert, error)
	Update(ctx context.Context, id string, req *model.UpdateAlertRequest, now time.Time) (*model.Alert, error)
	ApplyPatch(ctx context.Context, id string, patch *model.ActionPatch) (*model.Alert, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f model.ListFilter) ([]*model.Alert, error)
}
