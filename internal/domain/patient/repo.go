package patient

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, status string, limit, offset int) ([]*Patient, int, error)
}

// PlanRepository persists daily plans as whole units: SavePlan writes the
// plan row and replaces its full session set, matching the read-modify-write
// model the therapy operations use.
type PlanRepository interface {
	// FindPlan returns nil, nil when no plan exists for the date.
	FindPlan(ctx context.Context, patientID uuid.UUID, date string) (*DailyPlan, error)
	ListPlans(ctx context.Context, patientID uuid.UUID) ([]*DailyPlan, error)
	SavePlan(ctx context.Context, plan *DailyPlan) error
}

type OrderRepository interface {
	// GetByPatient returns nil, nil when the patient has no order.
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*XrayOrder, error)
	Save(ctx context.Context, o *XrayOrder) error
}
