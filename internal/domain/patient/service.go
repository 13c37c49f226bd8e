package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/platform/db"
)

type Service struct {
	repo   Repository
	orders OrderRepository
	clock  Clock
	tx     db.TxRunner
}

func NewService(repo Repository, orders OrderRepository, clock Clock, tx db.TxRunner) *Service {
	return &Service{repo: repo, orders: orders, clock: clock, tx: tx}
}

// Create registers a patient. X-ray patients get their order created in the
// same transaction, status ordered, films planned from the requested
// projections unless the caller chose a count.
func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validServiceTypes[p.ServiceType] {
		return fmt.Errorf("invalid service type: %s", p.ServiceType)
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !validStatuses[p.Status] {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	if !ValidDateKey(p.StartDate) || !ValidDateKey(p.EndDate) {
		return fmt.Errorf("start_date and end_date must be YYYY-MM-DD")
	}
	if p.EndDate < p.StartDate {
		return fmt.Errorf("end_date precedes start_date")
	}
	if p.RegistrationDate == "" {
		p.RegistrationDate = Today(s.clock)
	} else if !ValidDateKey(p.RegistrationDate) {
		return fmt.Errorf("registration_date must be YYYY-MM-DD")
	}
	p.ScheduledWeekdays = NormalizeWeekdays(p.ScheduledWeekdays)

	if p.ServiceType != ServiceXray {
		p.XrayOrder = nil
		return s.repo.Create(ctx, p)
	}

	order := p.XrayOrder
	if order == nil {
		order = &XrayOrder{IssueText: p.ConditionText}
	}
	order.Status = OrderOrdered
	order.FilmConsumed = false
	if order.OrderDate == "" {
		order.OrderDate = Today(s.clock)
	}
	if order.FilmsUsed <= 0 {
		order.FilmsUsed = DefaultFilmsUsed(order.BodyParts)
	}
	p.XrayOrder = order

	return s.tx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		order.PatientID = p.ID
		return s.orders.Save(ctx, order)
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validServiceTypes[p.ServiceType] {
		return fmt.Errorf("invalid service type: %s", p.ServiceType)
	}
	if !validStatuses[p.Status] {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	if !ValidDateKey(p.StartDate) || !ValidDateKey(p.EndDate) {
		return fmt.Errorf("start_date and end_date must be YYYY-MM-DD")
	}
	if p.EndDate < p.StartDate {
		return fmt.Errorf("end_date precedes start_date")
	}
	p.ScheduledWeekdays = NormalizeWeekdays(p.ScheduledWeekdays)
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	if status != "" && !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid status filter: %s", status)
	}
	return s.repo.List(ctx, status, limit, offset)
}
