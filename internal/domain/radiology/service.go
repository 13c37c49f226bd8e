package radiology

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/platform/db"
)

var (
	// ErrNoOrder means the patient has no x-ray order to act on.
	ErrNoOrder = errors.New("patient has no x-ray order")
	// ErrInsufficientStock blocks capture when the ledger holds fewer films
	// than the order plans to use. The order stays ordered and the ledger
	// untouched.
	ErrInsufficientStock = errors.New("insufficient film stock for capture")
	// ErrOrderFrozen rejects edits to body_parts or films_used once the
	// film deduction has happened.
	ErrOrderFrozen = errors.New("projections and film count are frozen after capture")
	// ErrInvalidTransition rejects status moves outside ordered -> captured
	// -> reported.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

type OrderRepository interface {
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*patient.XrayOrder, error)
	Save(ctx context.Context, o *patient.XrayOrder) error
}

// FilmLedger is the slice of the inventory service the state machine needs.
type FilmLedger interface {
	Count(ctx context.Context) (int, error)
	Consume(ctx context.Context, amount int) (int, error)
}

// OrderUpdate is a partial update to an order; nil fields are untouched.
type OrderUpdate struct {
	IssueText      *string   `json:"issue_text"`
	BodyParts      *[]string `json:"body_parts"`
	FilmsUsed      *int      `json:"films_used"`
	ImageReference *string   `json:"image_reference"`
	ReportText     *string   `json:"report_text"`
}

type Service struct {
	orders OrderRepository
	films  FilmLedger
	tx     db.TxRunner
}

func NewService(orders OrderRepository, films FilmLedger, tx db.TxRunner) *Service {
	return &Service{orders: orders, films: films, tx: tx}
}

func (s *Service) Get(ctx context.Context, patientID uuid.UUID) (*patient.XrayOrder, error) {
	o, err := s.orders.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrNoOrder
	}
	return o, nil
}

// Update edits order fields. Issue text, image reference and report text stay
// editable for the order's whole life; body parts and the planned film count
// freeze once the deduction has happened.
func (s *Service) Update(ctx context.Context, patientID uuid.UUID, upd OrderUpdate) (*patient.XrayOrder, error) {
	o, err := s.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if o.FilmConsumed && (upd.BodyParts != nil || upd.FilmsUsed != nil) {
		return nil, ErrOrderFrozen
	}
	if upd.FilmsUsed != nil && *upd.FilmsUsed <= 0 {
		return nil, fmt.Errorf("films_used must be positive")
	}

	if upd.IssueText != nil {
		o.IssueText = *upd.IssueText
	}
	if upd.BodyParts != nil {
		o.BodyParts = *upd.BodyParts
	}
	if upd.FilmsUsed != nil {
		o.FilmsUsed = *upd.FilmsUsed
	}
	if upd.ImageReference != nil {
		o.ImageReference = upd.ImageReference
	}
	if upd.ReportText != nil {
		o.ReportText = upd.ReportText
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Capture moves the order to captured. The first capture deducts the planned
// film count from the ledger; the deduction and the status write land in one
// transaction so neither can survive without the other. Capture is refused
// outright when stock is below the planned count. A repeat capture updates
// the image reference without deducting again.
func (s *Service) Capture(ctx context.Context, patientID uuid.UUID, imageReference string) (*patient.XrayOrder, error) {
	var captured *patient.XrayOrder
	err := s.tx(ctx, func(ctx context.Context) error {
		o, err := s.Get(ctx, patientID)
		if err != nil {
			return err
		}
		if o.Status == patient.OrderReported {
			return ErrInvalidTransition
		}

		if !o.FilmConsumed {
			count, err := s.films.Count(ctx)
			if err != nil {
				return fmt.Errorf("reading film stock: %w", err)
			}
			if count < o.FilmsUsed {
				return ErrInsufficientStock
			}
			if _, err := s.films.Consume(ctx, o.FilmsUsed); err != nil {
				return fmt.Errorf("deducting film stock: %w", err)
			}
			o.FilmConsumed = true
		}

		o.Status = patient.OrderCaptured
		if imageReference != "" {
			o.ImageReference = &imageReference
		}
		if err := s.orders.Save(ctx, o); err != nil {
			return err
		}
		captured = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return captured, nil
}

// Report moves a captured order to reported. The report text is attached
// when given but its absence does not block the transition: report writing
// may be skipped by staff choice.
func (s *Service) Report(ctx context.Context, patientID uuid.UUID, reportText string) (*patient.XrayOrder, error) {
	o, err := s.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if o.Status == patient.OrderOrdered {
		return nil, ErrInvalidTransition
	}
	o.Status = patient.OrderReported
	if reportText != "" {
		o.ReportText = &reportText
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}
