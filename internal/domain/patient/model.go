package patient

import (
	"time"

	"github.com/google/uuid"
)

// Service types a patient can be admitted under.
const (
	ServicePhysiotherapy = "physiotherapy"
	ServiceXray          = "x-ray"
)

// Patient lifecycle statuses.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// Therapy session statuses.
const (
	SessionPending   = "pending"
	SessionCompleted = "completed"
	SessionMissed    = "missed"
)

// X-ray order statuses.
const (
	OrderOrdered  = "ordered"
	OrderCaptured = "captured"
	OrderReported = "reported"
)

// DateKey is the canonical calendar-day format used throughout: YYYY-MM-DD.
// Keys sort lexicographically in chronological order.
const DateKey = "2006-01-02"

// Patient maps to the patient table. It is the aggregate root owning the
// daily plans for its treatment course and, for x-ray patients, the order.
type Patient struct {
	ID                uuid.UUID    `db:"id" json:"id"`
	Name              string       `db:"name" json:"name"`
	Phone             *string      `db:"phone" json:"phone,omitempty"`
	Age               *int         `db:"age" json:"age,omitempty"`
	Gender            *string      `db:"gender" json:"gender,omitempty"`
	ConditionText     string       `db:"condition_text" json:"condition_text"`
	ServiceType       string       `db:"service_type" json:"service_type"`
	Status            string       `db:"status" json:"status"`
	StartDate         string       `db:"start_date" json:"start_date"`
	EndDate           string       `db:"end_date" json:"end_date"`
	RegistrationDate  string       `db:"registration_date" json:"registration_date"`
	ScheduledWeekdays []string     `db:"scheduled_weekdays" json:"scheduled_weekdays"`
	CreatedAt         time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time    `db:"updated_at" json:"updated_at"`
	DailyPlans        []*DailyPlan `db:"-" json:"daily_plans,omitempty"`
	XrayOrder         *XrayOrder   `db:"-" json:"xray_order,omitempty"`
}

// DailyPlan maps to the daily_plan table. At most one plan exists per patient
// per date; a plan may hold zero sessions and still persists.
type DailyPlan struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	Date      string            `db:"date" json:"date"`
	Sessions  []*TherapySession `db:"-" json:"sessions"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// FindSession returns the session with the given id, or nil.
func (p *DailyPlan) FindSession(id uuid.UUID) *TherapySession {
	for _, s := range p.Sessions {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// HasTherapyName reports whether any session in the plan carries the given
// therapy name. Used by the suggestion merge to avoid duplicate therapies.
func (p *DailyPlan) HasTherapyName(name string) bool {
	for _, s := range p.Sessions {
		if s.Name == name {
			return true
		}
	}
	return false
}

// TherapySession maps to the therapy_session table.
type TherapySession struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PlanID          uuid.UUID `db:"plan_id" json:"plan_id"`
	Name            string    `db:"name" json:"name"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// XrayOrder maps to the xray_order table. Status advances ordered ->
// captured -> reported; FilmConsumed guards the one-time stock deduction.
type XrayOrder struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	IssueText      string    `db:"issue_text" json:"issue_text"`
	BodyParts      []string  `db:"body_parts" json:"body_parts"`
	Status         string    `db:"status" json:"status"`
	OrderDate      string    `db:"order_date" json:"order_date"`
	ImageReference *string   `db:"image_reference" json:"image_reference,omitempty"`
	ReportText     *string   `db:"report_text" json:"report_text,omitempty"`
	FilmsUsed      int       `db:"films_used" json:"films_used"`
	FilmConsumed   bool      `db:"film_consumed" json:"film_consumed"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultFilmsUsed is the film count planned for an order with the given
// projections: one film per requested projection, at least one.
func DefaultFilmsUsed(bodyParts []string) int {
	if len(bodyParts) > 1 {
		return len(bodyParts)
	}
	return 1
}

var validServiceTypes = map[string]bool{
	ServicePhysiotherapy: true,
	ServiceXray:          true,
}

var validStatuses = map[string]bool{
	StatusActive:    true,
	StatusCompleted: true,
	StatusArchived:  true,
}

var validSessionStatuses = map[string]bool{
	SessionPending:   true,
	SessionCompleted: true,
	SessionMissed:    true,
}

// ValidSessionStatus reports whether s is a known session status.
func ValidSessionStatus(s string) bool {
	return validSessionStatuses[s]
}

// ValidDateKey reports whether s is a well-formed YYYY-MM-DD calendar day.
func ValidDateKey(s string) bool {
	_, err := time.Parse(DateKey, s)
	return err == nil
}
