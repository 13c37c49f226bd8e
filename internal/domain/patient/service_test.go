package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Test doubles --

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if status == "" || p.Status == status {
			result = append(result, p)
		}
	}
	return result, len(result), nil
}

type mockOrderRepo struct {
	orders map[uuid.UUID]*XrayOrder
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*XrayOrder)}
}

func (m *mockOrderRepo) GetByPatient(_ context.Context, patientID uuid.UUID) (*XrayOrder, error) {
	o, ok := m.orders[patientID]
	if !ok {
		return nil, nil
	}
	return o, nil
}

func (m *mockOrderRepo) Save(_ context.Context, o *XrayOrder) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	m.orders[o.PatientID] = o
	return nil
}

func newTestService() (*Service, *mockRepo, *mockOrderRepo) {
	repo := newMockRepo()
	orders := newMockOrderRepo()
	clock := fixedClock{t: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}
	return NewService(repo, orders, clock, passthroughTx), repo, orders
}

func TestCreate_PhysioDefaults(t *testing.T) {
	svc, repo, _ := newTestService()
	p := &Patient{
		Name:        "Asha Verma",
		ServiceType: ServicePhysiotherapy,
		StartDate:   "2024-03-18",
		EndDate:     "2024-03-29",
	}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != StatusActive {
		t.Errorf("expected active status, got %s", p.Status)
	}
	if p.RegistrationDate != "2024-03-15" {
		t.Errorf("expected registration date from clock, got %s", p.RegistrationDate)
	}
	if len(repo.patients) != 1 {
		t.Errorf("expected patient persisted")
	}
	if p.XrayOrder != nil {
		t.Error("physio patient must not get an x-ray order")
	}
}

func TestCreate_XrayCreatesOrder(t *testing.T) {
	svc, _, orders := newTestService()
	p := &Patient{
		Name:          "Ravi Nair",
		ConditionText: "suspected fracture",
		ServiceType:   ServiceXray,
		StartDate:     "2024-03-15",
		EndDate:       "2024-03-15",
		XrayOrder: &XrayOrder{
			IssueText: "fall on outstretched hand",
			BodyParts: []string{"Left Wrist AP", "Left Wrist Lateral"},
		},
	}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	o := orders.orders[p.ID]
	if o == nil {
		t.Fatal("expected order created with patient")
	}
	if o.Status != OrderOrdered {
		t.Errorf("expected ordered status, got %s", o.Status)
	}
	if o.FilmsUsed != 2 {
		t.Errorf("expected films planned from projections, got %d", o.FilmsUsed)
	}
	if o.OrderDate != "2024-03-15" {
		t.Errorf("expected order date from clock, got %s", o.OrderDate)
	}
	if o.FilmConsumed {
		t.Error("new order must not be marked consumed")
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := newTestService()
	cases := []struct {
		name string
		p    Patient
	}{
		{"missing name", Patient{ServiceType: ServicePhysiotherapy, StartDate: "2024-01-01", EndDate: "2024-01-02"}},
		{"bad service type", Patient{Name: "X", ServiceType: "dental", StartDate: "2024-01-01", EndDate: "2024-01-02"}},
		{"bad date", Patient{Name: "X", ServiceType: ServicePhysiotherapy, StartDate: "01/01/2024", EndDate: "2024-01-02"}},
		{"inverted range", Patient{Name: "X", ServiceType: ServicePhysiotherapy, StartDate: "2024-01-05", EndDate: "2024-01-02"}},
	}
	for _, tc := range cases {
		p := tc.p
		if err := svc.Create(context.Background(), &p); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestCreate_NormalizesWeekdays(t *testing.T) {
	svc, _, _ := newTestService()
	p := &Patient{
		Name:              "Meena Rao",
		ServiceType:       ServicePhysiotherapy,
		StartDate:         "2024-03-18",
		EndDate:           "2024-03-29",
		ScheduledWeekdays: []string{"monday", "WEDNESDAY", "monday", "funday"},
	}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Monday", "Wednesday"}
	if len(p.ScheduledWeekdays) != len(want) {
		t.Fatalf("got %v, want %v", p.ScheduledWeekdays, want)
	}
	for i := range want {
		if p.ScheduledWeekdays[i] != want[i] {
			t.Errorf("got %v, want %v", p.ScheduledWeekdays, want)
		}
	}
}

func TestUpdate_RequiresExisting(t *testing.T) {
	svc, _, _ := newTestService()
	p := &Patient{
		ID:          uuid.New(),
		Name:        "Ghost",
		ServiceType: ServicePhysiotherapy,
		Status:      StatusActive,
		StartDate:   "2024-01-01",
		EndDate:     "2024-01-05",
	}
	if err := svc.Update(context.Background(), p); err == nil {
		t.Error("expected error updating missing patient")
	}
}

func TestList_InvalidStatusFilter(t *testing.T) {
	svc, _, _ := newTestService()
	if _, _, err := svc.List(context.Background(), "vanished", 10, 0); err == nil {
		t.Error("expected error for invalid status filter")
	}
}
