package suggest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/rs/zerolog"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func TestSuggest_DisabledWithoutURL(t *testing.T) {
	c := NewClient("", testLogger())
	plans, err := c.Suggest(context.Background(), Request{Condition: "knee pain"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plans != nil {
		t.Errorf("expected nil plans, got %v", plans)
	}
}

func TestSuggest_ReturnsPlans(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/suggestions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"weekday":"monday","sessions":[{"name":"Ultrasound Therapy","duration_minutes":20}]},
			{"weekday":"Funday","sessions":[{"name":"Nope","duration_minutes":5}]},
			{"weekday":"Friday","sessions":[{"name":"  ","duration_minutes":5}]}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	plans, err := c.Suggest(context.Background(), Request{Condition: "shoulder impingement", Weeks: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 normalized plan, got %d", len(plans))
	}
	if plans[0].Weekday != "Monday" {
		t.Errorf("expected canonical weekday Monday, got %q", plans[0].Weekday)
	}
	if len(plans[0].Sessions) != 1 || plans[0].Sessions[0].Name != "Ultrasound Therapy" {
		t.Errorf("unexpected sessions: %+v", plans[0].Sessions)
	}
}

func TestSuggest_NoContentIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	plans, err := c.Suggest(context.Background(), Request{Condition: "sciatica"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("expected no plans, got %v", plans)
	}
}

func TestSuggest_ServerErrorIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	plans, err := c.Suggest(context.Background(), Request{Condition: "sciatica"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("expected no plans, got %v", plans)
	}
}

func TestSuggest_MalformedBodyIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())
	plans, err := c.Suggest(context.Background(), Request{Condition: "sciatica"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plans) != 0 {
		t.Errorf("expected no plans, got %v", plans)
	}
}

func TestCanonicalWeekday(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"monday", "Monday", true},
		{"SATURDAY", "Saturday", true},
		{" Wednesday ", "Wednesday", true},
		{"Funday", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := CanonicalWeekday(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("CanonicalWeekday(%q) = %q,%v; want %q,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}
