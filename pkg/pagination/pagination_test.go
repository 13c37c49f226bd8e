package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return FromContext(c)
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_ClampsLimit(t *testing.T) {
	p := paramsFor(t, "limit=5000")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
}

func TestFromContext_NegativeOffset(t *testing.T) {
	p := paramsFor(t, "offset=-5")
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_Explicit(t *testing.T) {
	p := paramsFor(t, "limit=10&offset=30")
	if p.Limit != 10 || p.Offset != 30 {
		t.Errorf("unexpected params: %+v", p)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse(nil, 50, 20, 0)
	if !r.HasMore {
		t.Error("expected has_more true")
	}
	r = NewResponse(nil, 50, 20, 40)
	if r.HasMore {
		t.Error("expected has_more false on last page")
	}
}

func TestParams_SQL(t *testing.T) {
	p := Params{Limit: 25, Offset: 50}
	if got := p.SQL(); got != "LIMIT 25 OFFSET 50" {
		t.Errorf("unexpected SQL clause: %s", got)
	}
}

func TestParams_NextOffset(t *testing.T) {
	p := Params{Limit: 20, Offset: 40}
	if p.NextOffset() != 60 {
		t.Errorf("expected next offset 60, got %d", p.NextOffset())
	}
	if !p.HasNext(100) {
		t.Error("expected HasNext true for total 100")
	}
	if p.HasNext(60) {
		t.Error("expected HasNext false for total 60")
	}
}
