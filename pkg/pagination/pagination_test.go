package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func params(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return FromContext(c)
}

func TestFromContext_Defaults(t *testing.T) {
	p := params(t, "")
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected default offset 0, got %d", p.Offset)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	p := params(t, "?limit=20&offset=10")
	if p.Limit != 20 {
		t.Errorf("expected limit 20, got %d", p.Limit)
	}
	if p.Offset != 10 {
		t.Errorf("expected offset 10, got %d", p.Offset)
	}
}

func TestFromContext_ClampsLimit(t *testing.T) {
	p := params(t, "?limit=100000")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
	p = params(t, "?limit=-3&offset=-7")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("expected defaults for negative values, got %+v", p)
	}
}

func TestBounds(t *testing.T) {
	cases := []struct {
		p      Params
		n      int
		lo, hi int
	}{
		{Params{Limit: 10, Offset: 0}, 25, 0, 10},
		{Params{Limit: 10, Offset: 20}, 25, 20, 25},
		{Params{Limit: 10, Offset: 30}, 25, 25, 25},
		{Params{Limit: 10, Offset: 0}, 0, 0, 0},
	}
	for _, tc := range cases {
		lo, hi := tc.p.Bounds(tc.n)
		if lo != tc.lo || hi != tc.hi {
			t.Errorf("Bounds(%d) with %+v: got [%d, %d), want [%d, %d)",
				tc.n, tc.p, lo, hi, tc.lo, tc.hi)
		}
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]int{1, 2, 3}, 10, Params{Limit: 3, Offset: 0})
	if !r.HasMore {
		t.Error("expected hasMore for a partial page")
	}
	r = NewResponse([]int{1}, 1, Params{Limit: 50, Offset: 0})
	if r.HasMore {
		t.Error("expected hasMore false when everything fits")
	}
}
