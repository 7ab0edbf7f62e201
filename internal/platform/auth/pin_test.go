package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthorizer() *Authorizer {
	return NewAuthorizer("149500", "1234", "test-secret", time.Hour)
}

func TestExchange_ChargePIN(t *testing.T) {
	a := newAuthorizer()

	token, role, err := a.Exchange("149500")
	require.NoError(t, err)
	assert.Equal(t, RoleCharge, role)
	assert.NotEmpty(t, token)

	caller, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RoleCharge, caller.Role)
}

func TestExchange_LabPIN(t *testing.T) {
	a := newAuthorizer()

	token, role, err := a.Exchange("1234")
	require.NoError(t, err)
	assert.Equal(t, RoleLab, role)

	caller, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RoleLab, caller.Role)
}

func TestExchange_WrongPIN(t *testing.T) {
	a := newAuthorizer()

	_, _, err := a.Exchange("000000")
	assert.ErrorIs(t, err, ErrInvalidPIN)
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	a := NewAuthorizer("149500", "1234", "test-secret", -time.Minute)

	token, _, err := a.Exchange("149500")
	require.NoError(t, err)

	_, err = a.Verify(token)
	assert.Error(t, err)
}

func TestVerify_RejectsForeignToken(t *testing.T) {
	a := newAuthorizer()
	other := NewAuthorizer("149500", "1234", "different-secret", time.Hour)

	token, _, err := other.Exchange("149500")
	require.NoError(t, err)

	_, err = a.Verify(token)
	assert.Error(t, err)
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	a := newAuthorizer()
	token, _, err := a.Exchange("149500")
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Middleware(a)(RequireRole(RoleCharge)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}))

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_RejectsMissingToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := RequireRole(RoleCharge)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRequireRole_RejectsWrongRole(t *testing.T) {
	a := newAuthorizer()
	token, _, err := a.Exchange("1234") // lab role

	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerErr := Middleware(a)(RequireRole(RoleCharge)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}))(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, handlerErr, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestRandomSecretWhenUnset(t *testing.T) {
	a := NewAuthorizer("149500", "1234", "", time.Hour)
	token, _, err := a.Exchange("149500")
	require.NoError(t, err)

	caller, err := a.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, RoleCharge, caller.Role)
}
