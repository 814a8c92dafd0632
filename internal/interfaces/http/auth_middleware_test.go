package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/hortti-inventory/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/hortti-inventory/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "hortti-test"
	testExpMin    = 60
)

func newSigner(t *testing.T, expMinutes int) *pkgjwt.Signer {
	t.Helper()
	s, err := pkgjwt.NewSigner(testJWTSecret, testIssuer, expMinutes)
	require.NoError(t, err)
	return s
}

// signerVerifier adapta *jwt.Signer a la interfaz del middleware.
type signerVerifier struct{ s *pkgjwt.Signer }

func (v signerVerifier) VerifyToken(tok string) (*pkgjwt.Claims, error) { return v.s.Verify(tok) }

// buildMiddlewareApp construye una aplicación mínima con una ruta protegida que devuelve los claims.
func buildMiddlewareApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/protected",
		apphttp.AuthMiddleware(signerVerifier{s: newSigner(t, testExpMin)}),
		func(c *fiber.Ctx) error {
			claims := apphttp.GetClaims(c)
			return c.JSON(fiber.Map{
				"user_id": apphttp.GetUserID(c),
				"email":   claims.Email,
				"role":    claims.Role,
			})
		},
	)
	return app
}

func doProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := buildMiddlewareApp(t)
	tok, err := newSigner(t, testExpMin).Sign(7, "admin@hortti.com", "admin")
	require.NoError(t, err)

	resp := doProtected(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(7), body["user_id"])
	assert.Equal(t, "admin@hortti.com", body["email"])
	assert.Equal(t, "admin", body["role"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	expired, err := newSigner(t, -1).Sign(1, "a@b.com", "user")
	require.NoError(t, err)
	other, err := pkgjwt.NewSigner("otro-secret-completamente-distinto", testIssuer, testExpMin)
	require.NoError(t, err)
	foreign, err := other.Sign(1, "a@b.com", "user")
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic abc", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"firmado con otra clave", "Bearer " + foreign, "INVALID_TOKEN"},
	}
	app := buildMiddlewareApp(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doProtected(t, app, tt.header)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.wantCode)
		})
	}
}
