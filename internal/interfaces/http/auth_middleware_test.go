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

	apphttp "github.com/tamayuz/platform-api/internal/interfaces/http"
	pkgjwt "github.com/tamayuz/platform-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "platform-api-test"
	testExpMin    = 60
)

// buildTestApp construye una app Fiber mínima con tres rutas protegidas:
// solo JWT, JWT+admin y JWT+superusuario. El handler final devuelve la
// identidad cargada en locals para poder inspeccionarla.
func buildTestApp() *fiber.App {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c)})
	}
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret), ok)
	app.Get("/admin", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireAdmin(), ok)
	app.Get("/staff", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireSuperuser(), ok)
	return app
}

// tokenFor genera un JWT firmado con la identidad indicada.
func tokenFor(t *testing.T, id pkgjwt.Identity) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, id, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp()

	resp := doRequest(t, app, "/protected", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildTestApp()

	for _, header := range []string{"Basic abc123", "Bearer", "solo-un-token"} {
		resp := doRequest(t, app, "/protected", header)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	app := buildTestApp()
	tok, err := pkgjwt.Generate("otro-secret", pkgjwt.Identity{UserID: testUserID}, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "/protected", "Bearer "+tok)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := buildTestApp()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{UserID: testUserID}, testIssuer, -5)
	require.NoError(t, err)

	resp := doRequest(t, app, "/protected", "Bearer "+tok)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenValidoCargaIdentidad(t *testing.T) {
	app := buildTestApp()

	resp := doRequest(t, app, "/protected", tokenFor(t, pkgjwt.Identity{
		UserID:    testUserID,
		CompanyID: testCompanyID,
	}))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, testUserID, payload["user_id"])
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireAdmin / RequireSuperuser
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAdmin(t *testing.T) {
	app := buildTestApp()

	cases := []struct {
		name string
		id   pkgjwt.Identity
		want int
	}{
		{"miembro sin flags", pkgjwt.Identity{UserID: testUserID}, fiber.StatusForbidden},
		{"admin", pkgjwt.Identity{UserID: testUserID, IsAdmin: true}, fiber.StatusOK},
		{"dueño", pkgjwt.Identity{UserID: testUserID, IsOwner: true}, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, "/admin", tokenFor(t, tc.id))
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestRequireSuperuser(t *testing.T) {
	app := buildTestApp()

	// Ni el dueño ni el admin pasan: superusuario es staff de la plataforma.
	resp := doRequest(t, app, "/staff", tokenFor(t, pkgjwt.Identity{UserID: testUserID, IsOwner: true, IsAdmin: true}))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, "/staff", tokenFor(t, pkgjwt.Identity{UserID: testUserID, IsSuperuser: true}))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
