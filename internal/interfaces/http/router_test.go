package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/hortti-inventory/internal/application/auth"
	"github.com/jhoicas/hortti-inventory/internal/application/catalog"
	"github.com/jhoicas/hortti-inventory/internal/application/dto"
	"github.com/jhoicas/hortti-inventory/internal/application/usecase"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/pdf"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/security"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/sqlstore"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/storage"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/xmlfeed"
	apphttp "github.com/jhoicas/hortti-inventory/internal/interfaces/http"
)

// pngHeader basta para que la detección por magic bytes reconozca image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testServer struct {
	app       *fiber.App
	uploadDir string
}

// newTestServer arma la API completa sobre SQLite en memoria y un directorio temporal de uploads.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log := zerolog.Nop()

	db, err := sqlstore.Open(":memory:", log)
	require.NoError(t, err)
	require.NoError(t, sqlstore.Migrate(db))
	t.Cleanup(func() { _ = sqlstore.Close(db) })

	dir := t.TempDir()
	files := storage.NewLocalFileStore(dir, "/uploads", 1024*1024)
	productRepo := sqlstore.NewProductRepository(db)

	authUC := auth.NewAuthUseCase(sqlstore.NewUserRepository(db), security.NewBcryptHasher(bcrypt.MinCost), newSigner(t, testExpMin), log)
	productUC := usecase.NewProductUseCase(productRepo, files, log)
	catalogUC := catalog.NewUseCase(productRepo, pdf.NewCatalogReport("Hortti"), xmlfeed.NewCatalogFeed(), "Catálogo Hortti")

	app := apphttp.NewApp(apphttp.ServerConfig{AppName: "hortti-test", CORSOrigin: "*", BodyLimit: 4 * 1024 * 1024}, log)
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName: "hortti-test",
		AuthUC:      authUC,
		ProductUC:   productUC,
		CatalogUC:   catalogUC,
		Files:       files,
		Log:         log,
		UploadDir:   dir,
		UploadPath:  "/uploads",
	})
	return &testServer{app: app, uploadDir: dir}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (s *testServer) upload(t *testing.T, method, path, token, filename string, content []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(apphttp.FormFileField, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerToken registra un usuario y devuelve su token.
func (s *testServer) registerToken(t *testing.T, email string) string {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": email, "password": "secreto1", "name": "Operador",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.AuthResponse](t, resp).Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[dto.HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "hortti-test", body.Service)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email": "Ana@Hortti.com", "password": "secreto1", "name": "Ana María",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	reg := decode[dto.AuthResponse](t, resp)
	assert.Equal(t, "Usuario registrado con éxito", reg.Message)
	assert.Equal(t, "ana@hortti.com", reg.User.Email)
	assert.Equal(t, "user", reg.User.Role)
	assert.NotEmpty(t, reg.Token)

	t.Run("email duplicado", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
			"email": "ana@hortti.com", "password": "otro123", "name": "Otra Ana",
		})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "EMAIL_EXISTS", decode[dto.ErrorResponse](t, resp).Code)
	})

	t.Run("entrada inválida enumera campos", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
			"email": "no-es-email", "password": "123", "name": "Al", "role": "root",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, "VALIDATION", body.Code)
		fields := make([]string, 0, len(body.Details))
		for _, d := range body.Details {
			fields = append(fields, d.Field)
		}
		assert.ElementsMatch(t, []string{"email", "password", "name", "role"}, fields)
	})

	t.Run("login", func(t *testing.T) {
		resp := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@hortti.com", "password": "secreto1"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode[dto.AuthResponse](t, resp)
		assert.Equal(t, reg.User.ID, out.User.ID)
		assert.NotEmpty(t, out.Token)
	})

	t.Run("login fallido no distingue la causa", func(t *testing.T) {
		wrongPass := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ana@hortti.com", "password": "incorrecto"})
		noUser := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "nadie@hortti.com", "password": "secreto1"})
		assert.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, noUser.StatusCode)
		assert.Equal(t, decode[dto.ErrorResponse](t, wrongPass), decode[dto.ErrorResponse](t, noUser))
	})

	t.Run("perfil y verify", func(t *testing.T) {
		resp := s.do(t, http.MethodGet, "/api/auth/me", reg.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		profile := decode[dto.ProfileResponse](t, resp)
		assert.Equal(t, reg.User.ID, profile.User.ID)

		raw := s.do(t, http.MethodGet, "/api/auth/me", reg.Token, nil)
		b, _ := io.ReadAll(raw.Body)
		raw.Body.Close()
		assert.NotContains(t, strings.ToLower(string(b)), "password")

		resp = s.do(t, http.MethodGet, "/api/auth/verify", reg.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		v := decode[dto.VerifyResponse](t, resp)
		assert.True(t, v.Valid)
		assert.Equal(t, reg.User.ID, v.User.ID)
		assert.Equal(t, "ana@hortti.com", v.User.Email)

		resp = s.do(t, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestProductLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.registerToken(t, "op@hortti.com")

	tomato := map[string]any{"name": "Tomato", "category": "vegetable", "price": 3.50, "stock": 10}

	resp := s.do(t, http.MethodPost, "/api/products", "", tomato)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "crear exige token")

	resp = s.do(t, http.MethodPost, "/api/products", token, tomato)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ProductMessageResponse](t, resp)
	assert.Equal(t, "Producto creado con éxito", created.Message)
	id := created.Product.ID
	assert.NotZero(t, id)
	assert.True(t, created.Product.Active)
	assert.Equal(t, 10, created.Product.Stock)
	assert.Equal(t, "3.5", created.Product.Price.String())
	assert.Nil(t, created.Product.ImageURL)

	path := "/api/products/" + itoa(id)

	resp = s.do(t, http.MethodGet, "/api/products?category=vegetable", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ProductListResponse](t, resp)
	require.Len(t, list.Data, 1)
	assert.Equal(t, id, list.Data[0].ID)
	assert.Equal(t, dto.PageMeta{Total: 1, Page: 1, Limit: 10, TotalPages: 1}, list.Meta)

	resp = s.do(t, http.MethodPatch, path, token, map[string]any{"stock": 0, "price": "4.25"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.ProductMessageResponse](t, resp)
	assert.Equal(t, 0, updated.Product.Stock)
	assert.Equal(t, "4.25", updated.Product.Price.String())
	assert.Equal(t, "Tomato", updated.Product.Name)

	resp = s.do(t, http.MethodPatch, path+"/deactivate", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[dto.ProductMessageResponse](t, resp).Product.Active)

	resp = s.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Empty(t, decode[dto.ProductListResponse](t, resp).Data, "un producto desactivado no se lista")

	resp = s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "pero sigue accesible por id")
	assert.False(t, decode[dto.ProductEnvelope](t, resp).Product.Active)

	resp = s.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestProductValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.registerToken(t, "op@hortti.com")

	resp := s.do(t, http.MethodPost, "/api/products", token, map[string]any{
		"name": "", "category": "hongo", "price": -1.234, "stock": -2,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	fields := map[string]bool{}
	for _, d := range body.Details {
		fields[d.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["category"])
	assert.True(t, fields["price"])
	assert.True(t, fields["stock"])

	resp = s.do(t, http.MethodGet, "/api/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/products?sortBy=stock", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPatch, "/api/products/999", token, map[string]any{"name": "Nada"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadAndReplaceImage(t *testing.T) {
	s := newTestServer(t)
	token := s.registerToken(t, "op@hortti.com")

	resp := s.upload(t, http.MethodPost, "/api/upload/image", token, "foto.PNG", pngHeader)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	up := decode[dto.UploadResponse](t, resp)
	assert.True(t, strings.HasSuffix(up.Filename, ".png"))
	assert.Equal(t, "/uploads/"+up.Filename, up.ImageURL)
	assert.FileExists(t, filepath.Join(s.uploadDir, up.Filename))

	resp = s.do(t, http.MethodGet, up.ImageURL, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "los uploads se sirven estáticamente")

	resp = s.upload(t, http.MethodPost, "/api/upload/image", token, "notas.txt", []byte("hola"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.upload(t, http.MethodPost, "/api/upload/image", token, "falsa.png", []byte("no soy una imagen"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "la extensión sola no basta")

	resp = s.do(t, http.MethodPost, "/api/products", token, map[string]any{
		"name": "Mango", "category": "fruta", "price": "2.10", "imageUrl": up.ImageURL,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	product := decode[dto.ProductMessageResponse](t, resp).Product
	assert.Equal(t, "fruit", product.Category)

	resp = s.upload(t, http.MethodPatch, "/api/products/"+itoa(product.ID)+"/image", token, "nueva.png", pngHeader)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	replaced := decode[dto.ProductMessageResponse](t, resp).Product
	require.NotNil(t, replaced.ImageURL)
	assert.NotEqual(t, up.ImageURL, *replaced.ImageURL)
	assert.NoFileExists(t, filepath.Join(s.uploadDir, up.Filename), "la imagen anterior se borra")
	assert.FileExists(t, filepath.Join(s.uploadDir, filepath.Base(*replaced.ImageURL)))

	resp = s.upload(t, http.MethodPatch, "/api/products/999/image", token, "x.png", pngHeader)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	entries, err := os.ReadDir(s.uploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "un upload a un producto inexistente no deja archivos")

	resp = s.do(t, http.MethodDelete, "/api/upload/"+filepath.Base(*replaced.ImageURL), token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NoFileExists(t, filepath.Join(s.uploadDir, filepath.Base(*replaced.ImageURL)))
}

func TestCatalogExports(t *testing.T) {
	s := newTestServer(t)
	token := s.registerToken(t, "op@hortti.com")
	for _, p := range []map[string]any{
		{"name": "Lenteja", "category": "legume", "price": "5.00", "stock": 3},
		{"name": "Banano", "category": "fruit", "price": "1.20", "stock": 40},
	} {
		resp := s.do(t, http.MethodPost, "/api/products", token, p)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := s.do(t, http.MethodGet, "/api/products/feed.xml?category=fruit", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "application/xml")
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	products, err := xmlfeed.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Banano", products[0].Name)

	resp = s.do(t, http.MethodGet, "/api/products/report.pdf", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	pdfBytes, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
