package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hortti-inventory/internal/application/usecase"
	"github.com/jhoicas/hortti-inventory/internal/infrastructure/sqlstore"
	apphttp "github.com/jhoicas/hortti-inventory/internal/interfaces/http"
)

// stuckFileStore guarda siempre con el mismo nombre y falla al borrar.
type stuckFileStore struct {
	saved   []string
	deleted []string
}

func (f *stuckFileStore) Save(_ context.Context, _ string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	f.saved = append(f.saved, "nueva.png")
	return "nueva.png", nil
}

func (f *stuckFileStore) Delete(_ context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	return errors.New("disco de solo lectura")
}

func (f *stuckFileStore) URLFor(filename string) string { return "/uploads/" + filename }

func TestProductHandler_UpdateImage_RegistraArchivoHuerfano(t *testing.T) {
	db, err := sqlstore.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, sqlstore.Migrate(db))
	t.Cleanup(func() { _ = sqlstore.Close(db) })

	files := &stuckFileStore{}
	var logs bytes.Buffer
	uc := usecase.NewProductUseCase(sqlstore.NewProductRepository(db), files, zerolog.Nop())
	h := apphttp.NewProductHandler(uc, files, zerolog.New(&logs))

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Patch("/products/:id/image", h.UpdateImage)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(apphttp.FormFileField, "foto.png")
	require.NoError(t, err)
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/products/999/image", &body)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, []string{"nueva.png"}, files.deleted, "se intenta borrar el archivo recién subido")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry), "log: %s", logs.String())
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "no se pudo borrar la imagen", entry["message"])
	assert.Equal(t, float64(999), entry["product_id"])
	assert.Equal(t, "nueva.png", entry["image"])
	assert.Equal(t, "disco de solo lectura", entry["error"])
}
