package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/hortti-inventory/internal/application/dto"
	"github.com/jhoicas/hortti-inventory/internal/application/ports"
	"github.com/jhoicas/hortti-inventory/internal/domain"
)

// FormFileField nombre del campo multipart con la imagen.
const FormFileField = "file"

var errMissingFile = fmt.Errorf("no se recibió ningún archivo en el campo %q: %w", FormFileField, domain.ErrValidation)

// UploadHandler sube y borra imágenes sueltas (sin asociarlas a un producto).
type UploadHandler struct {
	files ports.FileStore
}

// NewUploadHandler construye el handler.
func NewUploadHandler(files ports.FileStore) *UploadHandler {
	return &UploadHandler{files: files}
}

// UploadImage godoc
// @Summary      Subir imagen
// @Tags         upload
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Imagen jpeg, png o webp"
// @Success      201   {object}  dto.UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      413   {object}  dto.ErrorResponse
// @Router       /api/upload/image [post]
func (h *UploadHandler) UploadImage(c *fiber.Ctx) error {
	filename, err := saveUpload(c, h.files)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{
		Message:  "Imagen subida con éxito",
		Filename: filename,
		ImageURL: h.files.URLFor(filename),
	})
}

// DeleteImage godoc
// @Summary      Borrar imagen
// @Tags         upload
// @Security     Bearer
// @Produce      json
// @Param        filename  path  string  true  "Nombre del archivo"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/upload/{filename} [delete]
func (h *UploadHandler) DeleteImage(c *fiber.Ctx) error {
	if err := h.files.Delete(c.UserContext(), c.Params("filename")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Imagen eliminada con éxito"})
}

// saveUpload guarda el archivo del campo multipart y devuelve el nombre asignado.
func saveUpload(c *fiber.Ctx, files ports.FileStore) (string, error) {
	fh, err := c.FormFile(FormFileField)
	if err != nil {
		return "", errMissingFile
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("abrir archivo subido: %w", err)
	}
	defer f.Close()
	return files.Save(c.UserContext(), fh.Filename, f)
}
