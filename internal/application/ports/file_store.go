package ports

import (
	"context"
	"fmt"
	"io"

	"github.com/jhoicas/hortti-inventory/internal/domain"
)

// FileStore define el puerto de salida para el almacenamiento de imágenes de productos.
// Las referencias son opacas para la aplicación (hoy, la URL pública de la imagen).
type FileStore interface {
	// Save guarda el contenido bajo un nombre nuevo y devuelve ese nombre.
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	// Delete borra el archivo apuntado por la referencia. No existe no es error.
	Delete(ctx context.Context, ref string) error
	// URLFor devuelve la URL pública de un archivo guardado.
	URLFor(filename string) string
}

// Errores del almacenamiento de archivos; envuelven domain.ErrValidation.
var (
	ErrUnsupportedFile = fmt.Errorf("formato de imagen no permitido (jpeg, jpg, png, webp): %w", domain.ErrValidation)
	ErrFileTooLarge    = fmt.Errorf("el archivo supera el tamaño máximo: %w", domain.ErrValidation)
	ErrInvalidFileRef  = fmt.Errorf("referencia de archivo inválida: %w", domain.ErrValidation)
)
