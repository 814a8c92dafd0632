// Package storage guarda las imágenes de productos en el disco local.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jhoicas/hortti-inventory/internal/application/ports"
)

var _ ports.FileStore = (*LocalFileStore)(nil)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

var allowedMIME = map[string]bool{"image/jpeg": true, "image/png": true, "image/webp": true}

// LocalFileStore implementa ports.FileStore sobre un directorio servido como estático en publicPath.
type LocalFileStore struct {
	dir        string
	publicPath string
	maxSize    int64
}

// NewLocalFileStore construye el almacenamiento. maxSize en bytes.
func NewLocalFileStore(dir, publicPath string, maxSize int64) *LocalFileStore {
	return &LocalFileStore{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		maxSize:    maxSize,
	}
}

// EnsureDir crea el directorio de subida si no existe.
func (s *LocalFileStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("storage: crear directorio %s: %w", s.dir, err)
	}
	return nil
}

// Dir devuelve el directorio físico de las imágenes.
func (s *LocalFileStore) Dir() string { return s.dir }

// PublicPath devuelve el prefijo de URL bajo el que se sirven los archivos.
func (s *LocalFileStore) PublicPath() string { return s.publicPath }

// AllowedExtension indica si la extensión del nombre original es de imagen admitida.
func AllowedExtension(name string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(name))]
}

// Save valida extensión, tamaño y contenido real (magic bytes) y guarda con un nombre aleatorio.
func (s *LocalFileStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	if !AllowedExtension(originalName) {
		return "", ports.ErrUnsupportedFile
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("storage: leer archivo: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", ports.ErrFileTooLarge
	}
	if !allowedMIME[mimetype.Detect(data).String()] {
		return "", ports.ErrUnsupportedFile
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", name, err)
	}
	return name, nil
}

// Delete borra el archivo referenciado (URL pública o nombre). Un archivo inexistente no es error.
func (s *LocalFileStore) Delete(ctx context.Context, ref string) error {
	name, err := FilenameFromRef(ref)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: borrar %s: %w", name, err)
	}
	return nil
}

// URLFor devuelve la URL pública del archivo.
func (s *LocalFileStore) URLFor(filename string) string {
	return path.Join(s.publicPath, filename)
}

// FilenameFromRef toma el último segmento de la referencia (sin query ni fragmento)
// y rechaza nombres que salgan del directorio.
func FilenameFromRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.ReplaceAll(ref, "\\", "/")
	name := ref[strings.LastIndex(ref, "/")+1:]
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, 0) {
		return "", ports.ErrInvalidFileRef
	}
	return name, nil
}
