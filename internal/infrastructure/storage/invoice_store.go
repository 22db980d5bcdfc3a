// Package storage persiste las notas fiscales PDF sobre un afero.Fs
// (sistema de archivos del SO en producción, MemMapFs en tests).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/almoxerife-api/internal/application/ledger"
	"github.com/jhoicas/almoxerife-api/internal/domain"
)

// InvoiceDir subdirectorio de las notas fiscales; las referencias tienen la forma notas-fiscais/<nombre>.
const InvoiceDir = "notas-fiscais"

var _ ledger.InvoiceStorage = (*InvoiceStore)(nil)

// InvoiceStore implementación de ledger.InvoiceStorage sobre afero.
type InvoiceStore struct {
	fs afero.Fs
}

// NewInvoiceStore construye el store con raíz en baseDir dentro de fsys.
func NewInvoiceStore(fsys afero.Fs, baseDir string) *InvoiceStore {
	return &InvoiceStore{fs: afero.NewBasePathFs(fsys, baseDir)}
}

// NewOSInvoiceStore store sobre el sistema de archivos local.
func NewOSInvoiceStore(baseDir string) *InvoiceStore {
	return NewInvoiceStore(afero.NewOsFs(), baseDir)
}

// Save escribe data bajo InvoiceDir/name y devuelve la referencia.
func (s *InvoiceStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: nombre de archivo inválido %q", domain.ErrInvalidInput, name)
	}
	if err := s.fs.MkdirAll(InvoiceDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: crear directorio: %w", domain.ErrStorage, err)
	}
	ref := path.Join(InvoiceDir, name)
	if err := afero.WriteFile(s.fs, ref, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: escribir %s: %w", domain.ErrStorage, ref, err)
	}
	return ref, nil
}

// Open abre la nota fiscal referenciada. ErrNotFound si no existe.
func (s *InvoiceStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanRef(ref)
	if err != nil {
		return nil, err
	}
	f, err := s.fs.Open(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: nota fiscal %s", domain.ErrNotFound, ref)
		}
		return nil, fmt.Errorf("%w: abrir %s: %w", domain.ErrStorage, ref, err)
	}
	return f, nil
}

// Delete elimina el archivo. Borrar un archivo inexistente no es error.
func (s *InvoiceStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := cleanRef(ref)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(clean); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: eliminar %s: %w", domain.ErrStorage, ref, err)
	}
	return nil
}

// cleanRef normaliza la referencia y rechaza las que salen de InvoiceDir.
// Acepta también el formato heredado "/uploads/notas-fiscais/<nombre>".
func cleanRef(ref string) (string, error) {
	r := strings.TrimPrefix(strings.TrimSpace(ref), "/uploads/")
	clean := path.Clean("/" + r)[1:]
	if clean != r || !strings.HasPrefix(clean, InvoiceDir+"/") || strings.Count(clean, "/") != 1 {
		return "", fmt.Errorf("%w: referencia de nota fiscal inválida %q", domain.ErrInvalidInput, ref)
	}
	return clean, nil
}
