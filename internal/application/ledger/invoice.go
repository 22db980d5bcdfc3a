package ledger

import (
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jhoicas/almoxerife-api/internal/domain"
)

// MaxInvoiceSize tamaño máximo de la nota fiscal (10 MiB).
const MaxInvoiceSize = 10 * 1024 * 1024

const pdfMIME = "application/pdf"

// InvoiceFile archivo subido por el cliente. Data puede traer MaxInvoiceSize+1 bytes
// cuando el handler lee con límite: en ese caso se rechaza por tamaño.
type InvoiceFile struct {
	Filename string
	Data     []byte
}

// Empty indica que no se envió archivo (nil o sin contenido).
func (f *InvoiceFile) Empty() bool {
	return f == nil || len(f.Data) == 0
}

// ValidateInvoice verifica tamaño y tipo real del contenido (no confía en la extensión ni el Content-Type).
func ValidateInvoice(f *InvoiceFile) error {
	if f.Empty() {
		return fmt.Errorf("%w: nota fiscal vacía", domain.ErrInvalidFile)
	}
	if len(f.Data) > MaxInvoiceSize {
		return fmt.Errorf("%w (máximo 10 MiB)", domain.ErrFileTooLarge)
	}
	if mt := mimetype.Detect(f.Data); !mt.Is(pdfMIME) {
		return fmt.Errorf("%w: solo se aceptan archivos PDF (detectado %s)", domain.ErrInvalidFile, mt.String())
	}
	return nil
}

// invoiceName genera un nombre resistente a colisiones: nota-fiscal-<unix-millis>-<uuid>.pdf.
func invoiceName(now time.Time) string {
	return fmt.Sprintf("nota-fiscal-%d-%s.pdf", now.UnixMilli(), uuid.NewString())
}
