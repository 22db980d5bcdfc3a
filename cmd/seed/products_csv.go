package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/almoxerife-api/internal/application/dto"
)

// productColumns orden de columnas del CSV exportado de la planilla.
var productColumns = []string{"nome", "descricao", "categoria", "fabricante", "prateleira", "alocacao"}

// decoderFor envuelve r según la codificación declarada.
func decoderFor(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "-", "")) {
	case "", "utf8":
		return r, nil
	case "latin1", "iso88591":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}
}

// readProducts lee el CSV (coma o punto y coma). La primera fila se omite si es el encabezado.
// Filas sin nome se ignoran.
func readProducts(r io.Reader, charset string) ([]dto.CreateProductRequest, error) {
	dr, err := decoderFor(r, charset)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(dr)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")

	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if first, _, _ := strings.Cut(text, "\n"); strings.Count(first, ";") > strings.Count(first, ",") {
		cr.Comma = ';'
	}
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}

	out := make([]dto.CreateProductRequest, 0, len(records))
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), productColumns[0]) {
			continue
		}
		col := func(n int) string {
			if n < len(rec) {
				return strings.TrimSpace(rec[n])
			}
			return ""
		}
		if col(0) == "" {
			continue
		}
		out = append(out, dto.CreateProductRequest{
			Name:         col(0),
			Description:  col(1),
			Category:     col(2),
			Manufacturer: col(3),
			Shelf:        col(4),
			Allocation:   col(5),
		})
	}
	return out, nil
}
