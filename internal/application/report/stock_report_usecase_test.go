package report_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almoxerife-api/internal/application/ledger/ledgertest"
	"github.com/jhoicas/almoxerife-api/internal/application/report"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

type captureGenerator struct {
	data report.StockReportData
}

func (g *captureGenerator) GenerateStockReport(_ context.Context, data report.StockReportData) ([]byte, error) {
	g.data = data
	return []byte("%PDF-1.3 fake"), nil
}

func TestStockReport_Generate(t *testing.T) {
	st := ledgertest.New()
	st.AddProduct("Luva", "3M", 2)
	st.AddProduct("Bota", "Marluvas", 40)
	gen := &captureGenerator{}
	uc := report.NewStockReportUseCase(st.Products(), gen)

	pdf, name, err := uc.Generate(context.Background(), repository.ProductFilter{}, "admin")
	require.NoError(t, err)

	assert.NotEmpty(t, pdf)
	assert.True(t, strings.HasPrefix(name, "estoque-"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))
	require.Len(t, gen.data.Products, 2)
	assert.Equal(t, "admin", gen.data.GeneratedBy)
	assert.Equal(t, 1, gen.data.LowStockCount())
	assert.Equal(t, 42, gen.data.TotalUnits())
}
