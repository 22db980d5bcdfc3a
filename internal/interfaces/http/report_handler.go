package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/application/report"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

// ReportHandler reportes PDF (solo Administrador).
type ReportHandler struct {
	uc *report.StockReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.StockReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Stock godoc
// @Summary      Reporte PDF de posición de estoque
// @Tags         relatorios
// @Security     Bearer
// @Produce      application/pdf
// @Param        busca       query  string  false  "Texto en nome, descrição, categoria o fabricante"
// @Param        categoria   query  string  false  "Categoria exacta"
// @Param        fabricante  query  string  false  "Fabricante exacto"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/relatorios/estoque [get]
func (h *ReportHandler) Stock(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	pdf, filename, err := h.uc.Generate(c.UserContext(), repository.ProductFilter{
		Search:       q.Search,
		Category:     q.Category,
		Manufacturer: q.Manufacturer,
	}, GetUsername(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdf)
}
