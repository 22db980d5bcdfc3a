package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/application/ledger"
	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// IssueHandler saídas de stock (protegido).
type IssueHandler struct {
	svc *ledger.Service
}

// NewIssueHandler construye el handler.
func NewIssueHandler(svc *ledger.Service) *IssueHandler {
	return &IssueHandler{svc: svc}
}

// Create godoc
// @Summary      Registrar saída
// @Description  Descuenta quantidade del stock; nunca lo deja negativo.
// @Tags         saidas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateIssueRequest  true  "produto_id, quantidade, destinatario_id"
// @Success      201   {object}  dto.IssueCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/saidas [post]
func (h *IssueHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateIssueRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	res, err := h.svc.RegisterIssue(c.UserContext(), ledger.IssueInput{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		RecipientID: in.RecipientID,
		Notes:       in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IssueCreatedResponse{ID: res.ID, Message: "saída registrada"})
}

// List godoc
// @Summary      Listar saídas
// @Tags         saidas
// @Security     Bearer
// @Produce      json
// @Param        produto_id       query  int     false  "Filtrar por producto"
// @Param        destinatario_id  query  int     false  "Filtrar por destinatário"
// @Param        setor            query  string  false  "Setor (contiene)"
// @Param        data_inicio      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        data_fim         query  string  false  "Hasta, inclusive (YYYY-MM-DD)"
// @Success      200  {array}   dto.IssueResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/saidas [get]
func (h *IssueHandler) List(c *fiber.Ctx) error {
	var q dto.IssueListQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	filter := repository.IssueFilter{ProductID: q.ProductID, RecipientID: q.RecipientID, Sector: q.Sector}
	var err error
	if filter.From, err = parseDate(q.From); err != nil {
		return respondError(c, err)
	}
	if filter.To, err = parseDate(q.To); err != nil {
		return respondError(c, err)
	}
	list, err := h.svc.ListIssues(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.IssueResponse, 0, len(list))
	for _, is := range list {
		out = append(out, toIssueResponse(is))
	}
	return c.JSON(out)
}

// parseDate interpreta YYYY-MM-DD en la zona local; vacío = sin filtro.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha inválida %q", domain.ErrInvalidInput, s)
	}
	return &t, nil
}

func toIssueResponse(is *entity.IssueDetail) dto.IssueResponse {
	return dto.IssueResponse{
		ID:                 is.ID,
		ProductID:          is.ProductID,
		ProductName:        is.ProductName,
		ProductDescription: is.ProductDescription,
		Quantity:           is.Quantity,
		RecipientID:        is.RecipientID,
		RecipientName:      is.RecipientName,
		RecipientSector:    is.RecipientSector,
		Notes:              is.Notes,
		CreatedAt:          is.CreatedAt,
	}
}
