package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/application/ledger"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
)

// RecipientHandler destinatários de las saídas (protegido).
type RecipientHandler struct {
	svc *ledger.Service
}

// NewRecipientHandler construye el handler.
func NewRecipientHandler(svc *ledger.Service) *RecipientHandler {
	return &RecipientHandler{svc: svc}
}

// Ensure godoc
// @Summary      Obtener o crear destinatário
// @Description  Idempotente por (nome, setor): 201 si se creó, 200 si ya existía.
// @Tags         destinatarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EnsureRecipientRequest  true  "nome, setor"
// @Success      200   {object}  dto.RecipientResponse
// @Success      201   {object}  dto.RecipientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/destinatarios [post]
func (h *RecipientHandler) Ensure(c *fiber.Ctx) error {
	var in dto.EnsureRecipientRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	r, created, err := h.svc.EnsureRecipient(c.UserContext(), in.Name, in.Sector)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(toRecipientResponse(r))
}

// List godoc
// @Summary      Listar destinatários
// @Tags         destinatarios
// @Security     Bearer
// @Produce      json
// @Param        busca  query  string  false  "Texto en nome o setor"
// @Success      200  {array}  dto.RecipientResponse
// @Router       /api/destinatarios [get]
func (h *RecipientHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.ListRecipients(c.UserContext(), c.Query("busca"))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.RecipientResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toRecipientResponse(r))
	}
	return c.JSON(out)
}

func toRecipientResponse(r *entity.Recipient) dto.RecipientResponse {
	return dto.RecipientResponse{ID: r.ID, Name: r.Name, Sector: r.Sector, CreatedAt: r.CreatedAt}
}
