package http

import (
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/almoxerife-api/internal/application/dto"
	"github.com/jhoicas/almoxerife-api/internal/application/ledger"
	"github.com/jhoicas/almoxerife-api/internal/domain"
	"github.com/jhoicas/almoxerife-api/internal/domain/entity"
	"github.com/jhoicas/almoxerife-api/internal/domain/repository"
)

// InvoiceField campo multipart de la nota fiscal.
const InvoiceField = "nota_fiscal_pdf"

// ReceiptHandler recebimentos y sus notas fiscales (protegido).
type ReceiptHandler struct {
	svc *ledger.Service
}

// NewReceiptHandler construye el handler.
func NewReceiptHandler(svc *ledger.Service) *ReceiptHandler {
	return &ReceiptHandler{svc: svc}
}

// Create godoc
// @Summary      Registrar recebimento
// @Description  Multipart. Suma quantidade al stock; valor_total = quantidade × valor_unitario.
// @Tags         recebimentos
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        produto_id       formData  int     true   "ID del producto"
// @Param        quantidade       formData  int     true   "Cantidad recibida"
// @Param        valor_unitario   formData  string  true   "Valor unitario (2 decimales)"
// @Param        observacoes      formData  string  false  "Observaciones"
// @Param        nota_fiscal_pdf  formData  file    false  "Nota fiscal PDF (máx. 10 MiB)"
// @Success      201  {object}  dto.ReceiptCreatedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Router       /api/recebimentos [post]
func (h *ReceiptHandler) Create(c *fiber.Ctx) error {
	form, err := parseReceiptForm(c)
	if err != nil {
		return respondError(c, err)
	}
	file, err := readInvoiceFile(c)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.svc.RegisterReceipt(c.UserContext(), ledger.ReceiptInput{
		ProductID: form.ProductID,
		Quantity:  form.Quantity,
		UnitValue: form.UnitValue,
		Notes:     form.Notes,
		Invoice:   file,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ReceiptCreatedResponse{
		ID:         res.ID,
		TotalValue: res.TotalValue,
		Supplier:   res.Supplier,
		InvoiceRef: res.InvoiceRef,
		Message:    "recebimento registrado",
	})
}

// ReplaceInvoice godoc
// @Summary      Adjuntar o reemplazar la nota fiscal
// @Tags         recebimentos
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id               path      int   true  "ID del recebimento"
// @Param        nota_fiscal_pdf  formData  file  true  "Nota fiscal PDF (máx. 10 MiB)"
// @Success      200  {object}  dto.InvoiceReplacedResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      413  {object}  dto.ErrorResponse
// @Router       /api/recebimentos/{id} [put]
func (h *ReceiptHandler) ReplaceInvoice(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	file, err := readInvoiceFile(c)
	if err != nil {
		return respondError(c, err)
	}
	ref, err := h.svc.AttachOrReplaceInvoice(c.UserContext(), id, file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.InvoiceReplacedResponse{ID: id, InvoiceRef: ref, Message: "nota fiscal actualizada"})
}

// List godoc
// @Summary      Listar recebimentos
// @Tags         recebimentos
// @Security     Bearer
// @Produce      json
// @Param        produto_id  query  int  false  "Filtrar por producto"
// @Param        limit       query  int  false  "Límite"  default(100)
// @Param        offset      query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.ReceiptResponse
// @Router       /api/recebimentos [get]
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	var q dto.ReceiptListQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	q.DefaultPage()
	list, err := h.svc.ListReceipts(c.UserContext(), repository.ReceiptFilter{
		ProductID: q.ProductID,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ReceiptResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toReceiptResponse(r))
	}
	return c.JSON(out)
}

// Invoice godoc
// @Summary      Descargar la nota fiscal
// @Tags         recebimentos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del recebimento"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recebimentos/{id}/nota-fiscal [get]
func (h *ReceiptHandler) Invoice(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	rc, receipt, err := h.svc.OpenInvoice(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, path.Base(receipt.InvoiceRef)))
	// fasthttp cierra el reader al terminar de enviarlo.
	return c.SendStream(rc)
}

// parseReceiptForm lee los campos de texto del multipart. valor_unitario acepta coma decimal.
func parseReceiptForm(c *fiber.Ctx) (*dto.CreateReceiptForm, error) {
	form := &dto.CreateReceiptForm{Notes: strings.TrimSpace(c.FormValue("observacoes"))}

	var err error
	if form.ProductID, err = strconv.ParseInt(strings.TrimSpace(c.FormValue("produto_id")), 10, 64); err != nil {
		return nil, fmt.Errorf("%w: produto_id debe ser un entero", domain.ErrInvalidInput)
	}
	if form.Quantity, err = strconv.Atoi(strings.TrimSpace(c.FormValue("quantidade"))); err != nil {
		return nil, fmt.Errorf("%w: quantidade debe ser un entero", domain.ErrInvalidInput)
	}
	raw := strings.ReplaceAll(strings.TrimSpace(c.FormValue("valor_unitario")), ",", ".")
	if form.UnitValue, err = decimal.NewFromString(raw); err != nil {
		return nil, fmt.Errorf("%w: valor_unitario debe ser numérico", domain.ErrInvalidInput)
	}
	if err := validateStruct(form); err != nil {
		return nil, err
	}
	return form, nil
}

// readInvoiceFile lee el archivo nota_fiscal_pdf si vino. Se lee como máximo
// MaxInvoiceSize+1 bytes: si se alcanza, el servicio lo rechaza por tamaño.
func readInvoiceFile(c *fiber.Ctx) (*ledger.InvoiceFile, error) {
	fh, err := c.FormFile(InvoiceField)
	if err != nil {
		// Sin multipart o sin el campo: no hay archivo.
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: no se pudo leer el archivo", domain.ErrInvalidFile)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, ledger.MaxInvoiceSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: no se pudo leer el archivo", domain.ErrInvalidFile)
	}
	return &ledger.InvoiceFile{Filename: fh.Filename, Data: data}, nil
}

func toReceiptResponse(r *entity.ReceiptDetail) dto.ReceiptResponse {
	return dto.ReceiptResponse{
		ID:                  r.ID,
		ProductID:           r.ProductID,
		ProductName:         r.ProductName,
		ProductDescription:  r.ProductDescription,
		ProductManufacturer: r.ProductManufacturer,
		Quantity:            r.Quantity,
		UnitValue:           r.UnitValue,
		TotalValue:          r.TotalValue,
		Supplier:            r.Supplier,
		Notes:               r.Notes,
		InvoiceRef:          r.InvoiceRef,
		CreatedAt:           r.CreatedAt,
	}
}
