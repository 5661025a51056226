package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/render"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) RegisterRoutes(router *gin.RouterGroup) {
	invoices := router.Group("/api/invoices", middleware.RequireAuth())
	{
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:id", h.GetInvoice)
		invoices.GET("/:id/pdf", h.GetInvoicePDF)
		invoices.PUT("/:id", h.UpdateInvoice)
		invoices.DELETE("/:id", h.DeleteInvoice)
		invoices.PUT("/:id/sent", h.MarkSent)
		invoices.PUT("/:id/paid", h.MarkPaid)
	}
}

// ListInvoices returns the authenticated user's invoices in insertion order
// @Summary      List invoices
// @Description  Retrieves the current user's invoices, insertion-ordered, paginated
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	params := pagination.Parse(c)
	userID := middleware.CurrentUserID(c)

	invoices, total := h.invoiceService.ListByUser(c.Request.Context(), userID, params.Page, params.Limit)

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetInvoice returns a single invoice by id
// @Summary      Get invoice
// @Description  Retrieves one of the current user's invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	if invoice == nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "invoice not found"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// GetInvoicePDF renders a stored invoice as a printable PDF document
// @Summary      Download invoice PDF
// @Description  Renders the stored invoice snapshot, including its signature, as a PDF
// @Tags         invoices
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id  path  string  true  "Invoice ID"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) GetInvoicePDF(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	invoice, ok := h.invoiceService.GetSnapshot(c.Request.Context(), userID, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "invoice not found"))
		return
	}

	document, err := render.PDF(invoice.Data, invoice.Signature)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+invoice.Data.Details.InvoiceNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", document)
}

// UpdateInvoice merges partial fields into an invoice
// @Summary      Update invoice
// @Description  Merges provided fields into the invoice; an unknown id is a silent no-op
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Invoice ID"
// @Param        payload  body      service.UpdateInvoiceRequest  true  "Fields to merge"
// @Success      200      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	var req service.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	userID := middleware.CurrentUserID(c)
	invoice, err := h.invoiceService.Update(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	// A nil invoice means the id did not match: silent no-op by contract.
	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// DeleteInvoice removes an invoice
// @Summary      Delete invoice
// @Description  Removes the invoice entirely; an unknown id is a silent no-op
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  response.Response
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	if err := h.invoiceService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
}

// MarkSent transitions an invoice to sent
// @Summary      Mark invoice sent
// @Description  Sets status=sent and stamps sentAt; an unknown id is a silent no-op
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Router       /api/invoices/{id}/sent [put]
func (h *InvoiceHandler) MarkSent(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	invoice, err := h.invoiceService.MarkSent(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}

// MarkPaid transitions an invoice to paid
// @Summary      Mark invoice paid
// @Description  Sets status=paid and stamps paidAt; an unknown id is a silent no-op
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        id  path  string  true  "Invoice ID"
// @Success      200  {object}  response.Response{data=service.InvoiceResponse}
// @Router       /api/invoices/{id}/paid [put]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, invoice))
}
