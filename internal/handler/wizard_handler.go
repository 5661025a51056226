package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/render"
	"backend/internal/service"
	"backend/internal/signature"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type WizardHandler struct {
	wizardService service.WizardService
}

func NewWizardHandler(wizardService service.WizardService) *WizardHandler {
	return &WizardHandler{wizardService: wizardService}
}

func (h *WizardHandler) RegisterRoutes(router *gin.RouterGroup) {
	wizard := router.Group("/api/wizard", middleware.RequireAuth())
	{
		wizard.POST("", h.StartDraft)
		wizard.GET("/:id", h.GetDraft)
		wizard.POST("/:id/next", h.Next)
		wizard.POST("/:id/previous", h.Previous)
		wizard.PUT("/:id/business", h.SetBusiness)
		wizard.PUT("/:id/client", h.SetClient)
		wizard.PUT("/:id/payment", h.SetPayment)
		wizard.PUT("/:id/details", h.SetDetails)
		wizard.POST("/:id/items", h.AddItem)
		wizard.PUT("/:id/items/:index", h.UpdateItem)
		wizard.DELETE("/:id/items/:index", h.RemoveItem)
		wizard.GET("/:id/preview", h.Preview)
		wizard.GET("/:id/pdf", h.PreviewPDF)
		wizard.POST("/:id/send", h.Send)
	}
}

// StartDraft opens a new wizard session
// @Summary      Start invoice draft
// @Description  Creates a wizard session at step 0 with a freshly seeded draft
// @Tags         wizard
// @Security     BearerAuth
// @Produce      json
// @Success      201  {object}  response.Response{data=service.WizardResponse}
// @Router       /api/wizard [post]
func (h *WizardHandler) StartDraft(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	draft, err := h.wizardService.Start(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, draft))
}

// GetDraft returns the wizard session state
// @Summary      Get draft
// @Tags         wizard
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  response.Response{data=service.WizardResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/wizard/{id} [get]
func (h *WizardHandler) GetDraft(c *gin.Context) {
	h.respond(c, func() (*service.WizardResponse, error) {
		return h.wizardService.Get(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	})
}

// Next advances the wizard one step, clamped at the review step
// @Summary      Next step
// @Tags         wizard
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  response.Response{data=service.WizardResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/wizard/{id}/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	h.respond(c, func() (*service.WizardResponse, error) {
		return h.wizardService.Next(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	})
}

// Previous retreats the wizard one step, clamped at step 0
// @Summary      Previous step
// @Tags         wizard
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  response.Response{data=service.WizardResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/wizard/{id}/previous [post]
func (h *WizardHandler) Previous(c *gin.Context) {
	h.respond(c, func() (*service.WizardResponse, error) {
		return h.wizardService.Previous(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	})
}

// SetBusiness updates the business (from) block of the draft
// @Summary      Set business details
// @Tags         wizard
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Draft ID"
// @Param        payload  body      service.PartyRequest  true  "Business Details"
// @Success      200      {object}  response.Response{data=service.WizardResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/wizard/{id}/business [put]
func (h *WizardHandler) SetBusiness(c *gin.Context) {
	var req service.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	h.respond(c, func() (*service.WizardResponse, error) {
		return h.wizardService.SetBusiness(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	})
}

// SetClient updates the client (to) block of the draft
// @Summary      Set client details
// @Tags         wizard
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Draft ID"
// @Param        payload  body      service.PartyRequest  true  "Client Details"
// @Success      200      {object}  response.Response{data=service.WizardResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/wizard/{id}/client [put]
func (h *WizardHandler) SetClient(c *gin.Context) {
	var req service.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	h.respond(c, func() (*service.WizardResponse, error) {
		return h.wizardService.SetClient(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	})
}

// SetPayment updates the payment block of the draft
// @Summary      Set payment details
// @Tags         wizard
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Draft ID"
// @Param        payload  body      service.PaymentRequest  true  "Payment Details"
// @Success      200      {object}  response.Response{data=service.WizardResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/wizard/{id}/payment [put]
func (h *WizardHandler) SetPayment(c *gin.Context) {
	var req service.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	h.respond(c, func() (*service.WizardResponse, error) {
		return h.wizardService.SetPayment(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	})
}

// SetDetails updates the invoice header fields of the draft
// @Summary      Set invoice details
// @Tags         wizard
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Draft ID"
// @Param        payload  body      service.DetailsRequest  true  "Invoice Details"
// @Success      200      {object}  response.Response{data=service.WizardResponse}
// @Failure      404      {object}  response.Response
// @Router       /api/wizard/{id}/details [put]
func (h *WizardHandler) SetDetails(c *gin.Context) {
	var req service.DetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	h.respond(c, func() (*service.WizardResponse, error) {
		return h.wizardService.SetDetails(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req)
	})
}

// AddItem appends a blank line item to the draft
// @Summary      Add line item
// @Tags         wizard
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  response.Response{data=service.WizardResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/wizard/{id}/items [post]
func (h *WizardHandler) AddItem(c *gin.Context) {
	h.respond(c, func() (*service.WizardResponse, error) {
		return h.wizardService.AddItem(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	})
}

// UpdateItem sets fields of a line item and recomputes its amount
// @Summary      Update line item
// @Description  Sets description, quantity or rate by position; amount is recomputed when a factor changes
// @Tags         wizard
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Draft ID"
// @Param        index    path      int                  true  "Item position"
// @Param        payload  body      service.ItemRequest  true  "Item fields"
// @Success      200      {object}  response.Response{data=service.WizardResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/wizard/{id}/items/{index} [put]
func (h *WizardHandler) UpdateItem(c *gin.Context) {
	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid item index"))
		return
	}

	draft, err := h.wizardService.UpdateItem(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), index, req)
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, draft))
}

// RemoveItem deletes a line item by position
// @Summary      Remove line item
// @Description  Deletes the item at the given position; later indices shift down, out of range is a no-op
// @Tags         wizard
// @Security     BearerAuth
// @Produce      json
// @Param        id     path      string  true  "Draft ID"
// @Param        index  path      int     true  "Item position"
// @Success      200    {object}  response.Response{data=service.WizardResponse}
// @Failure      404    {object}  response.Response
// @Router       /api/wizard/{id}/items/{index} [delete]
func (h *WizardHandler) RemoveItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid item index"))
		return
	}
	h.respond(c, func() (*service.WizardResponse, error) {
		return h.wizardService.RemoveItem(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), index)
	})
}

// Preview returns the rendered projection of the draft
// @Summary      Preview draft
// @Description  Pure projection of the draft with computed subtotal, 0% tax and total
// @Tags         wizard
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Draft ID"
// @Success      200  {object}  response.Response{data=render.Preview}
// @Failure      404  {object}  response.Response
// @Router       /api/wizard/{id}/preview [get]
func (h *WizardHandler) Preview(c *gin.Context) {
	draft, err := h.wizardService.Draft(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, render.BuildPreview(*draft, "")))
}

// PreviewPDF renders the draft as a printable PDF document
// @Summary      Preview draft as PDF
// @Tags         wizard
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id  path  string  true  "Draft ID"
// @Success      200
// @Failure      404  {object}  response.Response
// @Router       /api/wizard/{id}/pdf [get]
func (h *WizardHandler) PreviewPDF(c *gin.Context) {
	draft, err := h.wizardService.Draft(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	document, err := render.PDF(*draft, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+draft.Details.InvoiceNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", document)
}

type sendRequest struct {
	Signature string `json:"signature"`
}

// Send commits the draft with the captured signature
// @Summary      Send invoice
// @Description  Only available on the review step: stores the invoice, marks it sent and discards the session
// @Tags         wizard
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string       true  "Draft ID"
// @Param        payload  body      sendRequest  true  "Captured signature (image data URL, optional)"
// @Success      201      {object}  response.Response{data=service.InvoiceResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/wizard/{id}/send [post]
func (h *WizardHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if req.Signature != "" {
		if _, err := signature.Parse(req.Signature); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
	}

	invoice, err := h.wizardService.Send(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDraftNotFound):
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		case errors.Is(err, service.ErrNotOnReview):
			c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		}
		return
	}

	// A nil invoice means no authenticated user: the store declined silently
	// and the draft is kept.
	if invoice == nil {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, nil))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, invoice))
}

// respond runs a wizard operation and maps ErrDraftNotFound to 404.
func (h *WizardHandler) respond(c *gin.Context, op func() (*service.WizardResponse, error)) {
	draft, err := op()
	if err != nil {
		if errors.Is(err, service.ErrDraftNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, draft))
}
