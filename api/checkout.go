package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/arinovich/bookwidget/internal/cart"
	"github.com/arinovich/bookwidget/internal/discount"
	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/arinovich/bookwidget/internal/service/checkout"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	service checkout.CheckoutUseCase
}

type startSessionRequest struct {
	OrgID int64 `json:"org_id"`
}

type selectExperienceRequest struct {
	ExperienceID int64 `json:"experience_id"`
}

type selectSlotRequest struct {
	SlotID int64 `json:"slot_id"`
}

type addTicketsRequest struct {
	TicketTypeID int64 `json:"ticket_type_id"`
	Quantity     int   `json:"quantity"`
}

type codeRequest struct {
	Code string `json:"code"`
}

type submitRequest struct {
	Contact checkout.ContactInput `json:"contact"`
	Payment checkout.PaymentInput `json:"payment"`
}

type sessionResponse struct {
	SessionID        string              `json:"session_id"`
	State            string              `json:"state"`
	ExperienceID     int64               `json:"experience_id,omitempty"`
	ExperienceName   string              `json:"experience_name,omitempty"`
	SlotID           int64               `json:"slot_id,omitempty"`
	SlotStartsAt     string              `json:"slot_starts_at,omitempty"`
	Lines            []cart.Line         `json:"lines"`
	PromoCode        *cart.AppliedPromo  `json:"promo_code,omitempty"`
	GiftCard         *giftCardResponse   `json:"gift_card,omitempty"`
	Totals           cart.Totals         `json:"totals"`
	BookingReference string              `json:"booking_reference,omitempty"`
	FailureReason    string              `json:"failure_reason,omitempty"`
}

type giftCardResponse struct {
	Code               string `json:"code"`
	AmountAppliedCents int64  `json:"amount_applied_cents"`
}

func NewCheckoutHandler(service checkout.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

func (h *CheckoutHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.start)
	router.GET("/:id", h.get)
	router.POST("/:id/experience", h.selectExperience)
	router.POST("/:id/slot", h.selectSlot)
	router.POST("/:id/tickets", h.addTickets)
	router.DELETE("/:id/lines/:lineID", h.removeLine)
	router.POST("/:id/promo-code", h.applyPromoCode)
	router.DELETE("/:id/promo-code", h.removePromoCode)
	router.POST("/:id/gift-card", h.applyGiftCard)
	router.DELETE("/:id/gift-card", h.removeGiftCard)
	router.POST("/:id/checkout", h.proceed)
	router.POST("/:id/submit", h.submit)
	router.POST("/:id/retry", h.retry)
	router.POST("/:id/reset", h.reset)
}

func (h *CheckoutHandler) start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.service.StartSession(c.Request.Context(), req.OrgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(draft))
}

func (h *CheckoutHandler) get(c *gin.Context) {
	draft, err := h.service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) selectExperience(c *gin.Context) {
	var req selectExperienceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.service.SelectExperience(c.Request.Context(), c.Param("id"), req.ExperienceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) selectSlot(c *gin.Context) {
	var req selectSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.service.SelectSlot(c.Request.Context(), c.Param("id"), req.SlotID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) addTickets(c *gin.Context) {
	var req addTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.service.AddTickets(c.Request.Context(), c.Param("id"), req.TicketTypeID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) removeLine(c *gin.Context) {
	draft, err := h.service.RemoveLine(c.Request.Context(), c.Param("id"), c.Param("lineID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) applyPromoCode(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.service.ApplyPromoCode(c.Request.Context(), c.Param("id"), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) removePromoCode(c *gin.Context) {
	draft, err := h.service.RemovePromoCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) applyGiftCard(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.service.ApplyGiftCard(c.Request.Context(), c.Param("id"), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) removeGiftCard(c *gin.Context) {
	draft, err := h.service.RemoveGiftCard(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) proceed(c *gin.Context) {
	draft, err := h.service.ProceedToCheckout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.service.Submit(c.Request.Context(), c.Param("id"), req.Contact, req.Payment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) retry(c *gin.Context) {
	draft, err := h.service.TryAgain(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func (h *CheckoutHandler) reset(c *gin.Context) {
	draft, err := h.service.StartOver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(draft))
}

func respondError(c *gin.Context, err error) {
	var rejection *discount.RejectionError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrExperienceNotFound),
		errors.Is(err, domain.ErrTicketTypeNotFound),
		errors.Is(err, domain.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &rejection):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": string(rejection.Reason)})
	case errors.Is(err, domain.ErrSlotSoldOut),
		errors.Is(err, domain.ErrSlotHeld),
		errors.Is(err, checkout.ErrSubmitInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func toSessionResponse(draft *checkout.Draft) sessionResponse {
	resp := sessionResponse{
		SessionID:        draft.SessionID,
		State:            string(draft.State),
		ExperienceID:     draft.ExperienceID,
		ExperienceName:   draft.ExperienceName,
		SlotID:           draft.SlotID,
		Lines:            draft.Cart.Lines,
		PromoCode:        draft.Cart.Promo,
		Totals:           draft.Cart.Totals(),
		BookingReference: draft.BookingReference,
		FailureReason:    draft.FailureReason,
	}
	if resp.Lines == nil {
		resp.Lines = []cart.Line{}
	}
	if !draft.SlotStartsAt.IsZero() {
		resp.SlotStartsAt = draft.SlotStartsAt.Format(time.RFC3339)
	}
	if g := draft.Cart.GiftCard; g != nil {
		// the gift card balance stays private to the holder
		resp.GiftCard = &giftCardResponse{
			Code:               g.Code,
			AmountAppliedCents: draft.Cart.Totals().GiftCardDiscountCents,
		}
	}
	return resp
}
