package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/arinovich/bookwidget/internal/service/availability"
	"github.com/arinovich/bookwidget/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type ExperienceHandler struct {
	catalog      catalog.CatalogUseCase
	availability availability.AvailabilityUseCase
}

type experienceResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
	Capacity        int    `json:"capacity"`
	CoverImageURL   string `json:"cover_image_url"`
}

type ticketTypeResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

func NewExperienceHandler(catalogSvc catalog.CatalogUseCase, availabilitySvc availability.AvailabilityUseCase) *ExperienceHandler {
	return &ExperienceHandler{catalog: catalogSvc, availability: availabilitySvc}
}

func (h *ExperienceHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/ticket-types", h.ticketTypes)
	router.GET("/:id/slots", h.slots)
}

func (h *ExperienceHandler) list(c *gin.Context) {
	orgID, err := strconv.ParseInt(c.DefaultQuery("org_id", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid org_id"})
		return
	}

	experiences, err := h.catalog.List(c.Request.Context(), orgID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]experienceResponse, 0, len(experiences))
	for _, e := range experiences {
		resp = append(resp, experienceResponse{
			ID:              e.ID,
			Name:            e.Name,
			Description:     e.Description,
			DurationMinutes: e.DurationMinutes,
			Capacity:        e.Capacity,
			CoverImageURL:   e.CoverImageURL,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ExperienceHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	experience, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, experienceResponse{
		ID:              experience.ID,
		Name:            experience.Name,
		Description:     experience.Description,
		DurationMinutes: experience.DurationMinutes,
		Capacity:        experience.Capacity,
		CoverImageURL:   experience.CoverImageURL,
	})
}

func (h *ExperienceHandler) ticketTypes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	types, err := h.catalog.TicketTypes(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]ticketTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, ticketTypeResponse{ID: t.ID, Name: t.Name, PriceCents: t.PriceCents})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ExperienceHandler) slots(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return
	}

	times, err := h.availability.SlotsForDay(c.Request.Context(), id, day)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, times)
}
