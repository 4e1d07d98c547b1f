package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/arinovich/bookwidget/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

// widget types supported by the hosted embed page.
const (
	WidgetCalendar = "calendar"
	WidgetButton   = "button"
)

type EmbedHandler struct {
	catalog catalog.CatalogUseCase
	baseURL string
}

type embedResponse struct {
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

func NewEmbedHandler(catalogService catalog.CatalogUseCase, baseURL string) *EmbedHandler {
	return &EmbedHandler{catalog: catalogService, baseURL: baseURL}
}

func (h *EmbedHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id/embed-snippet", h.snippet)
}

func (h *EmbedHandler) snippet(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid experience id"})
		return
	}

	widget := c.DefaultQuery("widget", WidgetCalendar)
	if widget != WidgetCalendar && widget != WidgetButton {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown widget type"})
		return
	}

	experience, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	embedURL := fmt.Sprintf("%s/embed?widget=%s&key=%s",
		h.baseURL, url.QueryEscape(widget), url.QueryEscape(experience.EmbedKey))

	c.JSON(http.StatusOK, embedResponse{
		URL: embedURL,
		Snippet: fmt.Sprintf(
			`<iframe src="%s" style="border:none;width:100%%;min-height:640px" title="%s booking"></iframe>`,
			embedURL, experience.Name),
	})
}
