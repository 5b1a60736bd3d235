package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"stockresearch/internal/model"
	"stockresearch/internal/service"
)

// ResearchHandler handles the daily pick, suggestion and research endpoints.
type ResearchHandler struct {
	researchService service.ResearchService
}

// NewResearchHandler creates a new research handler.
func NewResearchHandler(researchService service.ResearchService) *ResearchHandler {
	return &ResearchHandler{researchService: researchService}
}

// StockOfDay godoc
// @Summary Get the pinned daily pick
// @Tags research
// @Produce json
// @Success 200 {object} model.ResearchView
// @Failure 401 {object} errors.ErrorResponse
// @Router /stock-of-day [get]
func (h *ResearchHandler) StockOfDay(c echo.Context) error {
	record := h.researchService.StockOfDay(c.Request().Context())
	return c.JSON(http.StatusOK, model.NewResearchView(record))
}

// Search godoc
// @Summary Suggest tickers by symbol or name
// @Tags research
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {array} model.Ticker
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /search [get]
func (h *ResearchHandler) Search(c echo.Context) error {
	tickers, err := h.researchService.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return respondError(err)
	}
	if tickers == nil {
		tickers = []model.Ticker{}
	}
	return c.JSON(http.StatusOK, tickers)
}

// Research godoc
// @Summary Synthesize research for a ticker
// @Tags research
// @Produce json
// @Param ticker path string true "Ticker symbol"
// @Success 200 {object} model.ResearchView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /research/{ticker} [get]
func (h *ResearchHandler) Research(c echo.Context) error {
	record, err := h.researchService.Research(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, model.NewResearchView(record))
}
