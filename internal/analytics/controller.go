package analytics

import (
	"net/http"
	"strconv"

	"cinebook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetRevenueSummary handles GET /admin/reports/summary
func (ctrl *Controller) GetRevenueSummary(c *gin.Context) {
	summary, err := ctrl.service.GetRevenueSummary(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "Failed to load revenue summary")
		return
	}
	response.RespondJSON(c, http.StatusOK, "Revenue summary retrieved successfully", summary, nil)
}

// GetMovieRevenue handles GET /admin/reports/movies
func (ctrl *Controller) GetMovieRevenue(c *gin.Context) {
	rows, err := ctrl.service.GetMovieRevenue(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "Failed to load movie revenue")
		return
	}
	response.RespondJSON(c, http.StatusOK, "Movie revenue retrieved successfully", rows, nil)
}

// GetDailyBookingStats handles GET /admin/reports/daily?days=30
func (ctrl *Controller) GetDailyBookingStats(c *gin.Context) {
	days := parsePositiveInt(c.Query("days"), DefaultReportDays, MaxReportDays)
	stats, err := ctrl.service.GetDailyBookingStats(c.Request.Context(), days)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "Failed to load daily booking stats")
		return
	}
	response.RespondJSON(c, http.StatusOK, "Daily booking stats retrieved successfully", stats, nil)
}

func parsePositiveInt(value string, defaultValue, maxValue int) int {
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	if n > maxValue {
		return maxValue
	}
	return n
}
