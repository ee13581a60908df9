package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/harshWarbhe/revticket/internal/service"
	"github.com/harshWarbhe/revticket/pkg/response"
	"github.com/harshWarbhe/revticket/pkg/telemetry"
)

// ReportHandler handles dashboard and search HTTP requests
type ReportHandler struct {
	dashboardService service.DashboardService
	searchService    service.SearchService
}

// NewReportHandler creates a new report handler
func NewReportHandler(dashboardService service.DashboardService, searchService service.SearchService) *ReportHandler {
	return &ReportHandler{
		dashboardService: dashboardService,
		searchService:    searchService,
	}
}

// GetSystemOverview handles GET /reports/overview
func (h *ReportHandler) GetSystemOverview(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.report.overview")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	result, err := h.dashboardService.GetSystemOverview(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetAttributes(attribute.Int("degraded_sources", len(result.DegradedSources)))
	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}

// SearchAll handles GET /search
func (h *ReportHandler) SearchAll(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.report.search")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	query := c.Query("q")
	span.SetAttributes(attribute.String("query", query))

	result, err := h.searchService.SearchAll(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, result)
}
