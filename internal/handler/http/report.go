package http

import (
	"fmt"
	"net/http"

	"github.com/turnilab/turni-backend-go/internal/domain/report"
	"github.com/turnilab/turni-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func parseReportRequest(r *http.Request) report.ReportRequest {
	return report.ReportRequest{
		Kind:           report.Kind(r.URL.Query().Get("kind")),
		Month:          r.URL.Query().Get("month"),
		CollaboratorID: r.URL.Query().Get("collaborator_id"),
	}
}

// Get implements ReportHandler.
func (h *reportHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.reportService.GetReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// ExportCSV implements ReportHandler.
func (h *reportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	req := parseReportRequest(r)

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	data, err := h.reportService.ExportCSV(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("report-%s.csv", req.Kind)
	if req.Month != "" {
		filename = fmt.Sprintf("report-%s-%s.csv", req.Kind, req.Month)
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
