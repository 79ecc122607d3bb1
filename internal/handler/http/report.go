package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/handler/http/response"
)

type ReportHandler interface {
	// ExportCSV handles GET /reports/export.csv
	ExportCSV(w http.ResponseWriter, r *http.Request)
	// ExportExcel handles GET /reports/export.xlsx
	ExportExcel(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func (h *reportHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.FormatCSV)
}

func (h *reportHandlerImpl) ExportExcel(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, report.FormatXLSX)
}

func (h *reportHandlerImpl) export(w http.ResponseWriter, r *http.Request, format report.Format) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	req := report.ExportRequest{
		Filter:   filter,
		Format:   format,
		Columns:  queryList(r, "columns"),
		BaseName: r.URL.Query().Get("name"),
	}

	file, err := h.reportService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		slog.Error("Failed to write export", "file", file.FileName, "error", err)
	}
}
