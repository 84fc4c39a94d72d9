package handlers

import (
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/boylish/Task-Manager-backend/logging"
	"github.com/boylish/Task-Manager-backend/services"
)

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportTasksReport streams the tasks workbook as an attachment. Admin-only,
// enforced on the route.
func (h *ReportHandler) ExportTasksReport(w http.ResponseWriter, r *http.Request) {
	file, filename, err := h.service.ExportTasksReport(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	streamWorkbook(w, file, filename)
}

// ExportUsersReport streams the users workbook as an attachment. Admin-only,
// enforced on the route.
func (h *ReportHandler) ExportUsersReport(w http.ResponseWriter, r *http.Request) {
	file, filename, err := h.service.ExportUsersReport(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	streamWorkbook(w, file, filename)
}

func streamWorkbook(w http.ResponseWriter, file *excelize.File, filename string) {
	defer file.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := file.Write(w); err != nil {
		// Headers are already on the wire; the broken download is all the
		// client will see.
		logging.Logger.Errorf("Event ID: REPORT_STREAM_FAILED, Description: Failed to stream workbook %s: %v", filename, err)
	}
}
