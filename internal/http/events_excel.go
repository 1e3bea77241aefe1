package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"engage-a2p/internal/domain"
	"engage-a2p/internal/repository"

	"github.com/xuri/excelize/v2"
)

// complianceEventExportHeader audit export column order.
var complianceEventExportHeader = []string{
	"Event ID",
	"Event Type",
	"Payload",
	"Created At",
}

const exportMaxEvents = 10000

// EventsExport GET /a2p/events/export — xlsx audit dump for operators and
// carrier audits.
func (h *A2PHandler) EventsExport(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireAuth(w, r)
	if !ok {
		return
	}

	filters := repository.EventFilters{EventType: r.URL.Query().Get("type")}
	events, _, err := h.eventsRepo.ListEvents(r.Context(), identity.TenantID, filters, 1, exportMaxEvents)
	if err != nil {
		writeError(w, &domain.PersistenceError{Operation: "event_list", Err: err})
		return
	}

	data, err := generateEventsExcel(events)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: "export_failed", Message: err.Error()})
		return
	}

	filename := fmt.Sprintf("compliance-events-%s.xlsx", time.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

// generateEventsExcel renders the event log as an xlsx workbook.
func generateEventsExcel(events []*domain.ComplianceEvent) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	sheetName := "Compliance Events"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range complianceEventExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	columnWidths := []float64{
		38, // Event ID
		32, // Event Type
		80, // Payload
		22, // Created At
	}
	for i := range complianceEventExportHeader {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, columnWidths[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, event := range events {
		row := rowIdx + 2 // row 1 is the header
		values := []any{
			event.EventID,
			event.EventType,
			string(event.Payload),
			event.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close excel file: %w", err)
	}

	return buf.Bytes(), nil
}
