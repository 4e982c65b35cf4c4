package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"lindel.lk/lims/models"
)

var registerHeaders = []string{
	"CRF No", "Sample No", "Customer", "Sample Type", "Description",
	"Reception Date", "Status", "Test Value", "Remarks",
}

func registerRows(crfs []models.CRF) [][]interface{} {
	var rows [][]interface{}
	for _, crf := range crfs {
		for _, sample := range crf.Samples {
			reception := ""
			if !crf.ReceptionDate.IsZero() {
				reception = crf.ReceptionDate.Time().Format("2006-01-02")
			}
			rows = append(rows, []interface{}{
				crf.CRFID, sample.SampleID, crf.Customer, crf.SampleType,
				sample.Description, reception, string(crf.Status),
				sample.TestValue, sample.Remarks,
			})
		}
	}
	return rows
}

// ExportSampleRegister downloads the laboratory's sample register as an
// Excel workbook. ?status= narrows to one workflow status.
func ExportSampleRegister(w http.ResponseWriter, r *http.Request) {
	crfs := Store.ListCRFs()
	if status := r.URL.Query().Get("status"); status != "" {
		crfs = Store.ListCRFsByStatus(models.CRFStatus(status))
	}

	f, err := createRegisterWorkbook(crfs)
	if err != nil {
		http.Error(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}
	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	audit(r, "export", "register", fmt.Sprintf("exported %d CRFs", len(crfs)))

	filename := fmt.Sprintf("sample_register_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// ExportSampleRegisterCSV is the plain-text variant of the register.
func ExportSampleRegisterCSV(w http.ResponseWriter, r *http.Request) {
	crfs := Store.ListCRFs()
	if status := r.URL.Query().Get("status"); status != "" {
		crfs = Store.ListCRFsByStatus(models.CRFStatus(status))
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Write(registerHeaders)
	for _, row := range registerRows(crfs) {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprintf("%v", v)
		}
		cw.Write(record)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		http.Error(w, "Failed to generate CSV file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("sample_register_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))

	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// createRegisterWorkbook renders one row per sample with the CRF's
// customer context repeated, the way the paper register is kept.
func createRegisterWorkbook(crfs []models.CRF) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Sample Register"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
			Size: 16,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "center",
		},
	})
	f.SetCellValue(sheetName, "A1", "Sample Register")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetRowHeight(sheetName, 1, 30)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	for colIdx, header := range registerHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		col, _ := excelize.ColumnNumberToName(colIdx + 1)
		f.SetColWidth(sheetName, col, col, 20)
	}

	dataStyle, _ := f.NewStyle(&excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "CCCCCC", Style: 1},
			{Type: "right", Color: "CCCCCC", Style: 1},
			{Type: "top", Color: "CCCCCC", Style: 1},
			{Type: "bottom", Color: "CCCCCC", Style: 1},
		},
	})
	for rowIdx, row := range registerRows(crfs) {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheetName, cell, value)
			f.SetCellStyle(sheetName, cell, cell, dataStyle)
		}
	}

	return f, nil
}
