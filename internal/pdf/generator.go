package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hieuld/liftcare/internal/model"
)

// VisitLog is everything the exported visit history needs about one customer.
type VisitLog struct {
	CustomerName string
	CompanyName  string
	Address      string
	Entries      []model.WarrantyHistoryEntry
}

type Generator struct {
	fontName string
	fontData []byte
}

// NewGenerator loads the unicode font shipped next to the report template.
// The visit log is Vietnamese text, so the built-in core fonts cannot render it.
func NewGenerator(fontPath string) (*Generator, error) {
	data, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf font: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}
	return &Generator{fontName: "NotoSans", fontData: data}, nil
}

func (g *Generator) Generate(log VisitLog) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.AddUTF8FontFromBytes(g.fontName, "", g.fontData)
	pdf.AddUTF8FontFromBytes(g.fontName, "B", g.fontData)

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Lịch sử bảo hành / bảo trì", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Khách hàng: %s", log.CustomerName), "", 1, "L", false, 0, "")
	if strings.TrimSpace(log.CompanyName) != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Công ty: %s", log.CompanyName), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Địa chỉ: %s", log.Address), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []string{"STT", "Ngày", "Công tác", "Nội dung", "Ghi chú"}
	colWidths := []float64{12, 24, 34, 70, 40}
	drawTableRow(pdf, g.fontName, headers, colWidths, true)

	for _, entry := range log.Entries {
		row := []string{
			fmt.Sprintf("%d", entry.SequenceNumber),
			formatDate(entry.Date),
			taskTypeLabel(entry.TaskType),
			strings.Join(entry.MaintenanceContents, "; "),
			entry.Notes,
		}
		drawTableRow(pdf, g.fontName, row, colWidths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 9)
	for i, col := range cols {
		align := "L"
		if i == 0 {
			align = "C"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func taskTypeLabel(taskType model.TaskType) string {
	switch taskType {
	case model.TaskTypeMaintenance:
		return "Bảo trì"
	case model.TaskTypeWarranty:
		return "Bảo hành"
	case model.TaskTypeCustomerRequestedRepair:
		return "KH yêu cầu"
	case model.TaskTypeCompanyRequestedRepair:
		return "Cty yêu cầu"
	default:
		return "Khác"
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02/01/2006")
}
