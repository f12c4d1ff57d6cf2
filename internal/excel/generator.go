package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hieuld/liftcare/internal/model"
)

// ContractSummary is one row group of the workbook: a customer with the
// active contracts covering their equipment.
type ContractSummary struct {
	Customer  model.Customer
	Contracts []model.MaintenanceContract
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the contract overview workbook: one summary sheet with a
// row per (customer, contract) pair and equipment totals.
func (g *Generator) Generate(summaries []ContractSummary) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Hợp đồng"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Khách hàng")
	set("B1", "Công ty")
	set("C1", "Số hợp đồng")
	set("D1", "Bắt đầu")
	set("E1", "Kết thúc")
	set("F1", "Số thang máy")
	set("G1", "Bảo hành")

	row := 2
	for _, summary := range summaries {
		for _, contract := range summary.Contracts {
			number := ""
			if contract.ContractNumber != nil {
				number = *contract.ContractNumber
			}
			elevators := 0
			for _, item := range contract.EquipmentItems {
				quantity := item.Quantity
				if quantity == 0 {
					quantity = 1
				}
				elevators += quantity
			}
			warranty := ""
			if contract.WarrantyOnly {
				warranty = "x"
			}

			set(fmt.Sprintf("A%d", row), summary.Customer.CustomerName)
			set(fmt.Sprintf("B%d", row), summary.Customer.CompanyName)
			set(fmt.Sprintf("C%d", row), number)
			set(fmt.Sprintf("D%d", row), formatDate(contract.StartDate))
			set(fmt.Sprintf("E%d", row), formatDate(contract.EndDate))
			set(fmt.Sprintf("F%d", row), elevators)
			set(fmt.Sprintf("G%d", row), warranty)
			row++
		}
	}

	_ = file.SetColWidth(sheet, "A", "B", 30)
	_ = file.SetColWidth(sheet, "C", "E", 16)
	_ = file.SetColWidth(sheet, "F", "G", 12)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02.01.2006")
}
