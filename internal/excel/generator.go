package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/marketpay/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(report model.PaymentsReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	professionsSheet := "Professions"
	file.NewSheet(professionsSheet)
	if err := g.writeProfessions(file, professionsSheet, report); err != nil {
		return nil, err
	}

	clientsSheet := "Clients"
	file.NewSheet(clientsSheet)
	if err := g.writeClients(file, clientsSheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.PaymentsReport) error {
	totalPaid := 0.0
	for _, profession := range report.Professions {
		totalPaid += profession.Total
	}

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Report")
	set("B1", "Payments by profession and client")
	set("A2", "Period start")
	set("B2", formatDate(report.PeriodStart))
	set("A3", "Period end")
	set("B3", formatDate(report.PeriodEnd))
	set("A4", "Professions")
	set("B4", len(report.Professions))
	set("A5", "Clients")
	set("B5", len(report.Clients))
	set("A6", "Total paid")
	set("B6", totalPaid)

	_ = file.SetColWidth(sheet, "A", "A", 20)
	_ = file.SetColWidth(sheet, "B", "B", 36)
	return nil
}

func (g *Generator) writeProfessions(file *excelize.File, sheet string, report model.PaymentsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Profession")
	set("B1", "Earned")
	for i, profession := range report.Professions {
		row := i + 2
		set(fmt.Sprintf("A%d", row), profession.Profession)
		set(fmt.Sprintf("B%d", row), profession.Total)
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 16)
	return nil
}

func (g *Generator) writeClients(file *excelize.File, sheet string, report model.PaymentsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Client")
	set("B1", "Paid")
	for i, client := range report.Clients {
		row := i + 2
		set(fmt.Sprintf("A%d", row), client.FullName)
		set(fmt.Sprintf("B%d", row), client.Total)
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "B", 16)
	return nil
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
