// Package export renders license views as an XLSX workbook.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"nexuscomply/internal/license/models"
)

// SheetName is the single worksheet of an export.
const SheetName = "Licenses"

// ContentType is the MIME type of the workbook Write produces.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var header = []any{
	"ID", "License Key", "Software", "Type", "Vendor", "Region",
	"Current Usage", "Max Usage", "Usage %", "Pressure",
	"Valid From", "Valid To", "Days Left", "Status", "Expiring Soon",
}

// Filename names an export generated at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("licenses-%s.xlsx", now.UTC().Format("20060102-150405"))
}

// Write encodes views as one header row and one row per license, in order.
func Write(w io.Writer, views []models.View) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, v := range views {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := rowOf(v)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func rowOf(v models.View) []any {
	return []any{
		int64(v.ID),
		v.LicenseKey,
		v.SoftwareName,
		string(v.LicenseType),
		v.VendorName,
		v.Region,
		v.CurrentUsage,
		v.MaxUsage,
		fmt.Sprintf("%.1f", v.UsagePercent),
		string(v.Pressure),
		v.ValidFrom.String(),
		v.ValidTo.String(),
		v.DaysUntilExpiry,
		string(v.Lifecycle),
		yesNo(v.ExpiringSoon),
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
