package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/aradsms/contactbook/internal/contact_service/domain"
)

// ExportFormat selects the file format written by ExportContacts.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

var exportHeaders = []string{"ID", "Name", "Phone", "Email"}

// ParseExportFormat accepts csv or xlsx in any case; empty means csv.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportXLSX:
		return ExportXLSX, nil
	}
	return "", domain.NewValidationError("format", "Unsupported export format: "+s)
}

// ContentType is the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// ExportContacts writes the contacts matching filter to w and returns the number of rows written.
func (a *Application) ExportContacts(ctx context.Context, w io.Writer, format ExportFormat, filter domain.Filter) (int, error) {
	contacts, err := a.List(ctx, filter)
	if err != nil {
		return 0, err
	}

	switch format {
	case ExportCSV:
		err = writeContactsCSV(w, contacts)
	case ExportXLSX:
		err = writeContactsXLSX(w, contacts)
	default:
		return 0, domain.NewValidationError("format", "Unsupported export format: "+string(format))
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "Contact export failed", "format", format, "error", err)
		return 0, fmt.Errorf("writing %s export: %w", format, err)
	}

	exportedRowsCounter.WithLabelValues(string(format)).Add(float64(len(contacts)))
	a.logger.InfoContext(ctx, "Exported contacts", "format", format, "num_records", len(contacts))
	return len(contacts), nil
}

func writeContactsCSV(w io.Writer, contacts []*domain.Contact) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return err
	}
	for _, ct := range contacts {
		if err := writer.Write([]string{strconv.FormatInt(ct.ID, 10), ct.Name, ct.Phone, ct.Email}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeContactsXLSX(w io.Writer, contacts []*domain.Contact) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Contacts"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, ct := range contacts {
		// Phone stays a string cell so leading zeros survive.
		row := []any{ct.ID, ct.Name, ct.Phone, ct.Email}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(sheet, "B", "D", 24); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}
