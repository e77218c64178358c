package api

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// Export modes. ALL is the full history and takes no period range.
const (
	ExportWater       = "WATER"
	ExportElectricity = "ELECTRICITY"
	ExportBoth        = "BOTH"
	ExportAll         = "ALL"
)

// ValidExportMode reports whether mode is one of the accepted values.
func ValidExportMode(mode string) bool {
	switch mode {
	case ExportWater, ExportElectricity, ExportBoth, ExportAll:
		return true
	}
	return false
}

// ExportFilename derives the download name: the utility company for single
// types, Completas for both, a fixed name for the full history.
func ExportFilename(mode string, start, end MonthYear) string {
	if mode == ExportAll {
		return "Facturas_Historico_Completo.xlsx"
	}
	company := ""
	switch mode {
	case ExportWater:
		company = "AguasAndinas"
	case ExportElectricity:
		company = "Enel"
	case ExportBoth:
		company = "Completas"
	}
	return fmt.Sprintf("Facturas_%s_%s_a_%s.xlsx", company, start.String(), end.String())
}

// ExportExcel requests the spreadsheet for a mode and, except for ALL, an
// inclusive month range. It returns the binary stream plus the filename the
// browser download should use. The caller must close the reader.
func (c *Client) ExportExcel(ctx context.Context, token, mode string, start, end MonthYear) (io.ReadCloser, string, error) {
	if !ValidExportMode(mode) {
		return nil, "", &Error{Message: "Tipo de exportación inválido."}
	}
	params := url.Values{}
	params.Set("meter_type", mode)
	if mode != ExportAll {
		if start.IsZero() || end.IsZero() {
			return nil, "", &Error{Message: "Por favor, completa todos los campos."}
		}
		if start.Period() > end.Period() {
			return nil, "", ErrRangeInverted
		}
		params.Set("start_date", start.String())
		params.Set("end_date", end.String())
	}
	body, err := c.getBinary(ctx, token, "/writer/export-excel/", params)
	if err != nil {
		return nil, "", err
	}
	return body, ExportFilename(mode, start, end), nil
}
