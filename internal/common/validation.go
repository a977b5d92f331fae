package common

import (
	"fmt"
	"slices"
)

// Report document formats
const (
	ReportFormatPDF  = "pdf"
	ReportFormatXLSX = "xlsx"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ValidateReportFormat checks the document format of a rendered report
func ValidateReportFormat(format string) error {
	switch format {
	case ReportFormatPDF, ReportFormatXLSX:
		return nil
	default:
		return fmt.Errorf("unsupported report format '%s'. Supported formats: [%s %s]",
			format, ReportFormatPDF, ReportFormatXLSX)
	}
}
