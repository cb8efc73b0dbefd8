package models

import (
	"fmt"
	"strings"
)

// StatementFormat selects the statement document type
type StatementFormat string

const (
	StatementFormatPDF StatementFormat = "pdf"
	StatementFormatCSV StatementFormat = "csv"
)

func ParseStatementFormat(s string) (StatementFormat, error) {
	switch f := StatementFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case StatementFormatPDF, StatementFormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported statement format %q", s)
	}
}

// PathSuffix is the statement route suffix under /api/accounts/{accountNumber}
func (f StatementFormat) PathSuffix() string {
	if f == StatementFormatPDF {
		return "/statement.pdf"
	}
	return "/statement"
}
