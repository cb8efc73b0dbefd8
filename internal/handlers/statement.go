package handlers

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	csvStatementHeader = "id,type,amount,timestamp,sourceAccount,destinationAccount,description\n"

	pdfTop        = 750
	pdfBottom     = 50
	pdfLineHeight = 14
	pdfMargin     = 50
)

func renderStatementCSV(entries []TransactionView) string {
	var sb strings.Builder
	sb.WriteString(csvStatementHeader)
	for _, t := range entries {
		fmt.Fprintf(&sb, "%d,%s,%s,%s,%s,%s,%s\n",
			t.ID, t.Type, moneyString(t.Amount.Decimal()), t.Timestamp,
			t.SourceAccount, t.DestinationAccount,
			strings.ReplaceAll(t.Description, ",", " "))
	}
	return sb.String()
}

func statementLine(t TransactionView) string {
	return fmt.Sprintf("%-8d %-12s %-12s %-24s %-16s %-16s",
		t.ID, t.Type, moneyString(t.Amount.Decimal()), t.Timestamp, t.SourceAccount, t.DestinationAccount)
}

// renderStatementPDF lays the statement out on US Letter pages in Helvetica.
// Each page is one content stream of positioned text lines.
func renderStatementPDF(account AccountView, entries []TransactionView) []byte {
	owner := ""
	if account.Owner != nil {
		owner = account.Owner.FirstName + " " + account.Owner.LastName
	}

	var pages []string
	var page strings.Builder
	y := pdfTop

	writeText(&page, "F2", 14, pdfTop, "Statement for account: "+account.AccountNumber)
	writeText(&page, "F1", 10, pdfTop-30, "Owner: "+owner+"    Balance: "+moneyString(account.Balance.Decimal()))
	y -= 40
	writeText(&page, "F1", 10, y, fmt.Sprintf("%-8s %-12s %-12s %-24s %-16s %-16s",
		"ID", "TYPE", "AMOUNT", "TIMESTAMP", "SRC", "DST"))
	y -= pdfLineHeight

	for _, t := range entries {
		if y < pdfBottom {
			pages = append(pages, page.String())
			page.Reset()
			y = pdfTop
		}
		writeText(&page, "F1", 10, y, statementLine(t))
		y -= pdfLineHeight
	}
	pages = append(pages, page.String())

	return assemblePDF(pages)
}

func writeText(sb *strings.Builder, font string, size, y int, text string) {
	fmt.Fprintf(sb, "BT /%s %d Tf %d %d Td (%s) Tj ET\n", font, size, pdfMargin, y, escapePDFText(text))
}

func escapePDFText(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}

// assemblePDF writes a PDF 1.4 file: catalog, page tree, two fonts, then one
// page and one content stream object per page, followed by the xref table
func assemblePDF(contents []string) []byte {
	const firstPageObj = 5

	var objects []string
	kids := make([]string, len(contents))
	for i := range contents {
		kids[i] = fmt.Sprintf("%d 0 R", firstPageObj+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(contents)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>",
	)
	for i, content := range contents {
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>", firstPageObj+2*i+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}
