// Package render maps a certificate record onto the fixed composition
// certificate layout and materializes it as an HTML document.
package render

import (
	"strconv"
	"strings"

	"github.com/mamadbah2/matcert/internal/domain/models"
)

// MinRows is the number of rows each table shows even when fewer items exist.
const MinRows = 6

const (
	placeholder  = "-"
	notAvailable = "N/A"
	displayDate  = "02/01/06"
)

// Issuer describes the company printed in the certificate header.
type Issuer struct {
	Name    string
	Tagline string
	Address string
}

// DefaultIssuer is used when no issuer is configured.
var DefaultIssuer = Issuer{
	Name:    "C.S CASTINGS PVT. LTD.",
	Tagline: "[A Unit of Hardesh Group Of Companies]",
	Address: "VILL - KUMBH ,OPP POWER GRID,AMLOH ROAD , MANDI GOBINDGARH - 147301 (PB)",
}

// Details is the reference box under the party block.
type Details struct {
	CertificateNumber string
	InvoiceRef        string
	PurchaseOrderRef  string
	CertificateDate   string
	InvoiceDate       string
	PurchaseOrderDate string
}

// RollRow is one row of the roll table. Blank rows pad the table to MinRows.
type RollRow struct {
	Blank          bool
	SerialNumber   string
	RollNumber     string
	RollDimensions string
	Grade          string
	Hardness       string
	ColorCode      string
}

// ChemistryRow is one row of the composition table; Values follow models.Elements.
type ChemistryRow struct {
	Blank      bool
	RollNumber string
	Values     []string
}

// Layout is the fully resolved certificate, ready for a template.
type Layout struct {
	Title        []string
	Issuer       Issuer
	PartyName    string
	PartyAddress string
	Details      Details
	RollHeaders  []string
	RollRows     []RollRow
	ChemHeaders  []string
	ChemRows     []ChemistryRow
	Signatory    string
	Note         string
}

// BlankRollRows counts padding rows in the roll table.
func (l Layout) BlankRollRows() int {
	n := 0
	for _, r := range l.RollRows {
		if r.Blank {
			n++
		}
	}
	return n
}

// Build resolves a record into its layout. It performs no I/O.
func Build(record models.CertificateRecord, issuer Issuer) Layout {
	if issuer == (Issuer{}) {
		issuer = DefaultIssuer
	}

	l := Layout{
		Title:        []string{"COMPOSITION", "CERTIFICATION"},
		Issuer:       issuer,
		PartyName:    record.PartyName,
		PartyAddress: record.PartyAddress,
		Details: Details{
			CertificateNumber: orDefault(record.CertificateNumber, notAvailable),
			InvoiceRef:        orDefault(record.InvoiceRef, notAvailable),
			PurchaseOrderRef:  record.PurchaseOrderRef,
			CertificateDate:   formatDate(record.IssueDate),
			InvoiceDate:       formatDate(record.IssueDate),
			PurchaseOrderDate: formatDate(record.PurchaseOrderDate),
		},
		RollHeaders: []string{"S.No", "Roll No", "Roll Dimensions", "Grade", "Hardness", "Colour Code"},
		ChemHeaders: chemistryHeaders(),
		Signatory:   "AUTHORISED SIGNATORY",
		Note:        "Note: This is a computer-generated document and does not require a signature.",
	}

	rows := len(record.Items)
	if rows < MinRows {
		rows = MinRows
	}
	l.RollRows = make([]RollRow, 0, rows)
	l.ChemRows = make([]ChemistryRow, 0, rows)

	for i, item := range record.Items {
		l.RollRows = append(l.RollRows, RollRow{
			SerialNumber:   strconv.Itoa(i + 1),
			RollNumber:     orDefault(item.RollNumber, placeholder),
			RollDimensions: orDefault(item.RollDimensions, placeholder),
			Grade:          orDefault(string(item.MaterialGrade), placeholder),
			Hardness:       orDefault(item.Hardness, placeholder),
			ColorCode:      orDefault(item.ColorCode, placeholder),
		})

		values := make([]string, len(models.Elements))
		for j, e := range models.Elements {
			values[j] = FormatDecimal(item.ChemicalComposition[e])
		}
		l.ChemRows = append(l.ChemRows, ChemistryRow{
			RollNumber: orDefault(item.RollNumber, placeholder),
			Values:     values,
		})
	}

	for i := len(record.Items); i < MinRows; i++ {
		l.RollRows = append(l.RollRows, RollRow{Blank: true})
		l.ChemRows = append(l.ChemRows, ChemistryRow{Blank: true, Values: make([]string, len(models.Elements))})
	}

	return l
}

// FormatDecimal normalizes a chemical reading for display: a leading "."
// gains a "0" and an empty value becomes "-".
func FormatDecimal(value string) string {
	if value == "" {
		return placeholder
	}
	if strings.HasPrefix(value, ".") {
		return "0" + value
	}
	return value
}

func chemistryHeaders() []string {
	headers := make([]string, 0, len(models.Elements)+1)
	headers = append(headers, "ROLL No")
	for _, e := range models.Elements {
		headers = append(headers, string(e))
	}
	return headers
}

func formatDate(d models.Date) string {
	if d.IsZero() {
		return placeholder
	}
	return d.Format(displayDate)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
