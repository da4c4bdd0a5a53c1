package payroll

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/divan/num2words"
	"github.com/jung-kurt/gofpdf"
)

type PayslipDocument struct {
	Company     string
	Employee    Employee
	Period      string
	Breakdown   Breakdown
	GeneratedAt time.Time
}

// RenderPayslip lays out a single-page A4 payslip and returns the PDF bytes.
func RenderPayslip(doc PayslipDocument) ([]byte, error) {
	b := doc.Breakdown
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payslip "+doc.Period, false)
	pdf.SetAuthor(doc.Company, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, doc.Company, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Payslip for "+PeriodLabel(doc.Period), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	details := [][2]string{
		{"Employee", doc.Employee.FullName()},
		{"Employee ID", doc.Employee.ID},
		{"Designation", doc.Employee.Designation},
		{"Department", doc.Employee.Department},
		{"PAN", doc.Employee.PAN},
		{"Bank Account", maskAccount(doc.Employee.BankAccount)},
	}
	for _, d := range details {
		if strings.TrimSpace(d[1]) == "" {
			continue
		}
		pdf.CellFormat(40, 6, d[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, d[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(60, 8, "Earnings", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Amount (INR)", "1", 0, "R", true, 0, "")
	pdf.CellFormat(60, 8, "Deductions", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 8, "Amount (INR)", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	earnings := b.Earnings()
	deductions := b.Deductions()
	rows := len(earnings)
	if len(deductions) > rows {
		rows = len(deductions)
	}
	for i := 0; i < rows; i++ {
		var left, right Line
		if i < len(earnings) {
			left = earnings[i]
		}
		if i < len(deductions) {
			right = deductions[i]
		}
		pdf.CellFormat(60, 7, left.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, amountCell(left), "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 7, right.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, amountCell(right), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 8, "Gross Earnings", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, FormatINR(b.GrossSalary), "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 8, "Total Deductions", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 8, FormatINR(b.TotalDeductions), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Net Pay: INR "+FormatINR(b.NetSalary), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, AmountInWords(b.NetSalary), "", "L", false)

	generated := doc.GeneratedAt
	if generated.IsZero() {
		generated = time.Now().UTC()
	}
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s. This is a system generated payslip.", generated.Format("02 Jan 2006")), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render payslip: %w", err)
	}
	return buf.Bytes(), nil
}

func amountCell(line Line) string {
	if line.Label == "" {
		return ""
	}
	return FormatINR(line.Amount)
}

// FormatINR groups digits the Indian way: 1234567 -> 12,34,567.
func FormatINR(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	if len(digits) <= 3 {
		return sign + digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return sign + strings.Join(groups, ",") + "," + tail
}

// AmountInWords renders 500 as "Rupees Five hundred only".
func AmountInWords(amount int64) string {
	prefix := ""
	if amount < 0 {
		prefix = "minus "
		amount = -amount
	}
	words := prefix + num2words.Convert(int(amount))
	return "Rupees " + strings.ToUpper(words[:1]) + words[1:] + " only"
}

func maskAccount(account string) string {
	account = strings.TrimSpace(account)
	if len(account) <= 4 {
		return account
	}
	return strings.Repeat("X", len(account)-4) + account[len(account)-4:]
}
