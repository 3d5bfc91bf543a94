package sheetcsv

import "strings"

// Column meaning is not declared anywhere in the source sheets; it is inferred
// by matching header text against these fixed candidate lists. The fragments
// are the exact Arabic terms the sheets use and must not be normalized or
// translated, or existing sheets stop resolving.
var (
	// IdentifierCandidates locates the employee-number column.
	IdentifierCandidates = []string{"الرقم الوظيفي"}

	// AmountCandidates locates the monetary value column of a ledger sheet.
	AmountCandidates = []string{"مبلغ", "قيمة", "إجمالي", "مكافأة", "إيفاد", "ساعات إضافية", "القيمة", "الإضافي"}

	// NameCandidates locates the descriptive label column of a ledger sheet.
	NameCandidates = []string{"اسم", "عنوان", "السبب", "نوع", "البيان"}

	// DateCandidates locates a date-like column of a ledger sheet.
	DateCandidates = []string{"تاريخ", "Date", "date", "وقت", "شهر"}

	// NetSalaryCandidates locates the net-salary column of a salary sheet.
	NetSalaryCandidates = []string{"صافي الراتب"}

	// SalaryDateCandidates locates the pay-period date column of a salary sheet.
	SalaryDateCandidates = []string{"التاريخ"}
)

// FindColumn returns the zero-based index of the header cell matching the
// candidate list, or -1 when no cell matches. Matching is case-sensitive
// substring containment. Candidates are tried in list order and the first
// candidate found anywhere in the header wins; ties within one candidate go
// to the leftmost header cell.
func FindColumn(header []string, candidates []string) int {
	for _, candidate := range candidates {
		for i, cell := range header {
			if strings.Contains(cell, candidate) {
				return i
			}
		}
	}
	return -1
}
