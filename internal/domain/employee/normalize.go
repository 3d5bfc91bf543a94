// Package employee converts parsed sheet rows into the typed records the
// portal serves: the administrative profile, salary statements and the three
// generic ledger categories.
package employee

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"portal/internal/sheetcsv"
)

// MonthNames are the ar-IQ long month names used for salary statement labels.
var MonthNames = []string{
	"كانون الثاني", "شباط", "آذار", "نيسان", "أيار", "حزيران",
	"تموز", "آب", "أيلول", "تشرين الأول", "تشرين الثاني", "كانون الأول",
}

// MonthCurrent is the sentinel month label used when a statement's date does
// not match the year-month pattern.
const MonthCurrent = "الحالي"

// yearMonthPattern extracts (year, month) from a statement date string:
// four digits, a / or - separator, then one or two digits.
var yearMonthPattern = regexp.MustCompile(`(\d{4})[/-](\d{1,2})`)

var nonAmountChars = regexp.MustCompile(`[^\d.-]`)

// NormalizeProfile finds the single admin row whose first column equals id
// and maps it positionally. Absence of the row is a fatal lookup error.
func NormalizeProfile(rows [][]string, id string) (Profile, error) {
	for _, row := range rows {
		if len(row) > 0 && row[0] == id {
			return Profile{
				ID:              cell(row, 0),
				Name:            cell(row, 1),
				Education:       cell(row, 2),
				Job:             cell(row, 3),
				Grade:           cell(row, 4),
				Stage:           cell(row, 5),
				BaseSalary:      cell(row, 6),
				PromotionDate:   cell(row, 7),
				LastRaise:       cell(row, 8),
				DueBefore:       cell(row, 9),
				Commendations:   cell(row, 10),
				DueAfter:        cell(row, 11),
				JoinDate:        cell(row, 12),
				PromotionStatus: cell(row, 13),
				Rollover:        cell(row, 14),
				// Column 15 (service duration) is derived by the sheet and skipped.
				AnnualLeave: cellDefault(row, 16, "0"),
				SickLeave:   cellDefault(row, 17, "0"),
			}, nil
		}
	}
	return Profile{}, ErrNotFound
}

// NormalizeSalaries maps the rows of one salary sheet to statements for id.
// An unresolvable identifier column means "no data", not an error.
func NormalizeSalaries(rows [][]string, id string) []SalaryStatement {
	if len(rows) < 2 {
		return nil
	}

	header := rows[0]
	idIdx := sheetcsv.FindColumn(header, sheetcsv.IdentifierCandidates)
	netIdx := sheetcsv.FindColumn(header, sheetcsv.NetSalaryCandidates)
	dateIdx := sheetcsv.FindColumn(header, sheetcsv.SalaryDateCandidates)
	if idIdx == -1 {
		return nil
	}

	var out []SalaryStatement
	for _, row := range rows[1:] {
		if cell(row, idIdx) != id {
			continue
		}

		var details []LineItem
		for i, label := range header {
			if i == idIdx || i == dateIdx || label == "" {
				continue
			}
			value := cell(row, i)
			if value == "" || value == "0" {
				continue
			}
			details = append(details, LineItem{Label: label, Value: value})
		}

		rawDate := ""
		if dateIdx != -1 {
			rawDate = cell(row, dateIdx)
		}
		month, year := deriveMonthYear(rawDate, time.Now())

		net := "0"
		if netIdx != -1 {
			net = cell(row, netIdx)
		}

		out = append(out, SalaryStatement{
			Month:     month,
			Year:      year,
			NetSalary: net,
			Details:   details,
			RawDate:   rawDate,
		})
	}
	return out
}

// NormalizeLedger maps the rows of a bonus, dispatch or extra-hours sheet to
// ledger records for id. Rows whose parsed amount is zero or negative are
// dropped; that is a business rule, not a parse failure.
func NormalizeLedger(rows [][]string, id string) []LedgerRecord {
	if len(rows) < 2 {
		return nil
	}

	header := rows[0]
	idIdx := sheetcsv.FindColumn(header, sheetcsv.IdentifierCandidates)
	amountIdx := sheetcsv.FindColumn(header, sheetcsv.AmountCandidates)
	nameIdx := sheetcsv.FindColumn(header, sheetcsv.NameCandidates)
	dateIdx := sheetcsv.FindColumn(header, sheetcsv.DateCandidates)
	if idIdx == -1 {
		return nil
	}

	var out []LedgerRecord
	for _, row := range rows[1:] {
		if cell(row, idIdx) != id {
			continue
		}

		amountStr := "0"
		if amountIdx != -1 {
			amountStr = cell(row, amountIdx)
		}
		amount := ParseAmount(amountStr)
		if !amount.IsPositive() {
			continue
		}

		name := "Record"
		switch {
		case nameIdx != -1:
			name = cell(row, nameIdx)
		case amountIdx != -1 && header[amountIdx] != "":
			name = header[amountIdx]
		}

		date := ""
		if dateIdx != -1 {
			// Keep only the date part of a "date time" value.
			date, _, _ = strings.Cut(cell(row, dateIdx), " ")
		}

		out = append(out, LedgerRecord{Name: name, Amount: amount, Date: date})
	}
	return out
}

// MergeSalaryHistory combines the current and archived statements and sorts
// them newest first by parsed (year, month), falling back to raw date string
// comparison when a date does not match the year-month pattern.
func MergeSalaryHistory(current, archive []SalaryStatement) []SalaryStatement {
	merged := make([]SalaryStatement, 0, len(current)+len(archive))
	merged = append(merged, current...)
	merged = append(merged, archive...)

	sort.SliceStable(merged, func(i, j int) bool {
		yi, mi, oki := parseYearMonth(merged[i].RawDate)
		yj, mj, okj := parseYearMonth(merged[j].RawDate)
		if oki && okj {
			if yi != yj {
				return yi > yj
			}
			return mi > mj
		}
		return merged[i].RawDate > merged[j].RawDate
	})
	return merged
}

// ParseAmount strips everything but digits, dot and minus from s and parses
// the remainder. Unparseable input yields zero.
func ParseAmount(s string) decimal.Decimal {
	cleaned := nonAmountChars.ReplaceAllString(s, "")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func deriveMonthYear(rawDate string, now time.Time) (month, year string) {
	month = MonthCurrent
	year = strconv.Itoa(now.Year())
	if y, m, ok := parseYearMonth(rawDate); ok {
		year = strconv.Itoa(y)
		month = MonthNames[m-1]
	}
	return month, year
}

func parseYearMonth(rawDate string) (year, month int, ok bool) {
	match := yearMonthPattern.FindStringSubmatch(rawDate)
	if match == nil {
		return 0, 0, false
	}
	year, _ = strconv.Atoi(match[1])
	month, _ = strconv.Atoi(match[2])
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func cellDefault(row []string, i int, fallback string) string {
	if value := cell(row, i); value != "" {
		return value
	}
	return fallback
}
