package employee

import "github.com/shopspring/decimal"

// Category names one of the three parallel ledger sheets.
type Category string

const (
	CategoryBonuses    Category = "bonuses"
	CategoryDispatches Category = "dispatches"
	CategoryExtraHours Category = "extra_hours"
)

// Categories lists the ledger categories in their fixed sheet order.
var Categories = []Category{CategoryBonuses, CategoryDispatches, CategoryExtraHours}

// Profile holds the administrative record of one employee. All fields are
// free text keyed positionally from the admin sheet's fixed column layout.
type Profile struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Education       string `json:"education"`
	Job             string `json:"job"`
	Grade           string `json:"grade"`
	Stage           string `json:"stage"`
	BaseSalary      string `json:"baseSalary"`
	PromotionDate   string `json:"promotionDate"`
	LastRaise       string `json:"lastRaise"`
	DueBefore       string `json:"dueBefore"`
	Commendations   string `json:"commendations"`
	DueAfter        string `json:"dueAfter"`
	JoinDate        string `json:"joinDate"`
	PromotionStatus string `json:"promotionStatus"`
	Rollover        string `json:"rollover"`
	AnnualLeave     string `json:"annualLeave"`
	SickLeave       string `json:"sickLeave"`
}

// LineItem is one labelled value inside a salary statement.
type LineItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SalaryStatement is one pay period's posting. RawDate is the sheet's
// original date string; Month and Year are derived from it.
type SalaryStatement struct {
	Month     string     `json:"month"`
	Year      string     `json:"year"`
	NetSalary string     `json:"netSalary"`
	Details   []LineItem `json:"details"`
	RawDate   string     `json:"rawDate"`
}

// LedgerRecord is one row of a bonus, dispatch or extra-hours sheet.
// Date may be empty when the sheet has no date-like column.
type LedgerRecord struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date,omitempty"`
}

// Snapshot aggregates everything known about one employee at the end of one
// sync cycle. It is cached and used as the diff baseline of the next cycle.
type Snapshot struct {
	Profile       Profile           `json:"profile"`
	SalaryHistory []SalaryStatement `json:"salaryHistory"`
	Bonuses       []LedgerRecord    `json:"bonuses"`
	Dispatches    []LedgerRecord    `json:"dispatches"`
	ExtraHours    []LedgerRecord    `json:"extraHours"`
}

// Ledger returns the records of one category.
func (s *Snapshot) Ledger(category Category) []LedgerRecord {
	switch category {
	case CategoryBonuses:
		return s.Bonuses
	case CategoryDispatches:
		return s.Dispatches
	case CategoryExtraHours:
		return s.ExtraHours
	}
	return nil
}

// LatestSalary returns the most recent statement, or nil when the history is
// empty.
func (s *Snapshot) LatestSalary() *SalaryStatement {
	if len(s.SalaryHistory) == 0 {
		return nil
	}
	return &s.SalaryHistory[0]
}
