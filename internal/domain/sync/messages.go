package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"portal/internal/domain/employee"
	"portal/internal/domain/notifications"
)

// categorySpec carries the user-facing phrasing of one ledger category. The
// labels are in the sheets' locale and match the original portal wording.
type categorySpec struct {
	category  employee.Category
	singular  string
	label     string
	eventType notifications.Type
}

var categorySpecs = []categorySpec{
	{employee.CategoryBonuses, "مكافأة", "سجل المكافآت", notifications.TypeAdmin},
	{employee.CategoryDispatches, "إيفاد", "سجل الإيفادات", notifications.TypeAdmin},
	{employee.CategoryExtraHours, "ساعات إضافية", "سجل الإضافي", notifications.TypeSalary},
}

func ledgerEvent(spec categorySpec, added []employee.LedgerRecord, at time.Time) notifications.Event {
	if len(added) == 1 {
		record := added[0]
		return notifications.NewEvent(
			fmt.Sprintf("%s جديدة", spec.singular),
			fmt.Sprintf("تم إضافة %s: %s بقيمة %s", spec.singular, record.Name, formatAmount(record.Amount)),
			spec.eventType,
			notifications.PriorityNormal,
			at,
		)
	}
	return notifications.NewEvent(
		fmt.Sprintf("تحديث في %s", spec.label),
		fmt.Sprintf("تم إضافة %d سجلات جديدة في %s.", len(added), spec.label),
		spec.eventType,
		notifications.PriorityNormal,
		at,
	)
}

func salaryEvent(latest employee.SalaryStatement, at time.Time) notifications.Event {
	return notifications.NewEvent(
		"راتب جديد",
		fmt.Sprintf("تم رفع تفاصيل راتب شهر %s لسنة %s", latest.Month, latest.Year),
		notifications.TypeSalary,
		notifications.PriorityHigh,
		at,
	)
}

func noChangesEvent(at time.Time) notifications.Event {
	return notifications.NewEvent(
		"تم التحديث",
		"تم التحقق من جميع السجلات، البيانات مطابقة.",
		notifications.TypeSystem,
		notifications.PriorityLow,
		at,
	)
}

// WelcomeEvent is the event every new session's log starts with.
func WelcomeEvent(at time.Time) notifications.Event {
	return notifications.NewEvent(
		"أهلاً بك",
		"مرحباً بك في بوابة الموظف الإلكترونية.",
		notifications.TypeSystem,
		notifications.PriorityNormal,
		at,
	)
}

// formatAmount renders an amount with thousands separators, matching the
// locale-formatted numbers of the original notification text.
func formatAmount(amount decimal.Decimal) string {
	text := amount.String()
	sign := ""
	if strings.HasPrefix(text, "-") {
		sign = "-"
		text = text[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(text, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(digit)
	}

	out := sign + grouped.String()
	if hasFrac {
		out += "." + fracPart
	}
	return out
}
