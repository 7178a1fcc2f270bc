// Package schema maps loosely named spreadsheet columns onto the logical fields the
// service works with. All column-name guessing lives here.
package schema

import (
	"strings"

	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
)

// Column aliases, tried in order.
var (
	UsernameAliases     = []string{"USERNAME", "اسم المستخدم"}
	PasswordAliases     = []string{"PASSWORD_HASH", "PASSWORD", "كلمة المرور"}
	StatusAliases       = []string{"STATUS", "الحالة", "النشاط"}
	EmployeeIDAliases   = []string{"EMPLOYEE_ID"}
	FullNameAliases     = []string{"FULL_NAME"}
	RoleAliases         = []string{"ROLE"}
	TelegramIDAliases   = []string{"TELEGRAM_ID"}
	RFQAliases          = []string{"RFQ"}
	LineItemAliases     = []string{"LINE_ITEM"}
	DescriptionAliases  = []string{"DESCRIPTION"}
	QuantityAliases     = []string{"QTY"}
	PriceAliases        = []string{"PRICE"}
	UOMAliases          = []string{"UOM"}
	PartNumberAliases   = []string{"PART_NO"}
	RequestDateAliases  = []string{"DATE_RQ", "DATE/RFQ"}
	ResponseDateAliases = []string{"RES_DATE", "RES. DATE"}
)

const (
	// TelegramIDColumn is the column login writes the caller's Telegram id into.
	TelegramIDColumn = "telegram_id"

	ownerPrefix = "EMPLOYEE_ID"
	ownerToken  = "مندوب"
)

var activeStatuses = map[string]struct{}{
	"yes":       {},
	"نعم":       {},
	"true":      {},
	"undefined": {},
	"":          {},
}

// ResolveField returns the value of the first column, in header order, whose normalized
// name equals the normalized logical name. It returns "" when nothing matches.
func ResolveField(row rowstore.Row, logicalName string) string {
	want := rowstore.NormalizeColumn(logicalName)
	for _, cell := range row.Cells {
		if rowstore.NormalizeColumn(cell.Column) == want {
			return rowstore.Stringify(cell.Value)
		}
	}
	return ""
}

// ResolveFieldAnyAlias tries each alias in order and returns the first non-empty value.
func ResolveFieldAnyAlias(row rowstore.Row, aliases ...string) string {
	for _, alias := range aliases {
		if v := ResolveField(row, alias); v != "" {
			return v
		}
	}
	return ""
}

// IsActiveStatus reports whether a status cell marks the account active. Blank cells and
// the literal "undefined" count as active.
func IsActiveStatus(value string) bool {
	_, ok := activeStatuses[strings.ToLower(strings.TrimSpace(value))]
	return ok
}

// OwnedBy reports whether any assignee column of the row names the employee. Assignee
// columns are those whose normalized name starts with EMPLOYEE_ID or mentions مندوب.
func OwnedBy(row rowstore.Row, employeeID string) bool {
	want := strings.TrimSpace(employeeID)
	if want == "" {
		return false
	}
	for _, cell := range row.Cells {
		name := rowstore.NormalizeColumn(cell.Column)
		if !strings.HasPrefix(name, ownerPrefix) && !strings.Contains(name, ownerToken) {
			continue
		}
		if strings.TrimSpace(rowstore.Stringify(cell.Value)) == want {
			return true
		}
	}
	return false
}

// Owners lists the non-blank assignee values of the row in header order.
func Owners(row rowstore.Row) []string {
	var out []string
	for _, cell := range row.Cells {
		name := rowstore.NormalizeColumn(cell.Column)
		if !strings.HasPrefix(name, ownerPrefix) && !strings.Contains(name, ownerToken) {
			continue
		}
		if v := strings.TrimSpace(rowstore.Stringify(cell.Value)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
