package users

import (
	"strings"

	"github.com/angelmondragon/rfqdesk/internal/schema"
	"github.com/angelmondragon/rfqdesk/pkg/rowstore"
)

const DefaultRole = "user"

// User is the canonical view of a BOT_USERS row.
type User struct {
	Index        int
	Username     string
	PasswordHash string
	Status       string
	EmployeeID   string
	FullName     string
	Role         string
	TelegramID   string
}

// FromRow resolves every logical field of a user row through the alias tables.
func FromRow(row rowstore.Row) User {
	role := strings.TrimSpace(schema.ResolveFieldAnyAlias(row, schema.RoleAliases...))
	if role == "" {
		role = DefaultRole
	}
	return User{
		Index:        row.Index,
		Username:     strings.TrimSpace(schema.ResolveFieldAnyAlias(row, schema.UsernameAliases...)),
		PasswordHash: strings.TrimSpace(schema.ResolveFieldAnyAlias(row, schema.PasswordAliases...)),
		Status:       schema.ResolveFieldAnyAlias(row, schema.StatusAliases...),
		EmployeeID:   strings.TrimSpace(schema.ResolveFieldAnyAlias(row, schema.EmployeeIDAliases...)),
		FullName:     strings.TrimSpace(schema.ResolveFieldAnyAlias(row, schema.FullNameAliases...)),
		Role:         role,
		TelegramID:   strings.TrimSpace(schema.ResolveFieldAnyAlias(row, schema.TelegramIDAliases...)),
	}
}

// Active reports whether the status cell lets the user log in.
func (u User) Active() bool {
	return schema.IsActiveStatus(u.Status)
}

// Header is the column layout used when a users table has to be created from scratch.
func Header() []string {
	return []string{"USERNAME", "PASSWORD_HASH", "STATUS", "EMPLOYEE_ID", "FULL_NAME", "ROLE", schema.TelegramIDColumn}
}
