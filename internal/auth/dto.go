package auth

import "github.com/angelmondragon/rfqdesk/pkg/types"

// LoginRequest captures the credentials posted by the mini-app or the bot. Blank
// credentials are rejected by Login with the same 401 as a wrong password.
type LoginRequest struct {
	Username   types.FlexString `json:"username"`
	Password   types.FlexString `json:"password"`
	TelegramID types.FlexString `json:"telegramId"`
}

// UserSummary is the public part of an authenticated user.
type UserSummary struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Success bool        `json:"success"`
	User    UserSummary `json:"user"`
}
