package auth

import (
	"context"
	"fmt"

	"github.com/angelmondragon/rfqdesk/internal/users"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/angelmondragon/rfqdesk/pkg/logger"
)

const invalidCredentialsMessage = "بيانات الدخول غير صحيحة أو الحساب غير مفعل"

// Service defines the behavior needed by the login controller and the bot.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

type userRepository interface {
	List(ctx context.Context) ([]users.User, error)
	SetTelegramID(ctx context.Context, index int, telegramID string) error
}

type service struct {
	users userRepository
	logg  *logger.Logger
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo userRepository
	Logger   *logger.Logger
}

// NewService constructs a login service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{users: params.UserRepo, logg: logg}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := req.Username.String()
	password := req.Password.String()
	ctx = s.logg.WithField(ctx, "username", username)

	if username == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	list, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := authenticate(list, username, password)
	if !ok {
		s.logg.Info(ctx, "auth.login_rejected")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if telegramID := req.TelegramID.String(); telegramID != "" {
		if err := s.users.SetTelegramID(ctx, user.Index, telegramID); err != nil {
			// The row moved or was deleted after it was read.
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "auth.user_row_vanished")
				return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, invalidCredentialsMessage)
			}
			return nil, err
		}
	}

	s.logg.Info(s.logg.WithEmployeeID(ctx, user.EmployeeID), "auth.login_succeeded")
	return &LoginResponse{
		Success: true,
		User: UserSummary{
			EmployeeID: user.EmployeeID,
			FullName:   user.FullName,
			Role:       user.Role,
		},
	}, nil
}

// authenticate returns the first user, in table order, whose username and password
// match exactly and whose status is active.
func authenticate(list []users.User, username, password string) (users.User, bool) {
	for _, u := range list {
		if u.Username == username && u.PasswordHash == password && u.Active() {
			return u, true
		}
	}
	return users.User{}, false
}
