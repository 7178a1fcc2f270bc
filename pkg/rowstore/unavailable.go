package rowstore

import (
	"context"

	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
)

type unavailableStore struct {
	cause error
}

// NewUnavailable returns a store whose every call fails with BACKEND_UNAVAILABLE.
// It keeps the HTTP surface up when the backend cannot be configured at boot.
func NewUnavailable(cause error) Store {
	return unavailableStore{cause: cause}
}

func (u unavailableStore) err(op, table string) error {
	return pkgerrors.Wrap(pkgerrors.CodeBackendUnavailable, u.cause, op+" "+table)
}

func (u unavailableStore) FetchAll(_ context.Context, table string) ([]Row, error) {
	return nil, u.err("fetch", table)
}

func (u unavailableStore) Append(_ context.Context, table string, _ Record) error {
	return u.err("append", table)
}

func (u unavailableStore) UpdateAt(_ context.Context, table string, _ int, _ Record) error {
	return u.err("update", table)
}

func (u unavailableStore) Ping(context.Context) error {
	return pkgerrors.Wrap(pkgerrors.CodeBackendUnavailable, u.cause, "ping")
}
