package sheets

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/angelmondragon/rfqdesk/pkg/config"
	pkgerrors "github.com/angelmondragon/rfqdesk/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	gsheets "google.golang.org/api/sheets/v4"
)

type fakeAPI struct {
	mu       sync.Mutex
	grids    map[string][][]any
	titles   []string
	getErr   error
	appended [][]any
	updates  []*gsheets.ValueRange
}

func (f *fakeAPI) SheetTitles(context.Context, string) ([]string, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.titles, nil
}

func (f *fakeAPI) Get(_ context.Context, _ string, rng string) ([][]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	title, _, _ := strings.Cut(rng, "!")
	grid, ok := f.grids[title]
	if !ok {
		return nil, &googleapi.Error{Code: http.StatusBadRequest, Message: "Unable to parse range: " + rng}
	}
	if strings.HasSuffix(rng, "!1:1") {
		return grid[:1], nil
	}
	return grid, nil
}

func (f *fakeAPI) Append(_ context.Context, _ string, _ string, row []any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, row)
	return nil
}

func (f *fakeAPI) BatchUpdate(_ context.Context, _ string, data []*gsheets.ValueRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, data...)
	return nil
}

func newTestStore(api *fakeAPI) *Store {
	return newStore(api, config.SheetsConfig{SpreadsheetID: "sheet-1"}, []string{"BOT_USERS", "items"}, nil)
}

func usersGrid() [][]any {
	return [][]any{
		{"USERNAME", "PASSWORD", "STATUS", "", "telegram_id"},
		{"ali", "1234", "نعم", "ignored"},
		{"sara", 99, "لا", "x", "42"},
	}
}

func TestFetchAllBuildsRowsInHeaderOrder(t *testing.T) {
	api := &fakeAPI{grids: map[string][][]any{"'BOT_USERS'": usersGrid()}}
	rows, err := newTestStore(api).FetchAll(context.Background(), "BOT_USERS")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, []string{"USERNAME", "PASSWORD", "STATUS"}, rows[0].Columns())
	pw, _ := rows[1].Get("PASSWORD")
	assert.Equal(t, "99", pw)
	tg, ok := rows[1].Get("telegram_id")
	assert.True(t, ok)
	assert.Equal(t, "42", tg)
}

func TestFetchAllEmptySheet(t *testing.T) {
	api := &fakeAPI{grids: map[string][][]any{"'items'": nil}}
	rows, err := newTestStore(api).FetchAll(context.Background(), "items")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFetchAllMissingSheetIsBackendFailure(t *testing.T) {
	api := &fakeAPI{grids: map[string][][]any{}}
	_, err := newTestStore(api).FetchAll(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBackendUnavailable))
}

func TestAppendMapsRecordOntoHeader(t *testing.T) {
	api := &fakeAPI{grids: map[string][][]any{"'BOT_USERS'": usersGrid()}}
	err := newTestStore(api).Append(context.Background(), "BOT_USERS", map[string]any{
		"username": "omar",
		"STATUS":   "نعم",
		"UNKNOWN":  "dropped",
	})
	require.NoError(t, err)
	require.Len(t, api.appended, 1)
	assert.Equal(t, []any{"omar", "", "نعم", "", ""}, api.appended[0])
}

func TestUpdateAtWritesSingleCells(t *testing.T) {
	api := &fakeAPI{grids: map[string][][]any{"'BOT_USERS'": usersGrid()}}
	err := newTestStore(api).UpdateAt(context.Background(), "BOT_USERS", 0, map[string]any{"telegram_id": "55"})
	require.NoError(t, err)
	require.Len(t, api.updates, 1)
	assert.Equal(t, "'BOT_USERS'!E2", api.updates[0].Range)
	assert.Equal(t, [][]any{{"55"}}, api.updates[0].Values)
}

func TestUpdateAtOutOfRange(t *testing.T) {
	api := &fakeAPI{grids: map[string][][]any{"'BOT_USERS'": usersGrid()}}
	err := newTestStore(api).UpdateAt(context.Background(), "BOT_USERS", 2, map[string]any{"telegram_id": "55"})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Empty(t, api.updates)
}

func TestPingRequiresEveryTable(t *testing.T) {
	api := &fakeAPI{titles: []string{"BOT_USERS"}}
	err := newTestStore(api).Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items")

	api.titles = append(api.titles, "items")
	assert.NoError(t, newTestStore(api).Ping(context.Background()))
}

func TestGoogleErrorsBecomeBackendUnavailable(t *testing.T) {
	api := &fakeAPI{getErr: &googleapi.Error{Code: http.StatusForbidden, Message: "denied"}}
	_, err := newTestStore(api).FetchAll(context.Background(), "items")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBackendUnavailable))
}

func TestQuoteTitle(t *testing.T) {
	assert.Equal(t, "'items'", quoteTitle("items"))
	assert.Equal(t, "'Bob''s'", quoteTitle("Bob's"))
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), config.SheetsConfig{}, nil, nil)
	assert.ErrorIs(t, err, errSpreadsheetIDRequired)
}
