package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snfs-app/snfs/internal/output"
	"github.com/snfs-app/snfs/pkg/snfsapi"
)

func loadedLists(t *testing.T) (*ListsModel, *backend, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	api.lists = []StockList{
		{ListID: 3, UserID: testUserID, Name: "Tech", Visibility: "public", Items: []snfsapi.StockListItem{{Symbol: "AAPL"}, {Symbol: "MSFT"}}},
		{ListID: 4, UserID: testUserID, Name: "Energy", Visibility: "private"},
		{ListID: 9, UserID: testUserID, Name: "Banks", Visibility: "shared"},
	}
	b := testBackend(api)
	m := NewListsModel()
	for _, msg := range collect(b.FetchLists()) {
		m, _, _ = m.Update(msg, b)
	}
	require.Equal(t, ListsStateLoaded, m.State)
	return m, b, api
}

func TestListsModel_OneRowPerList(t *testing.T) {
	m, _, _ := loadedLists(t)

	rows := m.Table.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"3", "Tech", "public", "2"}, []string(rows[0]))
	assert.Contains(t, m.View(), "My Stock Lists")
}

func TestListsModel_DeleteRemovesRowLocally(t *testing.T) {
	m, b, api := loadedLists(t)
	loads := api.count("MyStockLists")

	m, _, _ = m.Update(key("down"), b)
	m, cmd, _ := m.Update(key("x"), b)
	assert.Nil(t, cmd)
	require.Equal(t, ListsModeDeleting, m.Mode)
	assert.Equal(t, 4, m.DeleteID)
	assert.Contains(t, m.View(), `Delete stock list "Energy"?`)

	m, cmd, _ = m.Update(key("y"), b)
	assert.Equal(t, ListsModeNormal, m.Mode)
	msgs := collect(cmd)
	require.Len(t, msgs, 1)

	m, cmd, _ = m.Update(msgs[0], b)
	require.Len(t, m.Lists, 2)
	assert.Equal(t, 3, m.Lists[0].ListID)
	assert.Equal(t, 9, m.Lists[1].ListID)
	assert.Len(t, m.Table.Rows(), 2)

	n := notices(collect(cmd))
	require.Len(t, n, 1)
	assert.Equal(t, output.LevelSuccess, n[0].Level)
	assert.Equal(t, 1, api.count("DeleteStockList"))
	assert.Equal(t, loads, api.count("MyStockLists"), "no reload after delete")
}

func TestListsModel_CancelDelete(t *testing.T) {
	m, b, api := loadedLists(t)

	m, _, _ = m.Update(key("x"), b)
	m, cmd, _ := m.Update(key("n"), b)

	assert.Nil(t, cmd)
	assert.Equal(t, ListsModeNormal, m.Mode)
	assert.Len(t, m.Lists, 3)
	assert.Equal(t, 0, api.count("DeleteStockList"))
}

func TestListsModel_DeleteFailureKeepsRows(t *testing.T) {
	m, b, api := loadedLists(t)
	api.err = &snfsapi.APIError{StatusCode: 403, Message: "Only the owner can delete this list"}

	m, _, _ = m.Update(key("x"), b)
	m, cmd, _ := m.Update(key("y"), b)

	msgs := collect(cmd)
	n := notices(msgs)
	require.Len(t, n, 1)
	assert.Equal(t, output.LevelError, n[0].Level)
	assert.Contains(t, n[0].Text, "Only the owner")
	assert.Len(t, m.Lists, 3)
	assert.Len(t, m.Table.Rows(), 3)
}

func TestListsModel_Empty(t *testing.T) {
	api := newFakeAPI()
	b := testBackend(api)
	m := NewListsModel()
	for _, msg := range collect(b.FetchLists()) {
		m, _, _ = m.Update(msg, b)
	}

	assert.Contains(t, m.View(), "No stock lists")
}
