package main

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/api"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/fakeapi/fakeapitest"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/session"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

type harness struct {
	api *fakeapitest.Harness
	db  *store.Store
	out *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := fakeapitest.Start(t, time.Time{})
	h.API.Seed()

	db, err := store.Open(filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &harness{api: h, db: db, out: &bytes.Buffer{}}
}

// run executes one command the way main does, feeding stdin to prompts.
func (h *harness) run(t *testing.T, stdin string, args ...string) error {
	t.Helper()
	client := api.NewClient(h.api.BaseURL(), 5*time.Second)
	n := notify.Writer{Out: h.out}
	c := &console{
		holder: &session.Holder{
			Auth:     client,
			Tokens:   session.LocalTokenStore{Store: h.db},
			Notifier: n,
		},
		client:   client,
		notifier: n,
		out:      h.out,
		in:       bufio.NewReader(strings.NewReader(stdin)),
	}
	return c.run(context.Background(), args[0], args[1:])
}

func (h *harness) token(t *testing.T) string {
	t.Helper()
	tok, _, err := h.db.Get(session.TokenKey)
	require.NoError(t, err)
	return tok
}

func TestCLI_LoginPersistsToken(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "", "login", "-password", fakeapitest.Password))
	assert.NotEmpty(t, h.token(t))
	assert.Contains(t, h.out.String(), "[success] Login successful!")

	h.out.Reset()
	require.NoError(t, h.run(t, "", "status"))
	assert.Equal(t, "Logged in.\n", h.out.String())

	require.NoError(t, h.run(t, "", "logout"))
	assert.Empty(t, h.token(t))
}

func TestCLI_WrongPassword(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.run(t, "", "login", "-password", "nope"), session.ErrInvalidCredentials)
	assert.Empty(t, h.token(t))
	assert.Contains(t, h.out.String(), "[error] Invalid password")
}

func TestCLI_CommandsNeedLogin(t *testing.T) {
	h := newHarness(t)

	assert.Error(t, h.run(t, "", "orders"))
	assert.Contains(t, h.out.String(), "Not logged in")
}

func TestCLI_OrdersFilter(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "", "login", "-password", fakeapitest.Password))
	h.out.Reset()

	require.NoError(t, h.run(t, "", "orders", "-status", "shipped"))

	assert.Contains(t, h.out.String(), "Gita Rai")
	assert.NotContains(t, h.out.String(), "Sita Sharma")
	assert.Contains(t, h.out.String(), "1 of 5 orders")
}

func TestCLI_AdvanceDefaultsToNextStatus(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "", "login", "-password", fakeapitest.Password))

	var shipped models.Order
	for _, o := range h.api.API.Orders() {
		if o.Status == models.StatusShipped {
			shipped = o
		}
	}

	require.NoError(t, h.run(t, "", "advance", "-id", shipped.OrderID))

	for _, o := range h.api.API.Orders() {
		if o.OrderID == shipped.OrderID {
			assert.Equal(t, models.StatusDelivered, o.Status)
		}
	}
	assert.Contains(t, h.out.String(), "Order status updated")
}

func TestCLI_DeleteProductPrompts(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "", "login", "-password", fakeapitest.Password))
	id := h.api.API.Products()[0].ProductID
	count := len(h.api.API.Products())

	require.NoError(t, h.run(t, "n\n", "delete-product", "-id", id))
	assert.Contains(t, h.out.String(), "Are you sure you want to delete this product? [y/N]")
	assert.Contains(t, h.out.String(), "Cancelled.")
	assert.Len(t, h.api.API.Products(), count)

	require.NoError(t, h.run(t, "y\n", "delete-product", "-id", id))
	assert.Len(t, h.api.API.Products(), count-1)
}

func TestCLI_SaveProductUpdatesOnlyGivenFlags(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "", "login", "-password", fakeapitest.Password))
	before := h.api.API.Products()[0]

	require.NoError(t, h.run(t, "", "save-product", "-id", before.ProductID, "-stock", "99"))

	var after models.Product
	for _, p := range h.api.API.Products() {
		if p.ProductID == before.ProductID {
			after = p
		}
	}
	assert.Equal(t, 99, after.Stock)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, before.Colors, after.Colors)
	assert.Equal(t, before.Sizes, after.Sizes)
	assert.Contains(t, h.out.String(), "Product updated successfully")
}

func TestCLI_RejectedTokenLogsOut(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "", "login", "-password", fakeapitest.Password))

	h.api.SetNow(time.Now().Add(8 * 24 * time.Hour))
	err := h.run(t, "", "products")

	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, h.token(t))
	assert.Contains(t, h.out.String(), "Session expired, please log in again")
}

func TestCLI_ExportProducts(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run(t, "", "login", "-password", fakeapitest.Password))
	out := filepath.Join(t.TempDir(), "catalog.xlsx")

	require.NoError(t, h.run(t, "", "export-products", "-o", out))

	f, err := xlsx.OpenFile(out)
	require.NoError(t, err)
	sheet, ok := f.Sheet["Products"]
	require.True(t, ok)
	assert.Len(t, sheet.Rows, 1+len(h.api.API.Products()))
}
