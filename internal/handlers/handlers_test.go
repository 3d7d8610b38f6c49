package handlers

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/api"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/fakeapi/fakeapitest"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

type console struct {
	api    *fakeapitest.Harness
	server *httptest.Server
	client *http.Client
}

type page struct {
	status int
	path   string // request URI after redirects
	body   string
	header http.Header
}

func newConsole(t *testing.T) *console {
	t.Helper()
	h := fakeapitest.Start(t, time.Time{})
	h.API.Seed()

	templates := NewTemplateCache()
	require.NoError(t, templates.Load(TemplateFS, "templates"))

	admin := &AdminHandler{
		API:            api.NewClient(h.BaseURL(), 5*time.Second),
		SessionStore:   sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")),
		Templates:      templates,
		MaxUploadBytes: 10 << 20,
	}
	srv := httptest.NewServer(admin.Routes(nil))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &console{api: h, server: srv, client: &http.Client{Jar: jar}}
}

func (c *console) read(t *testing.T, resp *http.Response, err error) page {
	t.Helper()
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return page{
		status: resp.StatusCode,
		path:   resp.Request.URL.RequestURI(),
		body:   string(body),
		header: resp.Header,
	}
}

func (c *console) get(t *testing.T, path string) page {
	t.Helper()
	resp, err := c.client.Get(c.server.URL + path)
	return c.read(t, resp, err)
}

func (c *console) post(t *testing.T, path string, form url.Values) page {
	t.Helper()
	resp, err := c.client.PostForm(c.server.URL+path, form)
	return c.read(t, resp, err)
}

func (c *console) login(t *testing.T) page {
	t.Helper()
	p := c.post(t, "/login", url.Values{"password": {fakeapitest.Password}})
	require.Equal(t, "/admin", p.path)
	return p
}

func (c *console) orderWithStatus(t *testing.T, st models.OrderStatus) models.Order {
	t.Helper()
	for _, o := range c.api.API.Orders() {
		if o.Status == st {
			return o
		}
	}
	t.Fatalf("no %s order seeded", st)
	return models.Order{}
}

func (c *console) order(id string) (models.Order, bool) {
	for _, o := range c.api.API.Orders() {
		if o.OrderID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

func (c *console) product(id string) (models.Product, bool) {
	for _, p := range c.api.API.Products() {
		if p.ProductID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))
	return buf.Bytes()
}

func TestLogin_GuardsAdminPages(t *testing.T) {
	c := newConsole(t)

	p := c.get(t, "/admin/orders")
	assert.Equal(t, "/login", p.path)
	assert.Contains(t, p.body, "You must be logged in to access this page.")

	p = c.login(t)
	assert.Contains(t, p.body, "Login successful!")
	assert.Contains(t, p.body, "This Week")
	assert.Contains(t, p.body, "Sita Sharma")

	p = c.get(t, "/login")
	assert.Equal(t, "/admin", p.path, "logged in admins skip the login form")
}

func TestLogin_WrongPassword(t *testing.T) {
	c := newConsole(t)

	p := c.post(t, "/login", url.Values{"password": {"nope"}})

	assert.Equal(t, "/login", p.path)
	assert.Contains(t, p.body, "Invalid password")
	assert.Equal(t, "/login", c.get(t, "/admin").path)
}

func TestLogout(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	p := c.get(t, "/logout")

	assert.Equal(t, "/login", p.path)
	assert.Contains(t, p.body, "Logged out successfully!")
	assert.Equal(t, "/login", c.get(t, "/admin").path)
}

func TestOrders_Filter(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	p := c.get(t, "/admin/orders?status=pending")
	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "Sita Sharma")
	assert.NotContains(t, p.body, "Ram Thapa")
	assert.Contains(t, p.body, "Showing 1 of 5 orders")

	p = c.get(t, "/admin/orders?q=9812")
	assert.Contains(t, p.body, "Ram Thapa")
	assert.NotContains(t, p.body, "Sita Sharma")
}

func TestOrders_AdvanceKeepsFilters(t *testing.T) {
	c := newConsole(t)
	c.login(t)
	pending := c.orderWithStatus(t, models.StatusPending)

	p := c.post(t, "/admin/orders/advance", url.Values{
		"id":     {pending.OrderID},
		"status": {string(models.StatusConfirmed)},
		"filter": {"pending"},
	})

	assert.Equal(t, "/admin/orders?status=pending", p.path)
	assert.Contains(t, p.body, "Order status updated")
	got, ok := c.order(pending.OrderID)
	require.True(t, ok)
	assert.Equal(t, models.StatusConfirmed, got.Status)
}

func TestOrders_AdvanceRejectsSkippedStep(t *testing.T) {
	c := newConsole(t)
	c.login(t)
	confirmed := c.orderWithStatus(t, models.StatusConfirmed)

	p := c.post(t, "/admin/orders/advance", url.Values{
		"id":     {confirmed.OrderID},
		"status": {string(models.StatusDelivered)},
	})

	assert.Equal(t, "/admin/orders", p.path)
	assert.Contains(t, p.body, "That status change is not allowed for this order.")
	got, ok := c.order(confirmed.OrderID)
	require.True(t, ok)
	assert.Equal(t, models.StatusConfirmed, got.Status)
}

func TestOrders_View(t *testing.T) {
	c := newConsole(t)
	c.login(t)
	shipped := c.orderWithStatus(t, models.StatusShipped)

	p := c.get(t, "/admin/orders/view?id="+shipped.OrderID)

	assert.Equal(t, http.StatusOK, p.status)
	assert.Contains(t, p.body, "Gita Rai")
	assert.Contains(t, p.body, "Mark Delivered")
}

func TestProducts_CreateWithFailedUpload(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"name":   "Silk Scarf",
		"price":  "1250.50",
		"stock":  "4",
		"colors": "Gold, Green",
		"active": "on",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("images", "front.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBytes(t))
	require.NoError(t, err)
	fw, err = mw.CreateFormFile("images", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := c.client.Post(c.server.URL+"/admin/products/save", mw.FormDataContentType(), &body)
	p := c.read(t, resp, err)

	assert.Equal(t, "/admin/products", p.path)
	assert.Contains(t, p.body, "Failed to upload notes.txt")
	assert.Contains(t, p.body, "Product created successfully")

	var created *models.Product
	for _, prod := range c.api.API.Products() {
		if prod.Name == "Silk Scarf" {
			created = &prod
		}
	}
	require.NotNil(t, created)
	assert.Equal(t, 1250.5, created.Price)
	assert.Equal(t, []string{"Gold", "Green"}, created.Colors)
	assert.Equal(t, []string{}, created.Sizes)
	require.Len(t, created.Images, 1)
	assert.True(t, strings.HasPrefix(created.Images[0], c.api.BaseURL()+"/uploads/"))
}

func TestProducts_EditRemovesImage(t *testing.T) {
	c := newConsole(t)
	c.login(t)
	p := c.api.API.AddProduct(models.Product{
		Name:   "Wool Cap",
		Price:  900,
		Stock:  3,
		Active: true,
		Images: []string{"https://cdn/a.jpg", "https://cdn/b.jpg", "https://cdn/c.jpg"},
	})

	form := c.get(t, "/admin/products/edit?id="+p.ProductID)
	assert.Contains(t, form.body, "Edit Product")
	assert.Contains(t, form.body, "https://cdn/b.jpg")

	saved := c.post(t, "/admin/products/save", url.Values{
		"product_id":      {p.ProductID},
		"name":            {"Wool Cap"},
		"price":           {"950"},
		"stock":           {"3"},
		"existing_images": p.Images,
		"remove_image":    {"0", "2"},
	})

	assert.Equal(t, "/admin/products", saved.path)
	assert.Contains(t, saved.body, "Product updated successfully")
	got, ok := c.product(p.ProductID)
	require.True(t, ok)
	assert.Equal(t, []string{"https://cdn/b.jpg"}, got.Images)
	assert.Equal(t, 950.0, got.Price)
	assert.False(t, got.Active, "unchecked box deactivates")
}

func TestProducts_InvalidDraftKeepsForm(t *testing.T) {
	c := newConsole(t)
	c.login(t)
	before := len(c.api.API.Products())

	p := c.post(t, "/admin/products/save", url.Values{
		"name":  {"Broken"},
		"price": {"abc"},
		"stock": {"1"},
	})

	assert.Equal(t, http.StatusOK, p.status)
	assert.Equal(t, "/admin/products/save", p.path)
	assert.Contains(t, p.body, "Please check the product form")
	assert.Contains(t, p.body, `value="Broken"`)
	assert.Len(t, c.api.API.Products(), before)
}

func TestProducts_DeleteNeedsConfirmation(t *testing.T) {
	c := newConsole(t)
	c.login(t)
	victim := c.api.API.Products()[0]

	confirm := c.get(t, "/admin/products/delete?id="+victim.ProductID)
	assert.Contains(t, confirm.body, "Are you sure you want to delete this product?")

	p := c.post(t, "/admin/products/delete", url.Values{"id": {victim.ProductID}, "confirm": {"no"}})
	assert.Equal(t, "/admin/products", p.path)
	_, ok := c.product(victim.ProductID)
	assert.True(t, ok, "declined delete keeps the product")

	p = c.post(t, "/admin/products/delete", url.Values{"id": {victim.ProductID}, "confirm": {"yes"}})
	assert.Contains(t, p.body, "Product deleted successfully")
	_, ok = c.product(victim.ProductID)
	assert.False(t, ok)
}

func TestProducts_Export(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	p := c.get(t, "/admin/products/export")

	require.Equal(t, http.StatusOK, p.status)
	assert.Equal(t, xlsxContentType, p.header.Get("Content-Type"))
	file, err := xlsx.OpenBinary([]byte(p.body))
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Len(t, file.Sheets[0].Rows, 1+len(c.api.API.Products()))
}

func TestRejectedTokenForcesLogout(t *testing.T) {
	c := newConsole(t)
	c.login(t)

	c.api.SetNow(time.Now().Add(8 * 24 * time.Hour))
	p := c.get(t, "/admin/products")

	assert.Equal(t, "/login", p.path)
	assert.Contains(t, p.body, "Session expired, please log in again")
	assert.Equal(t, "/login", c.get(t, "/admin").path, "token was cleared")
}
