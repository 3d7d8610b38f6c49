// Package products is the catalog editor: list products, edit a draft,
// upload its images and write the product once the uploads are done.
package products

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
)

const DeletePrompt = "Are you sure you want to delete this product?"

type API interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UploadImage(ctx context.Context, filename string, content io.Reader) (string, error)
}

// Confirmer asks the admin to approve a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

type Manager struct {
	api      API
	notifier notify.Notifier
	confirm  Confirmer
	optimize func(LocalFile) (LocalFile, error)

	products []models.Product
	draft    *Draft
}

func NewManager(api API, notifier notify.Notifier, confirm Confirmer) *Manager {
	if notifier == nil {
		notifier = notify.Discard
	}
	if confirm == nil {
		confirm = ConfirmFunc(func(string) bool { return false })
	}
	return &Manager{api: api, notifier: notifier, confirm: confirm, optimize: Optimize}
}

func (m *Manager) Products() []models.Product {
	return m.products
}

// Editing returns the open draft, or nil when the editor is closed.
func (m *Manager) Editing() *Draft {
	return m.draft
}

func (m *Manager) List(ctx context.Context) ([]models.Product, error) {
	products, err := m.api.ListProducts(ctx)
	if err != nil {
		notify.Error(m.notifier, "Failed to load products")
		return nil, fmt.Errorf("list products: %w", err)
	}
	m.products = products
	return products, nil
}

// Find returns the held product with id.
func (m *Manager) Find(id string) (models.Product, bool) {
	for _, p := range m.products {
		if p.ProductID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func (m *Manager) OpenForCreate() *Draft {
	m.draft = newDraft()
	return m.draft
}

func (m *Manager) OpenForEdit(p models.Product) *Draft {
	m.draft = draftFrom(p)
	return m.draft
}

func (m *Manager) Close() {
	m.draft = nil
}

type SaveResult struct {
	Product       *models.Product
	FailedUploads []string // names of picked files that did not upload
}

// Save uploads the draft's picked files one at a time, then creates or
// updates the product with a single call. A failed upload is reported and
// skipped; it never blocks the write. On success the editor is closed and
// the list fetched again.
func (m *Manager) Save(ctx context.Context, d *Draft) (*SaveResult, error) {
	if err := d.Validate(); err != nil {
		notify.Error(m.notifier, "Please check the product form: "+err.Error())
		return nil, err
	}

	uploaded, failed := m.uploadAll(ctx, d.Files)

	payload, err := d.Payload(uploaded)
	if err != nil {
		return nil, err
	}

	var saved *models.Product
	if d.IsNew() {
		saved, err = m.api.CreateProduct(ctx, payload)
	} else {
		saved, err = m.api.UpdateProduct(ctx, d.ProductID, payload)
	}
	if err != nil {
		notify.Error(m.notifier, "Failed to save product")
		return &SaveResult{FailedUploads: failed}, fmt.Errorf("save product: %w", err)
	}

	if d.IsNew() {
		notify.Success(m.notifier, "Product created successfully")
	} else {
		notify.Success(m.notifier, "Product updated successfully")
	}
	m.draft = nil

	if _, err := m.List(ctx); err != nil {
		slog.Warn("Reloading products after save failed", "error", err)
	}
	return &SaveResult{Product: saved, FailedUploads: failed}, nil
}

func (m *Manager) uploadAll(ctx context.Context, files []LocalFile) (urls, failed []string) {
	for _, f := range files {
		up, err := m.optimize(f)
		if err != nil {
			slog.Warn("Image optimization skipped", "file", f.Name, "error", err)
			up = f
		}
		url, err := m.api.UploadImage(ctx, up.Name, bytes.NewReader(up.Data))
		if err != nil {
			slog.Warn("Image upload failed", "file", f.Name, "error", err)
			notify.Error(m.notifier, "Failed to upload "+f.Name)
			failed = append(failed, f.Name)
			continue
		}
		urls = append(urls, url)
	}
	return urls, failed
}

// Delete removes a product after the admin confirms. It reports false,
// without calling the API, when the admin declines.
func (m *Manager) Delete(ctx context.Context, productID string) (bool, error) {
	if !m.confirm.Confirm(DeletePrompt) {
		return false, nil
	}
	if err := m.api.DeleteProduct(ctx, productID); err != nil {
		notify.Error(m.notifier, "Failed to delete product")
		return false, fmt.Errorf("delete product %s: %w", productID, err)
	}
	notify.Success(m.notifier, "Product deleted successfully")

	if _, err := m.List(ctx); err != nil {
		slog.Warn("Reloading products after delete failed", "error", err)
	}
	return true, nil
}
