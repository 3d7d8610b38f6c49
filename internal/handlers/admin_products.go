package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/sessions"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/models"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/notify"
	"github.com/santoshkumarshah266-jpg/storeadmin/internal/products"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *AdminHandler) products(r *http.Request, cookie *sessions.Session, confirm products.Confirmer) *products.Manager {
	return products.NewManager(h.client(r), flashNotifier{session: cookie}, confirm)
}

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	list, err := h.products(r, cookie, nil).List(r.Context())
	if err != nil {
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		slog.Error("Error fetching products", "error", err)
	}
	h.render(w, r, cookie, "admin_products.html", map[string]interface{}{
		"Products": list,
	})
}

func (h *AdminHandler) NewProduct(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	h.renderForm(w, r, cookie, h.products(r, cookie, nil).OpenForCreate())
}

func (h *AdminHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	m := h.products(r, cookie, nil)
	if _, err := m.List(r.Context()); err != nil {
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		h.redirect(w, r, cookie, "/admin/products")
		return
	}
	p, ok := m.Find(id)
	if !ok {
		cookie.AddFlash(FlashMessage{Type: notify.TypeError, Message: "Product not found"})
		h.redirect(w, r, cookie, "/admin/products")
		return
	}
	h.renderForm(w, r, cookie, m.OpenForEdit(p))
}

func (h *AdminHandler) renderForm(w http.ResponseWriter, r *http.Request, cookie *sessions.Session, d *products.Draft) {
	h.render(w, r, cookie, "admin_product_form.html", map[string]interface{}{
		"Draft": d,
	})
}

// SaveProduct handles both create and update from the multipart product form.
func (h *AdminHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.Warn("Rejected product form", "error", err)
		cookie.AddFlash(FlashMessage{Type: notify.TypeError, Message: "The upload is too large or malformed."})
		h.redirect(w, r, cookie, "/admin/products")
		return
	}

	m := h.products(r, cookie, nil)
	d, err := draftFromForm(m, r)
	if err != nil {
		slog.Error("Failed to read uploaded images", "error", err)
		cookie.AddFlash(FlashMessage{Type: notify.TypeError, Message: "Could not read the selected images."})
		h.renderForm(w, r, cookie, d)
		return
	}

	res, err := m.Save(r.Context(), d)
	switch {
	case err == nil:
		slog.Info("Product saved", "product_id", res.Product.ProductID, "failed_uploads", len(res.FailedUploads))
		h.redirect(w, r, cookie, "/admin/products")
	case errors.Is(err, products.ErrInvalidDraft):
		h.renderForm(w, r, cookie, d)
	default:
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		slog.Error("Error saving product", "product_id", d.ProductID, "error", err)
		h.renderForm(w, r, cookie, d)
	}
}

// draftFromForm rebuilds the editor state posted by the product form. The
// returned draft is usable even when reading the files fails.
func draftFromForm(m *products.Manager, r *http.Request) (*products.Draft, error) {
	var d *products.Draft
	if id := r.FormValue("product_id"); id != "" {
		d = m.OpenForEdit(models.Product{ProductID: id})
	} else {
		d = m.OpenForCreate()
	}
	d.Name = r.FormValue("name")
	d.Price = r.FormValue("price")
	d.Description = r.FormValue("description")
	d.Colors = r.FormValue("colors")
	d.Sizes = r.FormValue("sizes")
	d.Stock = r.FormValue("stock")
	d.Active = r.FormValue("active") != ""
	d.ExistingImages = append([]string(nil), r.PostForm["existing_images"]...)

	// Highest index first so earlier removals do not shift later ones.
	var remove []int
	for _, v := range r.PostForm["remove_image"] {
		if i, err := strconv.Atoi(v); err == nil {
			remove = append(remove, i)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(remove)))
	for _, i := range remove {
		d.RemoveExistingImage(i)
	}

	if r.MultipartForm == nil {
		return d, nil
	}
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			return d, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return d, err
		}
		if len(data) == 0 {
			continue
		}
		d.SelectFiles(products.LocalFile{Name: fh.Filename, Data: data})
	}
	return d, nil
}

func (h *AdminHandler) ConfirmDeleteProduct(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	id := r.URL.Query().Get("id")

	m := h.products(r, cookie, nil)
	if _, err := m.List(r.Context()); err != nil {
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		h.redirect(w, r, cookie, "/admin/products")
		return
	}
	p, ok := m.Find(id)
	if !ok {
		cookie.AddFlash(FlashMessage{Type: notify.TypeError, Message: "Product not found"})
		h.redirect(w, r, cookie, "/admin/products")
		return
	}
	h.render(w, r, cookie, "admin_product_delete.html", map[string]interface{}{
		"Product": p,
		"Prompt":  products.DeletePrompt,
	})
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	id := r.FormValue("id")
	confirmed := products.ConfirmFunc(func(string) bool {
		return r.FormValue("confirm") == "yes"
	})

	deleted, err := h.products(r, cookie, confirmed).Delete(r.Context(), id)
	if err != nil {
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		slog.Error("Error deleting product", "product_id", id, "error", err)
	}
	if deleted {
		slog.Info("Product deleted", "product_id", id)
	}
	h.redirect(w, r, cookie, "/admin/products")
}

func (h *AdminHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie(r)
	list, err := h.products(r, cookie, nil).List(r.Context())
	if err != nil {
		if h.loggedOut(w, r, cookie, err) {
			return
		}
		h.redirect(w, r, cookie, "/admin/products")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="products.xlsx"`)
	if err := products.ExportXLSX(w, list); err != nil {
		slog.Error("Failed to export products", "error", err)
	}
}
