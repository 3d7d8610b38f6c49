package handlers

import (
	"io/fs"
	"net/http"
)

// Routes registers the console pages. loginLimiter may be nil.
func (h *AdminHandler) Routes(loginLimiter *RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()

	static, err := fs.Sub(StaticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static", http.FileServer(http.FS(static))))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	})

	login := h.LoginPost
	if loginLimiter != nil {
		login = loginLimiter.Middleware(login)
	}
	mux.HandleFunc("/login", h.LoginGet)
	mux.HandleFunc("POST /login", login)
	mux.HandleFunc("/logout", h.Logout)

	// Protected Routes
	mux.HandleFunc("/admin", h.AuthMiddleware(h.Dashboard))

	mux.HandleFunc("/admin/orders", h.AuthMiddleware(h.ListOrders))
	mux.HandleFunc("/admin/orders/view", h.AuthMiddleware(h.ViewOrder))
	mux.HandleFunc("POST /admin/orders/advance", h.AuthMiddleware(h.AdvanceOrder))

	mux.HandleFunc("/admin/products", h.AuthMiddleware(h.ListProducts))
	mux.HandleFunc("/admin/products/new", h.AuthMiddleware(h.NewProduct))
	mux.HandleFunc("/admin/products/edit", h.AuthMiddleware(h.EditProduct))
	mux.HandleFunc("POST /admin/products/save", h.AuthMiddleware(h.SaveProduct))
	mux.HandleFunc("/admin/products/delete", h.AuthMiddleware(h.ConfirmDeleteProduct))
	mux.HandleFunc("POST /admin/products/delete", h.AuthMiddleware(h.DeleteProduct))
	mux.HandleFunc("/admin/products/export", h.AuthMiddleware(h.ExportProducts))

	return mux
}
