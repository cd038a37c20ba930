package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/catalogkeeper/internal/common"
)

// NewRouter mounts the catalog routes. With an empty secret the API is open.
func NewRouter(h *Handler, secret []byte) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(h.logger))

	r.Group(func(r chi.Router) {
		if len(secret) > 0 {
			r.Use(BearerAuth(secret))
		}

		r.Get(common.ProductsPath, h.ListProducts)
		r.Post(common.ProductsPath, h.CreateProduct)
		r.Post(common.BulkProductsPath, h.BulkUpsertProducts)
		r.Put(common.ProductsPath+"/{id}", h.UpdateProduct)
		r.Delete(common.ProductsPath+"/{id}", h.DeleteProduct)

		r.Get(common.SharedSnapshotPath, h.GetSharedSnapshot)
		r.Post(common.SharedSnapshotPath, h.StoreSharedSnapshot)
	})

	return r
}
