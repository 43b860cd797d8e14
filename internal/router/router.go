package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront-api/internal/config"
	"storefront-api/internal/handler"
	"storefront-api/internal/middleware"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	Store *handler.StoreHandler
	Item  *handler.ItemHandler
}

func New(cfg *config.Config, auth *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(a chi.Router) {
			a.Post("/register", h.Auth.Register)
			a.Post("/login", h.Auth.Login)
			a.Post("/refresh", h.Auth.Refresh)
			a.With(auth.RequireAuth).Post("/logout", h.Auth.Logout)
			a.With(auth.RequireAuth).Post("/change-password", h.Auth.ChangePassword)
			a.With(auth.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.With(auth.RequireAuth).Patch("/users/me", h.Auth.UpdateMe)

		// Public storefront read, keyed by the numeric public store id.
		api.Get("/storefront/{publicID}", h.Store.View)

		api.Route("/stores", func(s chi.Router) {
			s.Use(auth.RequireAuth)
			s.Post("/", h.Store.Create)
			s.Get("/", h.Store.ListMine)

			s.Route("/{storeID}", func(st chi.Router) {
				st.With(auth.RequireStore).Get("/", h.Store.Get)

				st.Group(func(own chi.Router) {
					own.Use(auth.RequireStoreOwner)
					own.Patch("/", h.Store.Update)
					own.Post("/cover", h.Store.UploadCover)
					own.Post("/close", h.Store.Close)
					own.Post("/reopen", h.Store.Reopen)

					own.Route("/items", func(it chi.Router) {
						it.Get("/", h.Item.List)
						it.Post("/", h.Item.Create)
						it.Patch("/{itemID}", h.Item.Update)
						it.Delete("/{itemID}", h.Item.Delete)
						it.Post("/{itemID}/image", h.Item.UploadImage)
						it.Post("/extract", h.Item.ExtractMenu)
					})
				})
			})
		})
	})

	return r
}
