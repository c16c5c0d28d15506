package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/demand-console/app"
	"github.com/mbolis/demand-console/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.TokenSecret)).
		Mount("/admin", servePrivateFiles("/admin"))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get(`/categories/{id:^\d+$}`, GetCategoryById(app))

	api.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.Admin(app.TokenSecret))

		// CRUD category, question schemas included
		r.Post("/categories", CreateCategory(app))
		r.Get("/categories", ListCategories(app))
		r.Get(`/categories/{id:^\d+$}`, GetCategoryById(app))
		r.Put(`/categories/{id:^\d+$}`, UpdateCategory(app))
		r.Delete(`/categories/{id:^\d+$}`, DeleteCategory(app))

		// CRUD demand, answers validated against the category schema
		r.Post("/demands", CreateDemand(app))
		r.Get("/demands", ListDemands(app))
		r.Get(`/demands/{id:^\d+$}`, GetDemandById(app))
		r.Put(`/demands/{id:^\d+$}`, UpdateDemand(app))
		r.Delete(`/demands/{id:^\d+$}`, DeleteDemand(app))
	})

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

func servePrivateFiles(path string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir("private")))
}
