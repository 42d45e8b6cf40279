package engine

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the portal routes. Every route under /main is
// page-driven; the page and section names in the path decide what data
// is served.
func RegisterRoutes(app *fiber.App, h *Handler, middleware ...fiber.Handler) {
	main := app.Group("/main")
	for _, m := range middleware {
		main.Use(m)
	}

	main.Get("/:page", h.Page)
	main.Post("/:page/load-more", h.LoadMore)
	main.Post("/:page/search", h.Search)
	main.Get("/:page/:section/data", h.SectionData)
	main.Get("/:page/:section/fields", h.Fields)
	main.Post("/:page/:section/add", h.Add)
	main.Get("/:page/:section/fk/:field", h.FKOptions)
	main.All("/:page/:section/:id/edit", h.Edit)
}
