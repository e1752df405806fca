package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tickets-pro/internal/application/workflow"
	"github.com/tu-usuario/tickets-pro/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Workflow  *workflow.Controller
	Catalog   repository.CatalogGateway
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo (protegido)
	catalog := protected.Group("/catalog")
	catalogHandler := NewCatalogHandler(deps.Catalog)
	catalog.Get("/document-types", catalogHandler.DocumentTypes)
	catalog.Get("/drivers", catalogHandler.Drivers)
	catalog.Get("/vehicles", catalogHandler.Vehicles)
	catalog.Get("/clients", catalogHandler.Clients)
	catalog.Get("/clients/:code/items", catalogHandler.ClientItems)

	// Asistente de tiquetes (protegido)
	wf := protected.Group("/workflow")
	wfHandler := NewWorkflowHandler(deps.Workflow)
	wf.Post("/sessions", wfHandler.OpenSession)
	wf.Get("/sessions/:id", wfHandler.GetSession)
	wf.Delete("/sessions/:id", wfHandler.CloseSession)
	wf.Post("/sessions/:id/activate", wfHandler.Activate)
	wf.Post("/sessions/:id/advance", wfHandler.Advance)
	wf.Get("/sessions/:id/step-data", wfHandler.StepData)
	wf.Post("/sessions/:id/items", wfHandler.AddItem)
	wf.Put("/sessions/:id/items/:code/quantity", wfHandler.SetQuantity)
	wf.Delete("/sessions/:id/items/:code", wfHandler.RemoveLine)
	wf.Get("/sessions/:id/changeset", wfHandler.GetChangeset)
	wf.Post("/sessions/:id/commit", wfHandler.Commit)
	wf.Post("/sessions/:id/apply", wfHandler.Apply)
}
