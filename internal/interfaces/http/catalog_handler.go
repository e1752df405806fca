package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tickets-pro/internal/domain/repository"
)

// CatalogHandler expone las consultas de referencia (protegido).
type CatalogHandler struct {
	catalog repository.CatalogGateway
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(catalog repository.CatalogGateway) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// DocumentTypes godoc
// @Summary      Tipos de documento
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DocumentTypeDTO
// @Router       /api/catalog/document-types [get]
func (h *CatalogHandler) DocumentTypes(c *fiber.Ctx) error {
	types, err := h.catalog.DocumentTypes(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(types)
}

// Drivers godoc
// @Summary      Conductores
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DriverDTO
// @Router       /api/catalog/drivers [get]
func (h *CatalogHandler) Drivers(c *fiber.Ctx) error {
	drivers, err := h.catalog.Drivers(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(drivers)
}

// Vehicles godoc
// @Summary      Vehículos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.VehicleDTO
// @Router       /api/catalog/vehicles [get]
func (h *CatalogHandler) Vehicles(c *fiber.Ctx) error {
	vehicles, err := h.catalog.Vehicles(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(vehicles)
}

// Clients godoc
// @Summary      Buscar clientes
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "texto de búsqueda (insensible a acentos)"
// @Success      200  {array}  dto.ClientRefDTO
// @Router       /api/catalog/clients [get]
func (h *CatalogHandler) Clients(c *fiber.Ctx) error {
	clients, err := h.catalog.SearchClients(c.Context(), c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clients)
}

// ClientItems godoc
// @Summary      Artículos habilitados para un cliente
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "código del cliente"
// @Success      200  {array}  dto.CatalogItemDTO
// @Router       /api/catalog/clients/{code}/items [get]
func (h *CatalogHandler) ClientItems(c *fiber.Ctx) error {
	items, err := h.catalog.ClientEligibleItems(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}
