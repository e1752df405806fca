package repository

import (
	"context"

	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
)

// CatalogGateway consultas de solo lectura para los datos de referencia
// de cada paso del asistente. No tiene lógica propia.
type CatalogGateway interface {
	// DocumentTypes lista los tipos de documento disponibles.
	DocumentTypes(ctx context.Context) ([]entity.DocumentType, error)
	// Drivers lista los conductores.
	Drivers(ctx context.Context) ([]entity.Driver, error)
	// Vehicles lista los vehículos.
	Vehicles(ctx context.Context) ([]entity.Vehicle, error)
	// SearchClients busca clientes por texto (insensible a acentos).
	SearchClients(ctx context.Context, search string) ([]entity.Client, error)
	// ClientEligibleItems lista los artículos habilitados para un cliente.
	// Una lista vacía bloquea el paso Cliente → Artículos.
	ClientEligibleItems(ctx context.Context, clientCode string) ([]entity.CatalogItem, error)
}
