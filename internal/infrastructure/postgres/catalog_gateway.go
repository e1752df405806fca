package postgres

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/tu-usuario/tickets-pro/internal/domain/entity"
	"github.com/tu-usuario/tickets-pro/internal/domain/repository"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var _ repository.CatalogGateway = (*CatalogGateway)(nil)

// CatalogGateway implementación de consultas de catálogo sobre
// PostgreSQL (usable con pool o tx).
type CatalogGateway struct {
	q Querier
}

// NewCatalogGateway construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogGateway(q Querier) *CatalogGateway {
	return &CatalogGateway{q: q}
}

// DocumentTypes lista los tipos de documento disponibles.
func (g *CatalogGateway) DocumentTypes(ctx context.Context) ([]entity.DocumentType, error) {
	rows, err := g.q.Query(ctx, `SELECT name FROM document_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("document types: %w", err)
	}
	defer rows.Close()

	var out []entity.DocumentType
	for rows.Next() {
		var t entity.DocumentType
		if err := rows.Scan(&t.Name); err != nil {
			return nil, fmt.Errorf("scan document type: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Drivers lista los conductores.
func (g *CatalogGateway) Drivers(ctx context.Context) ([]entity.Driver, error) {
	rows, err := g.q.Query(ctx, `SELECT code, name FROM drivers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("drivers: %w", err)
	}
	defer rows.Close()

	var out []entity.Driver
	for rows.Next() {
		var d entity.Driver
		if err := rows.Scan(&d.Code, &d.Name); err != nil {
			return nil, fmt.Errorf("scan driver: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Vehicles lista los vehículos.
func (g *CatalogGateway) Vehicles(ctx context.Context) ([]entity.Vehicle, error) {
	rows, err := g.q.Query(ctx, `SELECT code, plate FROM vehicles ORDER BY plate`)
	if err != nil {
		return nil, fmt.Errorf("vehicles: %w", err)
	}
	defer rows.Close()

	var out []entity.Vehicle
	for rows.Next() {
		var v entity.Vehicle
		if err := rows.Scan(&v.Code, &v.Plate); err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// SearchClients busca clientes por código o nombre. La búsqueda es
// insensible a mayúsculas y acentos (se normaliza el término con NFD
// antes de comparar con la columna sin tildes).
func (g *CatalogGateway) SearchClients(ctx context.Context, search string) ([]entity.Client, error) {
	term := "%" + stripAccents(strings.TrimSpace(search)) + "%"
	rows, err := g.q.Query(ctx, `
		SELECT code, name FROM clients
		WHERE code ILIKE $1 OR unaccent_name ILIKE $1
		ORDER BY name
		LIMIT 50`, term)
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	defer rows.Close()

	var out []entity.Client
	for rows.Next() {
		var c entity.Client
		if err := rows.Scan(&c.Code, &c.Name); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ClientEligibleItems lista los artículos habilitados para un cliente.
// Lista vacía no es error: el asistente la trata como regla de negocio.
func (g *CatalogGateway) ClientEligibleItems(ctx context.Context, clientCode string) ([]entity.CatalogItem, error) {
	rows, err := g.q.Query(ctx, `
		SELECT i.code, i.description, i.unit, i.group_code, i.family_code
		FROM items i
		JOIN client_items ci ON ci.item_code = i.code
		WHERE ci.client_code = $1
		ORDER BY i.description`, clientCode)
	if err != nil {
		return nil, fmt.Errorf("client items: %w", err)
	}
	defer rows.Close()

	var out []entity.CatalogItem
	for rows.Next() {
		var it entity.CatalogItem
		if err := rows.Scan(&it.Code, &it.Description, &it.Unit, &it.GroupCode, &it.FamilyCode); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// stripAccents quita marcas diacríticas (NFD, descarta Mn, NFC).
func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
