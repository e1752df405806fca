package entity

// Entidades de catálogo: referencias de solo lectura que alimentan los
// pasos del asistente. Todas exponen un código identificador estable y
// un nombre para mostrar.

// DocumentType tipo de documento disponible para el tiquete.
type DocumentType struct {
	Name string
}

// Driver conductor asignable al transporte.
type Driver struct {
	Code string
	Name string
}

// Vehicle vehículo asignable al transporte.
type Vehicle struct {
	Code  string
	Plate string
}

// Client cliente del tiquete.
type Client struct {
	Code string
	Name string
}

// CatalogItem artículo habilitado para un cliente.
type CatalogItem struct {
	Code        string
	Description string
	Unit        string
	GroupCode   string
	FamilyCode  string
}
