package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de feature del catálogo.
const (
	FeatureTypeFree    = "free"
	FeatureTypePaid    = "paid"
	FeatureTypeDepends = "depends"
)

// Hardware requerido por una feature.
const (
	RequiredNone   = ""
	RequiredSensor = "sensor"
	RequiredCamera = "camera"
)

// TagCameraLive es la feature compañera que se inyecta automáticamente en el
// layout cuando una feature con Required=camera está presente.
const TagCameraLive = "camera_live"

// CameraTagPrefix agrupa las features dependientes de cámara en la expansión.
const CameraTagPrefix = "camera_"

// Geometría por defecto de una celda del grid del dashboard.
const (
	DefaultCellW = 4
	DefaultCellH = 65
)

// AppFeature es una entrada del catálogo de funcionalidad contratable.
// Group y Operation se derivan del tag una sola vez al crear/sembrar la feature
// (feature.Decompose); los lectores agrupan por estas columnas y nunca vuelven
// a parsear el tag.
type AppFeature struct {
	ID          string
	Name        string
	Tag         string // único en el catálogo
	Group       string // grupo de permisos derivado del tag
	Operation   string // nombre de la operación dentro del grupo ("" = usar Name)
	Order       int    // prioridad de agrupación/visualización
	Description string
	Price       decimal.Decimal
	FeatureType string // free, paid, depends
	Required    string // "", sensor, camera

	// Geometría por defecto en el grid del dashboard.
	W int
	H int
	X *int
	Y *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFree informa si la feature está siempre disponible.
func (f *AppFeature) IsFree() bool { return f.FeatureType == FeatureTypeFree }

// RequiresCamera informa si la feature exige el paquete de cámara.
func (f *AppFeature) RequiresCamera() bool { return f.Required == RequiredCamera }

// DisplayName es el nombre visible dentro de su grupo de permisos: la operación
// derivada del tag, o el nombre de la feature si el tag no codifica operación.
func (f *AppFeature) DisplayName() string {
	if f.Operation != "" {
		return f.Operation
	}
	return f.Name
}
