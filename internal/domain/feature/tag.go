// Package feature contiene la lógica pura del catálogo: descomposición de tags
// en (grupo, operación) y expansión de entitlements con dependencias de cámara.
package feature

import (
	"strings"

	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// Grupos especiales de la descomposición de tags.
const (
	GroupCompany  = "company"  // cualquier tag que contenga "companysettings"
	GroupFeatures = "features" // tags sin "_" (features sueltas)
)

// Decompose deriva la llave de agrupación de permisos a partir de un tag.
//
// Reglas (en orden):
//  1. tag que contiene "companysettings" → grupo "company", sin operación
//     (el nombre visible es el nombre de la feature).
//  2. tag con "_" → "base_operación": grupo = base, operación = resto
//     ("orders_delete" → ("orders", "delete"); "camera_live" → ("camera", "live")).
//  3. tag sin "_" → grupo "features", sin operación.
//
// Se llama una sola vez al dar de alta la feature; el resultado se persiste en
// las columnas group/operation del catálogo para no re-parsear en cada lectura.
func Decompose(tag string) (group, operation string) {
	t := strings.ToLower(tag)
	if strings.Contains(t, "companysettings") {
		return GroupCompany, ""
	}
	if i := strings.Index(t, "_"); i >= 0 {
		return t[:i], t[i+1:]
	}
	return GroupFeatures, ""
}

// Annotate completa Group y Operation de una feature a partir de su tag.
func Annotate(f *entity.AppFeature) {
	f.Group, f.Operation = Decompose(f.Tag)
}
