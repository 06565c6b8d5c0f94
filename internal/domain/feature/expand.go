package feature

import (
	"strings"

	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// Expand calcula el conjunto de features disponibles a partir de una selección
// (las features de una suscripción) y el catálogo completo:
//
//  1. toda feature free del catálogo entra siempre;
//  2. toda feature seleccionada entra;
//  3. si alguna feature del resultado tiene Required=camera, entran además
//     todas las features del catálogo cuyo tag empieza por "camera_".
//
// El resultado es la unión distinta por id (la deduplicación por tag ocurre
// recién al generar el layout, no aquí). Una selección vacía no es error:
// devuelve solo las features free.
func Expand(selected, catalog []entity.AppFeature) []entity.AppFeature {
	seen := make(map[string]struct{}, len(selected)+len(catalog))
	out := make([]entity.AppFeature, 0, len(selected)+len(catalog))

	add := func(f entity.AppFeature) {
		if _, ok := seen[f.ID]; ok {
			return
		}
		seen[f.ID] = struct{}{}
		out = append(out, f)
	}

	for _, f := range catalog {
		if f.IsFree() {
			add(f)
		}
	}
	for _, f := range selected {
		add(f)
	}

	needsCamera := false
	for _, f := range out {
		if f.RequiresCamera() {
			needsCamera = true
			break
		}
	}
	if needsCamera {
		for _, f := range catalog {
			if strings.HasPrefix(strings.ToLower(f.Tag), entity.CameraTagPrefix) {
				add(f)
			}
		}
	}

	return out
}

// IDs proyecta un slice de features a sus ids, en el mismo orden.
func IDs(features []entity.AppFeature) []string {
	ids := make([]string, 0, len(features))
	for _, f := range features {
		ids = append(ids, f.ID)
	}
	return ids
}

// IndexByTag construye un índice tag→feature para búsquedas del generador de layout.
func IndexByTag(catalog []entity.AppFeature) map[string]entity.AppFeature {
	idx := make(map[string]entity.AppFeature, len(catalog))
	for _, f := range catalog {
		idx[f.Tag] = f
	}
	return idx
}
