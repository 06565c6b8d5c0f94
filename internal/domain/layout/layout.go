// Package layout genera la estructura de posiciones del dashboard que se
// persiste por (usuario, branch): una secuencia ordenada de celdas
// {id, tag, h, w, x, y} derivada de las features otorgadas.
package layout

import (
	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// Position es una geometría explícita que el frontend puede enviar para
// sobreescribir la geometría por defecto de la feature en el mismo índice.
type Position struct {
	H int  `json:"h"`
	W int  `json:"w"`
	X *int `json:"x"`
	Y *int `json:"y"`
}

// Build construye el layout en el orden de entrada de features.
//
//   - Deduplica por tag: la primera aparición gana, las siguientes se saltan.
//   - Si positions trae una entrada en el mismo índice (índice sobre la
//     secuencia de entrada, incluidos los saltados), esa geometría manda;
//     si no, se usa la geometría guardada de la feature.
//   - Si la feature tiene Required=camera y "camera_live" aún no fue colocada,
//     se busca ese tag en el catálogo y se agrega a continuación con su propia
//     geometría. Si el catálogo no lo tiene, se omite en silencio: no es error.
//
// La salida conserva el orden de inserción; nunca se re-ordena por tag ni id.
// Build es determinista: misma entrada, misma salida.
func Build(features []entity.AppFeature, positions []Position, catalog map[string]entity.AppFeature) []entity.LayoutEntry {
	result := make([]entity.LayoutEntry, 0, len(features))
	placed := make(map[string]struct{}, len(features))

	for idx, f := range features {
		if _, ok := placed[f.Tag]; ok {
			continue
		}

		entry := entity.LayoutEntry{ID: f.ID, Tag: f.Tag, H: f.H, W: f.W, X: f.X, Y: f.Y}
		if idx < len(positions) {
			p := positions[idx]
			entry.H, entry.W, entry.X, entry.Y = p.H, p.W, p.X, p.Y
		}
		result = append(result, entry)
		placed[f.Tag] = struct{}{}

		if !f.RequiresCamera() {
			continue
		}
		if _, ok := placed[entity.TagCameraLive]; ok {
			continue
		}
		live, ok := catalog[entity.TagCameraLive]
		if !ok {
			continue // el catálogo no define camera_live: se omite
		}
		result = append(result, entity.LayoutEntry{
			ID: live.ID, Tag: live.Tag, H: live.H, W: live.W, X: live.X, Y: live.Y,
		})
		placed[entity.TagCameraLive] = struct{}{}
	}

	return result
}
