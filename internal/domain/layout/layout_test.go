package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/feature"
	"github.com/tamayuz/platform-api/internal/domain/layout"
)

func cell(id, tag string) entity.AppFeature {
	return entity.AppFeature{ID: id, Tag: tag, W: entity.DefaultCellW, H: entity.DefaultCellH}
}

func cameraCell(id, tag string) entity.AppFeature {
	f := cell(id, tag)
	f.Required = entity.RequiredCamera
	f.H = 130
	return f
}

func layoutCatalog(withLive bool) map[string]entity.AppFeature {
	feats := []entity.AppFeature{
		cell("f-dash", "dashboard"),
		cell("f-orders", "orders_view"),
		cameraCell("f-people", "people_counting"),
	}
	if withLive {
		feats = append(feats, cameraCell("f-live", entity.TagCameraLive))
	}
	return feature.IndexByTag(feats)
}

func entryTags(entries []entity.LayoutEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Tag)
	}
	return out
}

// TestBuild_OrdenDeEntrada la salida respeta el orden de las features de
// entrada y usa la geometría guardada de cada una.
func TestBuild_OrdenDeEntrada(t *testing.T) {
	feats := []entity.AppFeature{cell("f-orders", "orders_view"), cell("f-dash", "dashboard")}

	got := layout.Build(feats, nil, layoutCatalog(true))

	require.Len(t, got, 2)
	assert.Equal(t, []string{"orders_view", "dashboard"}, entryTags(got))
	assert.Equal(t, entity.DefaultCellW, got[0].W)
	assert.Equal(t, entity.DefaultCellH, got[0].H)
	assert.Nil(t, got[0].X)
	assert.Nil(t, got[0].Y)
}

// TestBuild_DeduplicaPorTag la primera aparición de un tag gana; las
// siguientes se saltan sin alterar el orden del resto.
func TestBuild_DeduplicaPorTag(t *testing.T) {
	feats := []entity.AppFeature{
		cell("f-dash", "dashboard"),
		cell("f-dash-2", "dashboard"), // mismo tag, id distinto: se salta
		cell("f-orders", "orders_view"),
	}

	got := layout.Build(feats, nil, layoutCatalog(true))

	require.Len(t, got, 2)
	assert.Equal(t, []string{"dashboard", "orders_view"}, entryTags(got))
	assert.Equal(t, "f-dash", got[0].ID, "gana la primera aparición del tag")
}

// TestBuild_PosicionPorIndice positions sobreescribe la geometría por índice
// de la secuencia de ENTRADA: un duplicado saltado igual consume su índice.
func TestBuild_PosicionPorIndice(t *testing.T) {
	x, y := 2, 4
	feats := []entity.AppFeature{
		cell("f-dash", "dashboard"),
		cell("f-dash-2", "dashboard"),
		cell("f-orders", "orders_view"),
	}
	positions := []layout.Position{
		{H: 100, W: 6, X: &x, Y: &y},
		{H: 1, W: 1},
		{H: 200, W: 8},
	}

	got := layout.Build(feats, positions, layoutCatalog(true))

	require.Len(t, got, 2)
	assert.Equal(t, 100, got[0].H)
	assert.Equal(t, 6, got[0].W)
	require.NotNil(t, got[0].X)
	assert.Equal(t, 2, *got[0].X)
	require.NotNil(t, got[0].Y)
	assert.Equal(t, 4, *got[0].Y)
	// orders_view está en el índice 2 de la entrada, no en el 1
	assert.Equal(t, 200, got[1].H)
	assert.Equal(t, 8, got[1].W)
}

// TestBuild_InyectaCameraLive una feature con Required=camera agrega
// camera_live a continuación, con la geometría del catálogo, una sola vez.
func TestBuild_InyectaCameraLive(t *testing.T) {
	feats := []entity.AppFeature{
		cameraCell("f-people", "people_counting"),
		cell("f-orders", "orders_view"),
	}

	got := layout.Build(feats, nil, layoutCatalog(true))

	require.Len(t, got, 3)
	assert.Equal(t, []string{"people_counting", entity.TagCameraLive, "orders_view"}, entryTags(got))
	assert.Equal(t, "f-live", got[1].ID)
	assert.Equal(t, 130, got[1].H)
}

// TestBuild_CameraLiveYaColocada si camera_live viene en la entrada antes de
// la feature de cámara, no se inyecta de nuevo.
func TestBuild_CameraLiveYaColocada(t *testing.T) {
	feats := []entity.AppFeature{
		cameraCell("f-live", entity.TagCameraLive),
		cameraCell("f-people", "people_counting"),
	}

	got := layout.Build(feats, nil, layoutCatalog(true))

	assert.Equal(t, []string{entity.TagCameraLive, "people_counting"}, entryTags(got))
}

// TestBuild_CatalogoSinCameraLive si el catálogo no define camera_live, la
// inyección se omite en silencio: no es error.
func TestBuild_CatalogoSinCameraLive(t *testing.T) {
	feats := []entity.AppFeature{cameraCell("f-people", "people_counting")}

	got := layout.Build(feats, nil, layoutCatalog(false))

	assert.Equal(t, []string{"people_counting"}, entryTags(got))
}

func TestBuild_Determinista(t *testing.T) {
	feats := []entity.AppFeature{
		cameraCell("f-people", "people_counting"),
		cell("f-dash", "dashboard"),
		cell("f-orders", "orders_view"),
	}
	catalog := layoutCatalog(true)

	first := layout.Build(feats, nil, catalog)
	second := layout.Build(feats, nil, catalog)

	assert.Equal(t, first, second)
}

func TestBuild_EntradaVacia(t *testing.T) {
	got := layout.Build(nil, nil, layoutCatalog(true))
	assert.Empty(t, got)
}
