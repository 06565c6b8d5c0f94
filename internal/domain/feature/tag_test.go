package feature_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tamayuz/platform-api/internal/domain/entity"
	"github.com/tamayuz/platform-api/internal/domain/feature"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestDecompose cubre las tres reglas de derivación de (grupo, operación) a
// partir del tag, en el orden en que se evalúan: companysettings primero,
// luego "base_operación", y por último tags sin guión bajo.
// ──────────────────────────────────────────────────────────────────────────────

func TestDecompose(t *testing.T) {
	cases := []struct {
		tag       string
		group     string
		operation string
	}{
		{"companysettings_view", "company", ""},
		{"companysettings_edit", "company", ""},
		{"orders_delete", "orders", "delete"},
		{"orders_view", "orders", "view"},
		{"camera_live", "camera", "live"},
		{"inventory_low_stock", "inventory", "low_stock"},
		{"dashboard", "features", ""},
		{"heatmap", "features", ""},
		{"ORDERS_VIEW", "orders", "view"},
	}

	for _, tc := range cases {
		t.Run(tc.tag, func(t *testing.T) {
			group, operation := feature.Decompose(tc.tag)
			assert.Equal(t, tc.group, group, "grupo de %q", tc.tag)
			assert.Equal(t, tc.operation, operation, "operación de %q", tc.tag)
		})
	}
}

func TestAnnotate_PersisteGrupoYOperacion(t *testing.T) {
	f := &entity.AppFeature{Name: "Eliminar pedidos", Tag: "orders_delete"}
	feature.Annotate(f)

	assert.Equal(t, "orders", f.Group)
	assert.Equal(t, "delete", f.Operation)
	assert.Equal(t, "delete", f.DisplayName())
}

// TestDisplayName_SinOperacion una feature cuyo tag no codifica operación se
// muestra con su propio nombre dentro del grupo.
func TestDisplayName_SinOperacion(t *testing.T) {
	f := &entity.AppFeature{Name: "Dashboard", Tag: "dashboard"}
	feature.Annotate(f)

	assert.Equal(t, "features", f.Group)
	assert.Equal(t, "Dashboard", f.DisplayName())
}
