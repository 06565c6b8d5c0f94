package permission_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/application/permission"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos que el resolutor consume. Solo implementan
// lo que el resolutor toca; el resto entra en pánico a propósito para que un
// test que pise un camino inesperado falle fuerte.
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users    map[string]*entity.User
	assigned map[string][]string
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *fakeUserRepo) GetAssignedBranchIDs(_ context.Context, userID string) ([]string, error) {
	return r.assigned[userID], nil
}

func (r *fakeUserRepo) Create(context.Context, *entity.User) error { panic("no usado") }
func (r *fakeUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	panic("no usado")
}
func (r *fakeUserRepo) Update(context.Context, *entity.User) error { panic("no usado") }
func (r *fakeUserRepo) Delete(context.Context, string) error       { panic("no usado") }
func (r *fakeUserRepo) ListByBranches(context.Context, []string, string) ([]*entity.User, error) {
	panic("no usado")
}
func (r *fakeUserRepo) SetAssignedBranches(context.Context, string, []string) error {
	panic("no usado")
}

type fakeBranchRepo struct {
	branches map[string]*entity.Branch
	entitled map[string][]string
}

func (r *fakeBranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	return r.branches[id], nil
}

func (r *fakeBranchRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range r.branches {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBranchRepo) ListByIDs(_ context.Context, ids []string) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, id := range ids {
		if b, ok := r.branches[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBranchRepo) GetFeatureIDs(_ context.Context, branchID string) ([]string, error) {
	return r.entitled[branchID], nil
}

func (r *fakeBranchRepo) Create(context.Context, *entity.Branch) error { panic("no usado") }
func (r *fakeBranchRepo) GetByCompanyAndName(context.Context, string, string) (*entity.Branch, error) {
	panic("no usado")
}
func (r *fakeBranchRepo) Update(context.Context, *entity.Branch) error { panic("no usado") }
func (r *fakeBranchRepo) Delete(context.Context, string) error         { panic("no usado") }
func (r *fakeBranchRepo) SetFeatures(context.Context, string, []string) error {
	panic("no usado")
}

type fakeFeatureRepo struct {
	catalog []entity.AppFeature
}

func (r *fakeFeatureRepo) ListByIDs(_ context.Context, ids []string) ([]entity.AppFeature, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	// El catálogo ya está ordenado por `order`; el filtrado preserva ese orden.
	var out []entity.AppFeature
	for _, f := range r.catalog {
		if wanted[f.ID] {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFeatureRepo) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.catalog))
	for _, f := range r.catalog {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

func (r *fakeFeatureRepo) Create(context.Context, *entity.AppFeature) error { panic("no usado") }
func (r *fakeFeatureRepo) GetByID(context.Context, string) (*entity.AppFeature, error) {
	panic("no usado")
}
func (r *fakeFeatureRepo) GetByTag(context.Context, string) (*entity.AppFeature, error) {
	panic("no usado")
}
func (r *fakeFeatureRepo) ListAll(context.Context) ([]entity.AppFeature, error) { panic("no usado") }
func (r *fakeFeatureRepo) ListByType(context.Context, string) ([]entity.AppFeature, error) {
	panic("no usado")
}

type fakeGrantRepo struct {
	// (userID, branchID) → featureIDs
	grants map[[2]string][]string
}

func (r *fakeGrantRepo) GetFeatureIDs(_ context.Context, userID, branchID string) ([]string, error) {
	return r.grants[[2]string{userID, branchID}], nil
}

func (r *fakeGrantRepo) Upsert(context.Context, string, string, []string) error { panic("no usado") }
func (r *fakeGrantRepo) MapByUser(context.Context, string) (map[string][]string, error) {
	panic("no usado")
}
func (r *fakeGrantRepo) DeleteByUser(context.Context, string) error { panic("no usado") }

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: una empresa con dos sucursales, catálogo de pedidos + dashboard.
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "comp-1"
	ownerID   = "user-owner"
	adminID   = "user-admin"
	memberID  = "user-member"
	branchA   = "5b0c0d4e-1a2b-4c3d-8e4f-000000000a0a"
	branchB   = "5b0c0d4e-1a2b-4c3d-8e4f-000000000b0b"
)

func fixtureFeature(id, tag string, order int) entity.AppFeature {
	f := entity.AppFeature{ID: id, Name: tag, Tag: tag, Order: order}
	f.Group, f.Operation = splitTag(tag)
	return f
}

func splitTag(tag string) (string, string) {
	for i := 0; i < len(tag); i++ {
		if tag[i] == '_' {
			return tag[:i], tag[i+1:]
		}
	}
	return "features", ""
}

func newFixture() (*permission.Resolver, *fakeGrantRepo) {
	cid := companyID
	users := &fakeUserRepo{
		users: map[string]*entity.User{
			ownerID:  {ID: ownerID, CompanyID: &cid, IsOwner: true},
			adminID:  {ID: adminID, CompanyID: &cid, IsAdmin: true},
			memberID: {ID: memberID, CompanyID: &cid},
		},
		assigned: map[string][]string{
			adminID:  {branchA, branchB},
			memberID: {branchA},
		},
	}
	branches := &fakeBranchRepo{
		branches: map[string]*entity.Branch{
			branchA: {ID: branchA, CompanyID: companyID, Name: "Centro"},
			branchB: {ID: branchB, CompanyID: companyID, Name: "Norte"},
		},
		entitled: map[string][]string{
			branchA: {"f1", "f2", "f3"},
			branchB: {"f1", "f2"},
		},
	}
	dashboard := fixtureFeature("f4", "dashboard", 4)
	dashboard.Name = "Dashboard"
	features := &fakeFeatureRepo{catalog: []entity.AppFeature{
		fixtureFeature("f1", "orders_view", 1),
		fixtureFeature("f2", "orders_edit", 2),
		fixtureFeature("f3", "orders_delete", 3),
		dashboard,
	}}
	grants := &fakeGrantRepo{grants: map[[2]string][]string{
		{adminID, branchA}:  {"f1", "f2"},
		{memberID, branchA}: {"f2", "f3"},
	}}
	return permission.NewResolver(users, branches, features, grants), grants
}

// ──────────────────────────────────────────────────────────────────────────────
// SelfView
// ──────────────────────────────────────────────────────────────────────────────

func TestSelfView_DuenoRecibeCatalogoCompleto(t *testing.T) {
	rs, _ := newFixture()

	got, err := rs.SelfView(context.Background(), ownerID, nil)
	require.NoError(t, err)
	require.Len(t, got, 2, "el dueño alcanza todas las sucursales de su empresa")

	for _, entry := range got {
		var ids []string
		for _, g := range entry.Groups {
			for _, op := range g.Operations {
				ids = append(ids, op.ID)
			}
		}
		assert.ElementsMatch(t, []string{"f1", "f2", "f3", "f4"}, ids,
			"el dueño ve el catálogo completo en %s, ignorando grants guardados", entry.BranchName)
	}
}

func TestSelfView_NoDuenoUsaSusGrants(t *testing.T) {
	rs, _ := newFixture()

	got, err := rs.SelfView(context.Background(), memberID, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, branchA, got[0].BranchID)

	require.Len(t, got[0].Groups, 1)
	assert.Equal(t, "orders", got[0].Groups[0].Name)
	ops := got[0].Groups[0].Operations
	require.Len(t, ops, 2)
	// Orden por `order` del catálogo, no por el grant.
	assert.Equal(t, "edit", ops[0].Name)
	assert.Equal(t, "delete", ops[1].Name)
}

// TestSelfView_SucursalSinGrant una sucursal alcanzable sin grant guardado
// emite su entrada con groups vacío, no desaparece ni es error.
func TestSelfView_SucursalSinGrant(t *testing.T) {
	rs, _ := newFixture()

	got, err := rs.SelfView(context.Background(), adminID, []string{branchB})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, branchB, got[0].BranchID)
	assert.Empty(t, got[0].Groups)
}

// TestSelfView_FiltroDescartaFueraDeAlcance ids fuera del alcance del usuario
// se descartan en silencio.
func TestSelfView_FiltroDescartaFueraDeAlcance(t *testing.T) {
	rs, _ := newFixture()

	got, err := rs.SelfView(context.Background(), memberID, []string{branchA, branchB, "branch-ajena"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, branchA, got[0].BranchID)
}

func TestSelfView_UsuarioInexistente(t *testing.T) {
	rs, _ := newFixture()

	_, err := rs.SelfView(context.Background(), "no-existe", nil)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comparison: actor={f1,f2}, objetivo={f2,f3}, entitled(A)={f1,f2,f3}.
// f1: solo el actor     → allowed=false
// f2: ambos             → allowed=true,  disabled=false
// f3: solo el objetivo  → allowed=true,  disabled=true
// ──────────────────────────────────────────────────────────────────────────────

func TestComparison_AlgebraDeCapacidades(t *testing.T) {
	rs, _ := newFixture()

	got, err := rs.Comparison(context.Background(), adminID, dto.ComparisonRequest{
		UserID:    memberID,
		BranchIDs: []string{branchA},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Empty(t, got[0].Error)
	require.Len(t, got[0].Groups, 1)

	items := got[0].Groups[0].Items
	require.Len(t, items, 3)

	byID := make(map[string]dto.ComparisonItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	assert.False(t, byID["f1"].Allowed)
	assert.False(t, byID["f1"].Disabled)
	assert.True(t, byID["f2"].Allowed)
	assert.False(t, byID["f2"].Disabled)
	assert.True(t, byID["f3"].Allowed)
	assert.True(t, byID["f3"].Disabled)
}

// TestComparison_RecortaPorEntitlement una feature otorgada que la sucursal ya
// no tiene en su entitlement no aparece en la comparación.
func TestComparison_RecortaPorEntitlement(t *testing.T) {
	rs, grants := newFixture()
	grants.grants[[2]string{memberID, branchB}] = []string{"f1", "f3"} // f3 no entitled en B

	got, err := rs.Comparison(context.Background(), adminID, dto.ComparisonRequest{
		UserID:    memberID,
		BranchIDs: []string{branchB},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	var ids []string
	for _, g := range got[0].Groups {
		for _, it := range g.Items {
			ids = append(ids, it.ID)
		}
	}
	assert.NotContains(t, ids, "f3")
}

// TestComparison_SucursalInexistente marca su entrada con error sin abortar
// el resto del lote.
func TestComparison_SucursalInexistente(t *testing.T) {
	rs, _ := newFixture()

	got, err := rs.Comparison(context.Background(), adminID, dto.ComparisonRequest{
		UserID:    memberID,
		BranchIDs: []string{"5b0c0d4e-1a2b-4c3d-8e4f-00000000dead", branchA},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "sucursal no encontrada", got[0].Error)
	assert.Empty(t, got[0].Groups)
	assert.Empty(t, got[1].Error)
}

func TestComparison_SinSucursales(t *testing.T) {
	rs, _ := newFixture()

	_, err := rs.Comparison(context.Background(), adminID, dto.ComparisonRequest{
		UserID:    memberID,
		BranchIDs: []string{"", ""},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// TestComparison_IdsMalFormados un id que no tiene forma de UUID se descarta
// antes de consultar la base; si ninguno sobrevive la petición es inválida.
func TestComparison_IdsMalFormados(t *testing.T) {
	rs, _ := newFixture()

	got, err := rs.Comparison(context.Background(), adminID, dto.ComparisonRequest{
		UserID:    memberID,
		BranchIDs: []string{"no-es-un-uuid", branchA},
	})
	require.NoError(t, err)
	require.Len(t, got, 1, "el id mal formado no aborta el lote ni emite entrada")
	assert.Equal(t, branchA, got[0].BranchID)

	_, err = rs.Comparison(context.Background(), adminID, dto.ComparisonRequest{
		UserID:    memberID,
		BranchIDs: []string{"no-es-un-uuid", "123"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "sin ids válidos la petición es inválida")
}

// TestSelfView_TagSoloEnFeaturesSueltas el tag acompaña solo a las features
// sin operación derivada; en los grupos con operación se omite.
func TestSelfView_TagSoloEnFeaturesSueltas(t *testing.T) {
	rs, _ := newFixture()

	got, err := rs.SelfView(context.Background(), ownerID, []string{branchA})
	require.NoError(t, err)
	require.Len(t, got, 1)

	for _, g := range got[0].Groups {
		for _, op := range g.Operations {
			if g.Name == "features" {
				assert.Equal(t, "dashboard", op.Tag)
				assert.Equal(t, "Dashboard", op.Name, "el nombre visible conserva su capitalización")
			} else {
				assert.Empty(t, op.Tag, "grupo %s: la operación %s no lleva tag", g.Name, op.Name)
			}
		}
	}
}

// TestComparison_NombresEnMinusculas la vista de comparación normaliza los
// nombres visibles a minúsculas.
func TestComparison_NombresEnMinusculas(t *testing.T) {
	cid := companyID
	users := &fakeUserRepo{users: map[string]*entity.User{
		adminID:  {ID: adminID, CompanyID: &cid, IsAdmin: true},
		memberID: {ID: memberID, CompanyID: &cid},
	}}
	branches := &fakeBranchRepo{
		branches: map[string]*entity.Branch{branchA: {ID: branchA, CompanyID: companyID, Name: "Centro"}},
		entitled: map[string][]string{branchA: {"f4"}},
	}
	dashboard := fixtureFeature("f4", "dashboard", 1)
	dashboard.Name = "Dashboard"
	features := &fakeFeatureRepo{catalog: []entity.AppFeature{dashboard}}
	grants := &fakeGrantRepo{grants: map[[2]string][]string{
		{memberID, branchA}: {"f4"},
	}}
	rs := permission.NewResolver(users, branches, features, grants)

	got, err := rs.Comparison(context.Background(), adminID, dto.ComparisonRequest{
		UserID:    memberID,
		BranchIDs: []string{branchA},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Groups, 1)
	require.Len(t, got[0].Groups[0].Items, 1)
	assert.Equal(t, "dashboard", got[0].Groups[0].Items[0].Name)
}

func TestComparison_ObjetivoInexistente(t *testing.T) {
	rs, _ := newFixture()

	_, err := rs.Comparison(context.Background(), adminID, dto.ComparisonRequest{
		UserID:    "no-existe",
		BranchIDs: []string{branchA},
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
