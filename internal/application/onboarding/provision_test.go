package onboarding_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tamayuz/platform-api/internal/application/dto"
	"github.com/tamayuz/platform-api/internal/application/onboarding"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
)

const provisionHistID = "hist-1"

// newProvisionFixture deja al comprador en token_verified con permiso
// company_create y una selección pagada de orders_view + people_counting.
func newProvisionFixture() (*memStore, *onboarding.ProvisionUseCase) {
	store := newMemStore()
	store.users[buyerID] = &entity.User{
		ID: buyerID, Email: "buyer@example.com", Name: "Compradora",
		IsVerified: true, IsActive: true,
		CompanyCreate: true,
	}
	store.catalog = []entity.AppFeature{
		catalogFeature("f-dash", "dashboard", "0", entity.FeatureTypeFree),
		catalogFeature("f-orders", "orders_view", "9.99", entity.FeatureTypePaid),
		{
			ID: "f-people", Name: "people_counting", Tag: "people_counting",
			Price: decimal.RequireFromString("29.99"), FeatureType: entity.FeatureTypePaid,
			Required: entity.RequiredCamera, W: entity.DefaultCellW, H: 130,
		},
		{
			ID: "f-live", Name: "camera_live", Tag: entity.TagCameraLive,
			FeatureType: entity.FeatureTypeDepends, Required: entity.RequiredCamera,
			W: entity.DefaultCellW, H: 130,
		},
	}
	store.hists[provisionHistID] = &entity.SubscriptionHistory{
		ID: provisionHistID, UID: "abc123", UserID: buyerID,
		PackageDuration: 12, Paid: true, IsActive: true,
		RegistrationStep: entity.StepTokenVerified,
	}
	store.histFeatures[provisionHistID] = []string{"f-orders", "f-people"}

	return store, onboarding.NewProvisionUseCase(&memTx{store: store})
}

func companyRequest() dto.CreateCompanyRequest {
	return dto.CreateCompanyRequest{
		SubscriptionHistoryID: provisionHistID,
		Name:                  "Tamayuz",
		Subdomain:             "tamayuz",
		Address:               "Calle 1 #2-3",
		Contacts:              []dto.ContactInput{{Email: "contacto@tamayuz.co", PhoneNumber: "3001234567"}},
	}
}

func TestCreateCompany_AprovisionaTodo(t *testing.T) {
	store, uc := newProvisionFixture()

	out, err := uc.CreateCompany(context.Background(), buyerID, companyRequest())
	require.NoError(t, err)
	require.Len(t, store.companies, 1)
	require.Len(t, store.branches, 1)

	var branchID string
	for id, b := range store.branches {
		branchID = id
		assert.Equal(t, entity.MainBranchName, b.Name)
		assert.Equal(t, out.ID, b.CompanyID)
	}

	// El usuario queda dueño, con el permiso consumido y la sucursal asignada.
	user := store.users[buyerID]
	assert.True(t, user.IsOwner)
	assert.False(t, user.CompanyCreate, "el permiso es de un solo uso")
	require.NotNil(t, user.CompanyID)
	assert.Equal(t, out.ID, *user.CompanyID)
	assert.Equal(t, []string{branchID}, store.assigned[buyerID])

	// La suscripción queda atada, vigente y terminal.
	hist := store.hists[provisionHistID]
	assert.Equal(t, entity.StepCompleted, hist.RegistrationStep)
	require.NotNil(t, hist.CompanyID)
	assert.Equal(t, out.ID, *hist.CompanyID)
	require.NotNil(t, hist.EndDate)
	assert.Equal(t, hist.StartDate.AddDate(0, 12, 0), *hist.EndDate)

	// Entitlement del branch = selección; grant del dueño = expansión
	// (free + selección + paquete de cámara).
	assert.Equal(t, []string{"f-orders", "f-people"}, store.branchFeatures[branchID])
	assert.ElementsMatch(t, []string{"f-dash", "f-orders", "f-people", "f-live"},
		store.grants[pair{buyerID, branchID}])

	// El layout sale de la selección, con camera_live inyectada.
	saved := store.layouts[pair{buyerID, branchID}]
	require.NotNil(t, saved)
	var tags []string
	for _, e := range saved.Position {
		tags = append(tags, e.Tag)
	}
	assert.Equal(t, []string{"orders_view", "people_counting", entity.TagCameraLive}, tags)

	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "contacto@tamayuz.co", out.Contacts[0].Email)
}

func TestCreateCompany_SinPermiso(t *testing.T) {
	store, uc := newProvisionFixture()
	store.users[buyerID].CompanyCreate = false

	_, err := uc.CreateCompany(context.Background(), buyerID, companyRequest())
	assert.ErrorIs(t, err, domain.ErrPermission)
}

func TestCreateCompany_PasoIncorrecto(t *testing.T) {
	store, uc := newProvisionFixture()
	store.hists[provisionHistID].RegistrationStep = entity.StepFeaturesSelected

	_, err := uc.CreateCompany(context.Background(), buyerID, companyRequest())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// TestCreateCompany_SuscripcionYaAtada una suscripción que ya quedó atada a
// una empresa no vuelve a aprovisionar, aunque su paso registre token_verified.
func TestCreateCompany_SuscripcionYaAtada(t *testing.T) {
	store, uc := newProvisionFixture()
	otherCompany := "comp-ajena"
	store.hists[provisionHistID].CompanyID = &otherCompany

	_, err := uc.CreateCompany(context.Background(), buyerID, companyRequest())
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, store.companies, "nada queda aprovisionado")
}

func TestCreateCompany_NombreDuplicado(t *testing.T) {
	store, uc := newProvisionFixture()
	store.companies["otra"] = &entity.Company{ID: "otra", Name: "Tamayuz", Subdomain: "otra"}

	_, err := uc.CreateCompany(context.Background(), buyerID, companyRequest())
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// TestCreateCompany_ContactoDuplicadoRevierteTodo un contacto repetido hace
// rollback completo: ni empresa, ni sucursal, ni permiso consumido.
func TestCreateCompany_ContactoDuplicadoRevierteTodo(t *testing.T) {
	store, uc := newProvisionFixture()
	store.contacts["c-1"] = &entity.Contact{ID: "c-1", Email: "contacto@tamayuz.co"}

	_, err := uc.CreateCompany(context.Background(), buyerID, companyRequest())
	require.ErrorIs(t, err, domain.ErrConflict)

	assert.Empty(t, store.companies)
	assert.Empty(t, store.branches)
	assert.True(t, store.users[buyerID].CompanyCreate, "el permiso no se consume si la transacción revierte")
	assert.Equal(t, entity.StepTokenVerified, store.hists[provisionHistID].RegistrationStep)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateBranch
// ──────────────────────────────────────────────────────────────────────────────

func withExistingCompany(store *memStore) (companyID, mainBranchID string) {
	companyID, mainBranchID = "comp-1", "branch-main"
	store.companies[companyID] = &entity.Company{ID: companyID, Name: "Tamayuz", Subdomain: "tamayuz"}
	store.branches[mainBranchID] = &entity.Branch{ID: mainBranchID, CompanyID: companyID, Name: entity.MainBranchName}
	user := store.users[buyerID]
	user.CompanyID = &companyID
	user.IsOwner = true
	user.CompanyCreate = false
	user.BranchCreate = true
	store.assigned[buyerID] = []string{mainBranchID}
	return companyID, mainBranchID
}

func TestCreateBranch_AgregaSucursal(t *testing.T) {
	store, uc := newProvisionFixture()
	companyID, mainBranchID := withExistingCompany(store)

	out, err := uc.CreateBranch(context.Background(), buyerID, dto.CreateBranchRequest{
		SubscriptionHistoryID: provisionHistID,
		Name:                  "Norte",
		Location:              "Carrera 9 #10-11",
	})
	require.NoError(t, err)
	assert.Equal(t, companyID, out.CompanyID)
	assert.Equal(t, "Norte", out.Name)

	assert.False(t, store.users[buyerID].BranchCreate, "el permiso es de un solo uso")
	assert.Equal(t, []string{mainBranchID, out.ID}, store.assigned[buyerID],
		"la nueva sucursal se agrega a las asignadas sin pisar las previas")

	hist := store.hists[provisionHistID]
	assert.Equal(t, entity.StepCompleted, hist.RegistrationStep)
	require.NotNil(t, hist.BranchID)
	assert.Equal(t, out.ID, *hist.BranchID)

	assert.Equal(t, []string{"f-orders", "f-people"}, store.branchFeatures[out.ID])
	assert.NotNil(t, store.layouts[pair{buyerID, out.ID}])
}

func TestCreateBranch_SinEmpresa(t *testing.T) {
	store, uc := newProvisionFixture()
	store.users[buyerID].BranchCreate = true

	_, err := uc.CreateBranch(context.Background(), buyerID, dto.CreateBranchRequest{
		SubscriptionHistoryID: provisionHistID,
		Name:                  "Norte",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateBranch_NombreDuplicadoEnLaEmpresa(t *testing.T) {
	store, uc := newProvisionFixture()
	withExistingCompany(store)

	_, err := uc.CreateBranch(context.Background(), buyerID, dto.CreateBranchRequest{
		SubscriptionHistoryID: provisionHistID,
		Name:                  entity.MainBranchName,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateBranch_SuscripcionYaAtada(t *testing.T) {
	store, uc := newProvisionFixture()
	companyID, _ := withExistingCompany(store)
	store.hists[provisionHistID].CompanyID = &companyID

	_, err := uc.CreateBranch(context.Background(), buyerID, dto.CreateBranchRequest{
		SubscriptionHistoryID: provisionHistID,
		Name:                  "Norte",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.Len(t, store.branches, 1, "no se crea la sucursal")
}

func TestCreateBranch_SinPermiso(t *testing.T) {
	store, uc := newProvisionFixture()
	withExistingCompany(store)
	store.users[buyerID].BranchCreate = false

	_, err := uc.CreateBranch(context.Background(), buyerID, dto.CreateBranchRequest{
		SubscriptionHistoryID: provisionHistID,
		Name:                  "Norte",
	})
	assert.ErrorIs(t, err, domain.ErrPermission)
}
