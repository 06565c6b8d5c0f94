package onboarding_test

import (
	"context"
	"fmt"

	"github.com/tamayuz/platform-api/internal/application/onboarding"
	"github.com/tamayuz/platform-api/internal/application/ports"
	"github.com/tamayuz/platform-api/internal/domain"
	"github.com/tamayuz/platform-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// memStore: implementación en memoria de los repositorios del onboarding, con
// un TxRunner que restaura un snapshot cuando fn falla. Así los tests de
// rollback (correo que falla, contacto duplicado) verifican semántica
// transaccional real y no solo el error devuelto.
// ──────────────────────────────────────────────────────────────────────────────

type pair = [2]string

type memStore struct {
	users    map[string]*entity.User
	assigned map[string][]string

	companies map[string]*entity.Company
	branches  map[string]*entity.Branch
	contacts  map[string]*entity.Contact

	catalog        []entity.AppFeature
	branchFeatures map[string][]string

	subs        map[string]*entity.Subscription
	subFeatures map[string][]string

	hists        map[string]*entity.SubscriptionHistory
	histFeatures map[string][]string

	otps map[string]bool // token → used

	grants  map[pair][]string
	layouts map[pair]*entity.UserBranchLayout
}

func newMemStore() *memStore {
	return &memStore{
		users:          map[string]*entity.User{},
		assigned:       map[string][]string{},
		companies:      map[string]*entity.Company{},
		branches:       map[string]*entity.Branch{},
		contacts:       map[string]*entity.Contact{},
		branchFeatures: map[string][]string{},
		subs:           map[string]*entity.Subscription{},
		subFeatures:    map[string][]string{},
		hists:          map[string]*entity.SubscriptionHistory{},
		histFeatures:   map[string][]string{},
		otps:           map[string]bool{},
		grants:         map[pair][]string{},
		layouts:        map[pair]*entity.UserBranchLayout{},
	}
}

func cloneMap[K comparable, V any](src map[K]*V) map[K]*V {
	dst := make(map[K]*V, len(src))
	for k, v := range src {
		c := *v
		dst[k] = &c
	}
	return dst
}

func cloneSliceMap[K comparable](src map[K][]string) map[K][]string {
	dst := make(map[K][]string, len(src))
	for k, v := range src {
		dst[k] = append([]string(nil), v...)
	}
	return dst
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.users = cloneMap(s.users)
	c.assigned = cloneSliceMap(s.assigned)
	c.companies = cloneMap(s.companies)
	c.branches = cloneMap(s.branches)
	c.contacts = cloneMap(s.contacts)
	c.catalog = append([]entity.AppFeature(nil), s.catalog...)
	c.branchFeatures = cloneSliceMap(s.branchFeatures)
	c.subs = cloneMap(s.subs)
	c.subFeatures = cloneSliceMap(s.subFeatures)
	c.hists = cloneMap(s.hists)
	c.histFeatures = cloneSliceMap(s.histFeatures)
	for k, v := range s.otps {
		c.otps[k] = v
	}
	c.grants = cloneSliceMap(s.grants)
	c.layouts = cloneMap(s.layouts)
	return c
}

func (s *memStore) repos() onboarding.TxRepos {
	return onboarding.TxRepos{
		Companies:     (*memCompanies)(s),
		Branches:      (*memBranches)(s),
		Contacts:      (*memContacts)(s),
		Users:         (*memUsers)(s),
		Features:      (*memFeatures)(s),
		Subscriptions: (*memSubs)(s),
		Histories:     (*memHists)(s),
		OTPs:          (*memOTPs)(s),
		Grants:        (*memGrants)(s),
		Layouts:       (*memLayouts)(s),
	}
}

// memTx ejecuta fn contra el store vivo y restaura el snapshot si falla.
type memTx struct {
	store *memStore
}

func (t *memTx) Run(_ context.Context, fn func(r onboarding.TxRepos) error) error {
	snapshot := t.store.clone()
	if err := fn(t.store.repos()); err != nil {
		*t.store = *snapshot
		return err
	}
	return nil
}

// ── Users ────────────────────────────────────────────────────────────────────

type memUsers memStore

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUsers) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func (r *memUsers) ListByBranches(context.Context, []string, string) ([]*entity.User, error) {
	panic("no usado en estos tests")
}

func (r *memUsers) SetAssignedBranches(_ context.Context, userID string, branchIDs []string) error {
	r.assigned[userID] = append([]string(nil), branchIDs...)
	return nil
}

func (r *memUsers) GetAssignedBranchIDs(_ context.Context, userID string) ([]string, error) {
	return r.assigned[userID], nil
}

// ── Companies ────────────────────────────────────────────────────────────────

type memCompanies memStore

func (r *memCompanies) Create(_ context.Context, c *entity.Company) error {
	r.companies[c.ID] = c
	return nil
}

func (r *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return r.companies[id], nil
}

func (r *memCompanies) GetByName(_ context.Context, name string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanies) GetBySubdomain(_ context.Context, subdomain string) (*entity.Company, error) {
	for _, c := range r.companies {
		if c.Subdomain == subdomain {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memCompanies) Update(_ context.Context, c *entity.Company) error {
	r.companies[c.ID] = c
	return nil
}

// ── Branches ─────────────────────────────────────────────────────────────────

type memBranches memStore

func (r *memBranches) Create(_ context.Context, b *entity.Branch) error {
	r.branches[b.ID] = b
	return nil
}

func (r *memBranches) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	return r.branches[id], nil
}

func (r *memBranches) GetByCompanyAndName(_ context.Context, companyID, name string) (*entity.Branch, error) {
	for _, b := range r.branches {
		if b.CompanyID == companyID && b.Name == name {
			return b, nil
		}
	}
	return nil, nil
}

func (r *memBranches) ListByCompany(_ context.Context, companyID string) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range r.branches {
		if b.CompanyID == companyID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBranches) ListByIDs(_ context.Context, ids []string) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, id := range ids {
		if b, ok := r.branches[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBranches) Update(_ context.Context, b *entity.Branch) error {
	r.branches[b.ID] = b
	return nil
}

func (r *memBranches) Delete(_ context.Context, id string) error {
	delete(r.branches, id)
	return nil
}

func (r *memBranches) SetFeatures(_ context.Context, branchID string, featureIDs []string) error {
	r.branchFeatures[branchID] = append([]string(nil), featureIDs...)
	return nil
}

func (r *memBranches) GetFeatureIDs(_ context.Context, branchID string) ([]string, error) {
	return r.branchFeatures[branchID], nil
}

// ── Contacts ─────────────────────────────────────────────────────────────────

type memContacts memStore

func (r *memContacts) Create(_ context.Context, c *entity.Contact) error {
	for _, existing := range r.contacts {
		if c.Email != "" && existing.Email == c.Email {
			return fmt.Errorf("%w: contacto ya registrado", domain.ErrConflict)
		}
		if c.PhoneNumber != "" && existing.PhoneNumber == c.PhoneNumber {
			return fmt.Errorf("%w: contacto ya registrado", domain.ErrConflict)
		}
	}
	r.contacts[c.ID] = c
	return nil
}

func (r *memContacts) ListByBranch(_ context.Context, branchID string) ([]*entity.Contact, error) {
	var out []*entity.Contact
	for _, c := range r.contacts {
		if c.BranchID != nil && *c.BranchID == branchID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memContacts) DeleteByBranch(_ context.Context, _, branchID string) error {
	for id, c := range r.contacts {
		if c.BranchID != nil && *c.BranchID == branchID {
			delete(r.contacts, id)
		}
	}
	return nil
}

// ── Features ─────────────────────────────────────────────────────────────────

type memFeatures memStore

func (r *memFeatures) Create(_ context.Context, f *entity.AppFeature) error {
	r.catalog = append(r.catalog, *f)
	return nil
}

func (r *memFeatures) GetByID(_ context.Context, id string) (*entity.AppFeature, error) {
	for _, f := range r.catalog {
		if f.ID == id {
			f := f
			return &f, nil
		}
	}
	return nil, nil
}

func (r *memFeatures) GetByTag(_ context.Context, tag string) (*entity.AppFeature, error) {
	for _, f := range r.catalog {
		if f.Tag == tag {
			f := f
			return &f, nil
		}
	}
	return nil, nil
}

func (r *memFeatures) ListByIDs(_ context.Context, ids []string) ([]entity.AppFeature, error) {
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []entity.AppFeature
	for _, f := range r.catalog {
		if wanted[f.ID] {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memFeatures) ListAll(_ context.Context) ([]entity.AppFeature, error) {
	return append([]entity.AppFeature(nil), r.catalog...), nil
}

func (r *memFeatures) ListByType(_ context.Context, featureType string) ([]entity.AppFeature, error) {
	var out []entity.AppFeature
	for _, f := range r.catalog {
		if f.FeatureType == featureType {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memFeatures) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.catalog))
	for _, f := range r.catalog {
		ids = append(ids, f.ID)
	}
	return ids, nil
}

// ── Subscriptions ────────────────────────────────────────────────────────────

type memSubs memStore

func (r *memSubs) Create(_ context.Context, s *entity.Subscription) error {
	r.subs[s.ID] = s
	return nil
}

func (r *memSubs) GetByID(_ context.Context, id string) (*entity.Subscription, error) {
	return r.subs[id], nil
}

func (r *memSubs) List(_ context.Context) ([]*entity.Subscription, error) {
	var out []*entity.Subscription
	for _, s := range r.subs {
		out = append(out, s)
	}
	return out, nil
}

func (r *memSubs) Update(_ context.Context, s *entity.Subscription) error {
	r.subs[s.ID] = s
	return nil
}

func (r *memSubs) Delete(_ context.Context, id string) error {
	delete(r.subs, id)
	return nil
}

func (r *memSubs) SetFeatures(_ context.Context, subscriptionID string, featureIDs []string) error {
	r.subFeatures[subscriptionID] = append([]string(nil), featureIDs...)
	return nil
}

func (r *memSubs) GetFeatureIDs(_ context.Context, subscriptionID string) ([]string, error) {
	return r.subFeatures[subscriptionID], nil
}

// ── SubscriptionHistories ────────────────────────────────────────────────────

type memHists memStore

func (r *memHists) Create(_ context.Context, h *entity.SubscriptionHistory) error {
	r.hists[h.ID] = h
	return nil
}

func (r *memHists) GetByID(_ context.Context, id string) (*entity.SubscriptionHistory, error) {
	return r.hists[id], nil
}

func (r *memHists) GetByIDAndUser(_ context.Context, id, userID string) (*entity.SubscriptionHistory, error) {
	h := r.hists[id]
	if h == nil || h.UserID != userID {
		return nil, nil
	}
	return h, nil
}

func (r *memHists) ListByUser(_ context.Context, userID string) ([]*entity.SubscriptionHistory, error) {
	var out []*entity.SubscriptionHistory
	for _, h := range r.hists {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *memHists) Update(_ context.Context, h *entity.SubscriptionHistory) error {
	r.hists[h.ID] = h
	return nil
}

func (r *memHists) Delete(_ context.Context, id string) error {
	delete(r.hists, id)
	return nil
}

func (r *memHists) SetFeatures(_ context.Context, historyID string, featureIDs []string) error {
	r.histFeatures[historyID] = append([]string(nil), featureIDs...)
	return nil
}

func (r *memHists) GetFeatureIDs(_ context.Context, historyID string) ([]string, error) {
	return r.histFeatures[historyID], nil
}

// ── OTPs ─────────────────────────────────────────────────────────────────────

type memOTPs memStore

func (r *memOTPs) Create(_ context.Context, otp *entity.CompanyOTP) error {
	r.otps[otp.Token] = otp.Used
	return nil
}

func (r *memOTPs) Consume(_ context.Context, tok string) error {
	used, ok := r.otps[tok]
	if !ok || used {
		return domain.ErrNotFound
	}
	r.otps[tok] = true
	return nil
}

// ── Grants y Layouts ─────────────────────────────────────────────────────────

type memGrants memStore

func (r *memGrants) Upsert(_ context.Context, userID, branchID string, featureIDs []string) error {
	r.grants[pair{userID, branchID}] = append([]string(nil), featureIDs...)
	return nil
}

func (r *memGrants) GetFeatureIDs(_ context.Context, userID, branchID string) ([]string, error) {
	return r.grants[pair{userID, branchID}], nil
}

func (r *memGrants) MapByUser(_ context.Context, userID string) (map[string][]string, error) {
	out := map[string][]string{}
	for k, v := range r.grants {
		if k[0] == userID {
			out[k[1]] = v
		}
	}
	return out, nil
}

func (r *memGrants) DeleteByUser(_ context.Context, userID string) error {
	for k := range r.grants {
		if k[0] == userID {
			delete(r.grants, k)
		}
	}
	return nil
}

type memLayouts memStore

func (r *memLayouts) Upsert(_ context.Context, l *entity.UserBranchLayout) error {
	r.layouts[pair{l.UserID, l.BranchID}] = l
	return nil
}

func (r *memLayouts) Get(_ context.Context, userID, branchID string) (*entity.UserBranchLayout, error) {
	return r.layouts[pair{userID, branchID}], nil
}

func (r *memLayouts) DeleteByUser(_ context.Context, userID string) error {
	for k := range r.layouts {
		if k[0] == userID {
			delete(r.layouts, k)
		}
	}
	return nil
}

// ── Mailer ───────────────────────────────────────────────────────────────────

type sentMail struct {
	To   string
	Kind ports.MailKind
	Data map[string]string
}

// fakeMailer registra envíos y puede fallar en un MailKind específico.
type fakeMailer struct {
	sent   []sentMail
	failOn ports.MailKind
}

func (m *fakeMailer) Send(_ context.Context, to string, kind ports.MailKind, data map[string]string) error {
	if m.failOn != "" && kind == m.failOn {
		return fmt.Errorf("smtp: conexión rechazada")
	}
	m.sent = append(m.sent, sentMail{To: to, Kind: kind, Data: data})
	return nil
}
