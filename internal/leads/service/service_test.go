package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"crm_portal_backend/internal/events"
	"crm_portal_backend/internal/leads/domain"
	"crm_portal_backend/internal/leads/repository"
	"crm_portal_backend/internal/leads/transport"
	"crm_portal_backend/internal/notification/outbox"
	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/logger"
)

// fakeRepo is an in-memory Repository for exercising the service rules
// without a database. Mutations mimic the transactional contract of the real
// implementation: a returned error leaves state untouched.
type fakeRepo struct {
	leads    map[uuid.UUID]*repository.Lead
	contacts map[uuid.UUID][]repository.Contact
	outbox   []outbox.InsertParams
	users    []repository.NewUser

	companiesCreated int
	convertErr       error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:    make(map[uuid.UUID]*repository.Lead),
		contacts: make(map[uuid.UUID][]repository.Contact),
	}
}

func (f *fakeRepo) Create(_ context.Context, p repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:          uuid.New(),
		CompanyName: p.CompanyName,
		TaxID:       p.TaxID,
		Email:       p.Email,
		Phone:       p.Phone,
		Status:      domain.StatusNew,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.leads[lead.ID] = &lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return *lead, nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Lead, int, error) {
	var out []repository.Lead
	for _, l := range f.leads {
		out = append(out, *l)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(_ context.Context, p repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[p.ID]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	if p.CompanyName != nil {
		lead.CompanyName = *p.CompanyName
	}
	if p.TaxID != nil {
		lead.TaxID = *p.TaxID
	}
	if p.Email != nil {
		lead.Email = *p.Email
	}
	if p.Phone != nil {
		lead.Phone = p.Phone
	}
	if p.EmpresaVerificada != nil {
		lead.EmpresaVerificada = *p.EmpresaVerificada
	}
	if p.ContacteVerificat != nil {
		lead.ContacteVerificat = *p.ContacteVerificat
	}
	if p.CIFValidat != nil {
		lead.CIFValidat = *p.CIFValidat
	}
	if p.ContacteRealitzat != nil {
		lead.ContacteRealitzat = *p.ContacteRealitzat
	}
	if p.ClearPlan {
		lead.PlanID = nil
	} else if p.PlanID != nil {
		lead.PlanID = p.PlanID
	}
	if p.ExtrasSet {
		lead.Extras = p.Extras
	}
	if p.CRMNotes != nil {
		lead.CRMNotes = p.CRMNotes
	}
	return *lead, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.Status) error {
	lead, ok := f.leads[id]
	if !ok {
		return apperr.NotFound("lead not found")
	}
	if err := domain.Transition(from, to); err != nil {
		return err
	}
	lead.Status = to
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return apperr.NotFound("lead not found")
	}
	delete(f.leads, id)
	delete(f.contacts, id)
	return nil
}

func (f *fakeRepo) ListContacts(_ context.Context, leadID uuid.UUID) ([]repository.Contact, error) {
	return f.contacts[leadID], nil
}

func (f *fakeRepo) AddContact(_ context.Context, p repository.AddContactParams) (repository.Contact, error) {
	roster := f.contacts[p.LeadID]
	if len(roster) >= p.Capacity {
		return repository.Contact{}, apperr.Conflict("roster full")
	}

	isPrimary := len(roster) == 0 || p.WantPrimary
	if p.WantPrimary {
		for i := range roster {
			roster[i].IsPrimary = false
		}
	}
	contact := repository.Contact{
		ID:        uuid.New(),
		LeadID:    p.LeadID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Position:  p.Position,
		IsPrimary: isPrimary,
		CreatedAt: time.Now(),
	}
	f.contacts[p.LeadID] = append(roster, contact)
	return contact, nil
}

func (f *fakeRepo) RemoveContact(_ context.Context, leadID, contactID uuid.UUID) error {
	roster := f.contacts[leadID]
	for i, c := range roster {
		if c.ID == contactID {
			f.contacts[leadID] = append(roster[:i], roster[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("contact not found")
}

func (f *fakeRepo) SetPrimaryContact(_ context.Context, leadID, contactID uuid.UUID) error {
	roster := f.contacts[leadID]
	found := false
	for _, c := range roster {
		if c.ID == contactID {
			found = true
		}
	}
	if !found {
		return apperr.NotFound("contact not found")
	}
	for i := range roster {
		roster[i].IsPrimary = roster[i].ID == contactID
	}
	return nil
}

func (f *fakeRepo) MarkBudgetSent(_ context.Context, p repository.MarkBudgetSentParams) (repository.Lead, error) {
	lead, ok := f.leads[p.LeadID]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	now := time.Now()
	lead.PlanID = &p.PlanID
	lead.Extras = p.Extras
	lead.PrecontractNotes = p.PrecontractNotes
	lead.BudgetSent = true
	lead.BudgetSentAt = &now
	lead.BudgetRecipient = &p.Recipient
	f.outbox = append(f.outbox, p.Outbox...)
	return *lead, nil
}

func (f *fakeRepo) ConvertToCompany(_ context.Context, p repository.ConvertParams) (repository.ConvertResult, error) {
	if f.convertErr != nil {
		return repository.ConvertResult{}, f.convertErr
	}
	lead, ok := f.leads[p.LeadID]
	if !ok {
		return repository.ConvertResult{}, apperr.NotFound("lead not found")
	}
	if err := domain.Transition(lead.Status, domain.StatusWon); err != nil {
		return repository.ConvertResult{}, err
	}

	lead.Status = domain.StatusWon
	f.companiesCreated++
	f.users = append(f.users, p.Users...)
	f.outbox = append(f.outbox, p.Outbox...)

	ids := make([]uuid.UUID, len(p.Users))
	for i := range ids {
		ids[i] = uuid.New()
	}
	return repository.ConvertResult{CompanyID: uuid.New(), UserIDs: ids}, nil
}

// fakeCatalog serves a single plan and a fixed extras catalog.
type fakeCatalog struct {
	plan   domain.Plan
	extras domain.ExtraCatalog
}

func (f *fakeCatalog) GetPlan(_ context.Context, id uuid.UUID) (domain.Plan, error) {
	if id != f.plan.ID {
		return domain.Plan{}, apperr.NotFound("plan not found")
	}
	return f.plan, nil
}

func (f *fakeCatalog) ExtraCatalog() domain.ExtraCatalog { return f.extras }

// recordingBus captures published events.
type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, e events.Event)          { b.published = append(b.published, e) }
func (b *recordingBus) PublishSync(_ context.Context, e events.Event) error {
	b.published = append(b.published, e)
	return nil
}
func (b *recordingBus) Subscribe(string, events.Handler) {}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeCatalog, *recordingBus) {
	t.Helper()
	repo := newFakeRepo()
	catalog := &fakeCatalog{
		plan: domain.Plan{ID: uuid.New(), Name: "Pro", BasePriceCents: 20000, MaxTeamMembers: 3},
		extras: domain.ExtraCatalog{
			"a": {ID: "a", Name: "Extra A", PriceCents: 5000},
			"b": {ID: "b", Name: "Extra B", PriceCents: 2500},
		},
	}
	bus := &recordingBus{}
	return New(repo, catalog, bus, logger.New("development")), repo, catalog, bus
}

func seedLead(t *testing.T, repo *fakeRepo) repository.Lead {
	t.Helper()
	lead, err := repo.Create(context.Background(), repository.CreateLeadParams{
		CompanyName: "Acme Corp",
		TaxID:       "B12345678",
		Email:       "info@acme.example",
	})
	if err != nil {
		t.Fatal(err)
	}
	return lead
}

func seedVerifiedLead(t *testing.T, repo *fakeRepo, planID uuid.UUID, extras []string) repository.Lead {
	t.Helper()
	lead := seedLead(t, repo)
	stored := repo.leads[lead.ID]
	stored.Status = domain.StatusPendingAdmin
	stored.EmpresaVerificada = true
	stored.ContacteVerificat = true
	stored.CIFValidat = true
	stored.ContacteRealitzat = true
	stored.PlanID = &planID
	stored.Extras = extras
	return *stored
}

func addContact(t *testing.T, repo *fakeRepo, leadID uuid.UUID, email string, primary bool) repository.Contact {
	t.Helper()
	c, err := repo.AddContact(context.Background(), repository.AddContactParams{
		LeadID:      leadID,
		FirstName:   "Jordi",
		Email:       email,
		WantPrimary: primary,
		Capacity:    10,
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestAddContactRespectsPlanCapacity(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	lead := seedLead(t, repo)
	stored := repo.leads[lead.ID]
	planID := svc.catalog.(*fakeCatalog).plan.ID
	stored.PlanID = &planID // maxTeamMembers = 3

	for i, email := range []string{"a@x.example", "b@x.example", "c@x.example"} {
		c, err := svc.AddContact(ctx, lead.ID, transport.ContactRequest{FirstName: "N", Email: email})
		require.NoError(t, err, "contact %d", i)
		require.Equal(t, i == 0, c.IsPrimary, "only the first contact should be primary by default")
	}

	_, err := svc.AddContact(ctx, lead.ID, transport.ContactRequest{FirstName: "N", Email: "d@x.example"})
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.GetKind(err))
}

func TestAddContactDefaultCapacityWithoutPlan(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	lead := seedLead(t, repo)

	_, err := svc.AddContact(ctx, lead.ID, transport.ContactRequest{FirstName: "N", Email: "a@x.example"})
	require.NoError(t, err)

	_, err = svc.AddContact(ctx, lead.ID, transport.ContactRequest{FirstName: "N", Email: "b@x.example"})
	require.Error(t, err, "no plan selected means a single seat")
	require.Equal(t, apperr.KindConflict, apperr.GetKind(err))
}

func TestUpdateStatusOnlyAcceptsLost(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	lead := seedLead(t, repo)

	status := "WON"
	_, err := svc.Update(ctx, lead.ID, transport.UpdateLeadRequest{Status: &status})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.GetKind(err))

	status = "LOST"
	resp, err := svc.Update(ctx, lead.ID, transport.UpdateLeadRequest{Status: &status})
	require.NoError(t, err)
	require.Equal(t, "LOST", resp.Status)
}

func TestUpdateVerificationAdvancesNewToQualifying(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()

	lead := seedLead(t, repo)

	verified := true
	resp, err := svc.Update(ctx, lead.ID, transport.UpdateLeadRequest{EmpresaVerificada: &verified})
	require.NoError(t, err)
	require.Equal(t, "QUALIFYING", resp.Status)
}

func TestSendBudgetRecomputesPrice(t *testing.T) {
	svc, repo, catalog, bus := newTestService(t)
	ctx := context.Background()

	lead := seedLead(t, repo)

	wrongTotal := int64(1)
	resp, err := svc.SendBudget(ctx, lead.ID, transport.SendBudgetRequest{
		PlanID:         catalog.plan.ID,
		Extres:         []string{"a"},
		PreuTotal:      &wrongTotal,
		EmailDestinari: "dest@acme.example",
	})
	require.NoError(t, err)
	require.Equal(t, int64(25000), resp.Price.Total, "20000 base + 5000 extra")
	require.Equal(t, string(domain.BudgetSent), resp.BudgetState)

	require.Len(t, repo.outbox, 1)
	payload, ok := repo.outbox[0].Payload.(outbox.PressupostPayload)
	require.True(t, ok)
	require.Equal(t, int64(25000), payload.TotalCents, "server figure wins over the advisory client total")

	require.Len(t, bus.published, 1)
	sent, ok := bus.published[0].(events.BudgetSent)
	require.True(t, ok)
	require.Equal(t, lead.ID, sent.LeadID)
}

func TestSendBudgetRejectsUnknownExtra(t *testing.T) {
	svc, repo, catalog, _ := newTestService(t)
	ctx := context.Background()

	lead := seedLead(t, repo)

	_, err := svc.SendBudget(ctx, lead.ID, transport.SendBudgetRequest{
		PlanID:         catalog.plan.ID,
		Extres:         []string{"nope"},
		EmailDestinari: "dest@acme.example",
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindValidation, apperr.GetKind(err))
}

func TestHandoffRequiresVerification(t *testing.T) {
	svc, repo, catalog, _ := newTestService(t)
	ctx := context.Background()

	lead := seedLead(t, repo)

	_, err := svc.Handoff(ctx, lead.ID, transport.HandoffRequest{CRMData: transport.CRMData{
		EmpresaVerificada: true,
		ContacteVerificat: true,
		CIFValidat:        true,
		ContacteRealitzat: true,
		// no plan selected
	}})
	require.Error(t, err)
	require.Equal(t, apperr.KindPrecondition, apperr.GetKind(err))

	appErr := &apperr.Error{}
	require.True(t, errors.As(err, &appErr))
	details, ok := appErr.Details.(map[string]any)
	require.True(t, ok)
	require.Contains(t, details["missingFields"], domain.MissingPlan)

	planID := catalog.plan.ID
	resp, err := svc.Handoff(ctx, lead.ID, transport.HandoffRequest{CRMData: transport.CRMData{
		EmpresaVerificada: true,
		ContacteVerificat: true,
		CIFValidat:        true,
		ContacteRealitzat: true,
		PlanID:            &planID,
	}})
	require.NoError(t, err)
	require.Equal(t, "PENDING_ADMIN", resp.Status)
}

func TestConvertBlockedUntilReady(t *testing.T) {
	svc, repo, catalog, _ := newTestService(t)
	ctx := context.Background()

	lead := seedLead(t, repo) // nothing verified, no contacts

	_, err := svc.Convert(ctx, lead.ID, "crm@portal.example", transport.ConvertRequest{
		Contract: transport.ConvertContract{PlanID: catalog.plan.ID},
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindPrecondition, apperr.GetKind(err))

	appErr := &apperr.Error{}
	require.True(t, errors.As(err, &appErr))
	details := appErr.Details.(map[string]any)
	missing := details["missingFields"].([]string)
	require.Equal(t, []string{
		domain.MissingContacts,
		domain.MissingPlan,
		domain.MissingEmpresaVerificada,
		domain.MissingContacteVerificat,
		domain.MissingCIFValidat,
		domain.MissingContacteRealitzat,
	}, missing, "unmet requirements keep their fixed order")

	require.Equal(t, 0, repo.companiesCreated, "a blocked conversion must not create anything")
}

func TestConvertBlockedWhileBudgetPending(t *testing.T) {
	svc, repo, catalog, _ := newTestService(t)
	ctx := context.Background()

	lead := seedVerifiedLead(t, repo, catalog.plan.ID, []string{"a"})
	addContact(t, repo, lead.ID, "primary@acme.example", true)

	_, err := svc.Convert(ctx, lead.ID, "crm@portal.example", transport.ConvertRequest{
		Contract: transport.ConvertContract{PlanID: catalog.plan.ID, Extres: []string{"a"}},
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindPrecondition, apperr.GetKind(err))
	require.Equal(t, 0, repo.companiesCreated)

	// Sending the budget unblocks the conversion.
	_, err = svc.SendBudget(ctx, lead.ID, transport.SendBudgetRequest{
		PlanID:         catalog.plan.ID,
		Extres:         []string{"a"},
		EmailDestinari: "dest@acme.example",
	})
	require.NoError(t, err)

	resp, err := svc.Convert(ctx, lead.ID, "crm@portal.example", transport.ConvertRequest{
		Contract: transport.ConvertContract{PlanID: catalog.plan.ID, Extres: []string{"a"}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, resp.UsersCreated)
}

func TestConvertCreatesUsersFromRoster(t *testing.T) {
	svc, repo, catalog, bus := newTestService(t)
	ctx := context.Background()

	lead := seedVerifiedLead(t, repo, catalog.plan.ID, nil)
	addContact(t, repo, lead.ID, "primary@acme.example", true)
	addContact(t, repo, lead.ID, "second@acme.example", false)

	resp, err := svc.Convert(ctx, lead.ID, "crm@portal.example", transport.ConvertRequest{
		Contract:        transport.ConvertContract{PlanID: catalog.plan.ID, Extres: []string{"a", "b"}},
		SendCredentials: true,
		NotifyCRM:       true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.UsersCreated)
	require.Equal(t, domain.StatusWon, repo.leads[lead.ID].Status)

	require.Len(t, repo.users, 2)
	admin := repo.users[0]
	require.Equal(t, "primary@acme.example", admin.Email)
	require.Equal(t, domain.RoleCompanyAdmin, admin.Role)
	require.NotNil(t, admin.PasswordHash)
	require.True(t, admin.MustChangePassword)

	member := repo.users[1]
	require.Equal(t, domain.RoleCompanyUser, member.Role)
	require.Nil(t, member.PasswordHash, "non-primary users get no password")

	// Both notification intents recorded, and the hash matches the plaintext
	// one-time password carried in the credentials payload.
	require.Len(t, repo.outbox, 2)
	creds, ok := repo.outbox[0].Payload.(outbox.CredentialsPayload)
	require.True(t, ok)
	require.Equal(t, "primary@acme.example", creds.To)
	require.Regexp(t, `^[A-Z]{3}\d{6}[A-Z0-9]{2}$`, creds.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(*admin.PasswordHash), []byte(creds.Password)))

	notify, ok := repo.outbox[1].Payload.(outbox.ConversioPayload)
	require.True(t, ok)
	require.Equal(t, "crm@portal.example", notify.To)
	require.Equal(t, 2, notify.UsersCreated)

	require.Len(t, bus.published, 1)
	converted, ok := bus.published[0].(events.LeadConverted)
	require.True(t, ok)
	require.Equal(t, 2, converted.UsersCreated)
}

func TestConvertFailureLeavesNoPartialState(t *testing.T) {
	svc, repo, catalog, bus := newTestService(t)
	ctx := context.Background()

	lead := seedVerifiedLead(t, repo, catalog.plan.ID, nil)
	addContact(t, repo, lead.ID, "primary@acme.example", true)
	repo.convertErr = errors.New("database gone")

	_, err := svc.Convert(ctx, lead.ID, "crm@portal.example", transport.ConvertRequest{
		Contract:        transport.ConvertContract{PlanID: catalog.plan.ID},
		SendCredentials: true,
	})
	require.Error(t, err)
	require.Equal(t, 0, repo.companiesCreated)
	require.Empty(t, repo.users)
	require.Empty(t, repo.outbox)
	require.Empty(t, bus.published, "no event may escape a failed conversion")
	require.Equal(t, domain.StatusPendingAdmin, repo.leads[lead.ID].Status)
}

func TestConvertAlreadyWonConflicts(t *testing.T) {
	svc, repo, catalog, _ := newTestService(t)
	ctx := context.Background()

	lead := seedVerifiedLead(t, repo, catalog.plan.ID, nil)
	addContact(t, repo, lead.ID, "primary@acme.example", true)
	repo.leads[lead.ID].Status = domain.StatusWon

	_, err := svc.Convert(ctx, lead.ID, "crm@portal.example", transport.ConvertRequest{
		Contract: transport.ConvertContract{PlanID: catalog.plan.ID},
	})
	require.Error(t, err)
	require.Equal(t, apperr.KindConflict, apperr.GetKind(err))
}
