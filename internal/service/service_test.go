package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-gorm-crm/internal/core/auth"
	"go-gin-gorm-crm/internal/core/database/dbtest"
	"go-gin-gorm-crm/internal/domain"
	"go-gin-gorm-crm/internal/repo"
)

type fixture struct {
	customers     *CustomerService
	interactions  *InteractionService
	opportunities *OpportunityService
	users         *UserService
	sessions      *SessionService
	tokens        *auth.TokenService

	interactionRepo *repo.InteractionRepo
	opportunityRepo *repo.OpportunityRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	l := zap.NewNop()
	customerRepo := repo.NewCustomerRepo(db)
	interactionRepo := repo.NewInteractionRepo(db)
	opportunityRepo := repo.NewOpportunityRepo(db)
	userRepo := repo.NewUserRepo(db)
	tokens, err := auth.NewTokenService([]byte("test-secret"), "crm", time.Hour)
	require.NoError(t, err)
	return &fixture{
		customers:     NewCustomerService(customerRepo, l, nil),
		interactions:  NewInteractionService(interactionRepo, customerRepo, l, nil),
		opportunities: NewOpportunityService(opportunityRepo, customerRepo, l, nil),
		users:         NewUserService(userRepo, l, nil),
		sessions:      NewSessionService(userRepo, tokens, l, nil),
		tokens:        tokens,

		interactionRepo: interactionRepo,
		opportunityRepo: opportunityRepo,
	}
}

func strp(s string) *string { return &s }

func boolp(b bool) *bool { return &b }

func TestCustomerLifecycleCascades(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c, err := f.customers.Create(ctx, domain.CustomerInput{Name: "Ana", Email: strp("ana@x.com")})
	require.NoError(t, err)
	require.Equal(t, int64(1), c.ID)

	i, err := f.interactions.Create(ctx, 1, domain.InteractionInput{Type: "call", Notes: strp("intro")})
	require.NoError(t, err)
	require.Equal(t, int64(1), i.ID)
	require.Equal(t, int64(1), i.CustomerID)

	o, err := f.opportunities.Create(ctx, 1, domain.OpportunityInput{
		Title: "Deal",
		Value: domain.NewMoney(decimal.RequireFromString("1000.00")),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), o.ID)
	require.Equal(t, domain.StageNew, o.Stage)

	d, err := f.customers.Delete(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), d.Interactions)
	require.Equal(t, int64(1), d.Opportunities)

	left, err := f.interactionRepo.ListByCustomer(ctx, 1, domain.Page{Limit: 100})
	require.NoError(t, err)
	require.Empty(t, left)
	opps, err := f.opportunityRepo.List(ctx, domain.OpportunityQuery{CustomerID: &c.ID, Page: domain.Page{Limit: 100}})
	require.NoError(t, err)
	require.Empty(t, opps)

	// through the service the per-customer lists report the missing customer
	_, err = f.interactions.ListByCustomer(ctx, 1, domain.Page{Limit: 100})
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.opportunities.ListByCustomer(ctx, 1, domain.Page{Limit: 100})
	require.ErrorIs(t, err, domain.ErrNotFound)
	all, err := f.opportunities.List(ctx, nil, domain.Page{Limit: 100})
	require.NoError(t, err)
	require.Empty(t, all)

	_, err = f.customers.Get(ctx, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.opportunities.Get(ctx, o.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDependentCreateOnMissingCustomer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.interactions.Create(ctx, 99, domain.InteractionInput{Type: "call"})
	require.ErrorIs(t, err, domain.ErrNotFound)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, "customer", de.Entity)

	_, err = f.opportunities.Create(ctx, 99, domain.OpportunityInput{Title: "Deal"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerValidationAndConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.customers.Create(ctx, domain.CustomerInput{Name: "   "})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.customers.Create(ctx, domain.CustomerInput{Name: "Bad", Email: strp("not-an-email")})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.customers.Create(ctx, domain.CustomerInput{Name: "Ana", Email: strp("ana@x.com")})
	require.NoError(t, err)
	_, err = f.customers.Create(ctx, domain.CustomerInput{Name: "Other Ana", Email: strp(" ana@x.com ")})
	require.ErrorIs(t, err, domain.ErrConflict)

	// blank optional strings are stored as null
	c, err := f.customers.Create(ctx, domain.CustomerInput{Name: "Bia", Email: strp(""), Phone: strp(" ")})
	require.NoError(t, err)
	require.Nil(t, c.Email)
	require.Nil(t, c.Phone)
}

func TestCustomerPartialUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	c, err := f.customers.Create(ctx, domain.CustomerInput{
		Name: "Ana", Email: strp("ana@x.com"), Phone: strp("111"), Company: strp("Acme"),
	})
	require.NoError(t, err)
	_, err = f.customers.Create(ctx, domain.CustomerInput{Name: "Bia", Email: strp("bia@x.com")})
	require.NoError(t, err)

	// omitted fields stay, explicit null clears
	upd, err := f.customers.Update(ctx, c.ID, domain.CustomerPatch{
		Phone:   domain.Some[*string](nil),
		Company: domain.Some(strp("Initech")),
	})
	require.NoError(t, err)
	require.Equal(t, "Ana", upd.Name)
	require.Equal(t, "ana@x.com", *upd.Email)
	require.Nil(t, upd.Phone)
	require.Equal(t, "Initech", *upd.Company)

	// keeping one's own email is not a conflict
	_, err = f.customers.Update(ctx, c.ID, domain.CustomerPatch{Email: domain.Some(strp("ana@x.com"))})
	require.NoError(t, err)

	_, err = f.customers.Update(ctx, c.ID, domain.CustomerPatch{Email: domain.Some(strp("bia@x.com"))})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.customers.Update(ctx, c.ID, domain.CustomerPatch{Name: domain.Some("")})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.customers.Update(ctx, 404, domain.CustomerPatch{Name: domain.Some("x")})
	require.ErrorIs(t, err, domain.ErrNotFound)

	same, err := f.customers.Update(ctx, c.ID, domain.CustomerPatch{})
	require.NoError(t, err)
	require.Equal(t, "Initech", *same.Company)
}

func TestCustomerListNormalizesPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, n := range []string{"A", "B", "C"} {
		_, err := f.customers.Create(ctx, domain.CustomerInput{Name: n})
		require.NoError(t, err)
	}

	got, err := f.customers.List(ctx, domain.CustomerQuery{Page: domain.Page{Limit: 0, Offset: -5}})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = f.customers.List(ctx, domain.CustomerQuery{Page: domain.Page{Limit: 10_000}})
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestOpportunityValueAndStage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, err := f.customers.Create(ctx, domain.CustomerInput{Name: "Ana"})
	require.NoError(t, err)

	o, err := f.opportunities.Create(ctx, c.ID, domain.OpportunityInput{
		Title: "Deal",
		Stage: domain.StageQualified,
		Value: domain.NewMoney(decimal.RequireFromString("10.005")),
	})
	require.NoError(t, err)
	require.Equal(t, "10.01", o.Value.Decimal.StringFixed(2))

	_, err = f.opportunities.Create(ctx, c.ID, domain.OpportunityInput{
		Title: "Huge",
		Value: domain.NewMoney(decimal.RequireFromString("10000000000")),
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.opportunities.Create(ctx, c.ID, domain.OpportunityInput{Title: "Bad", Stage: "closed"})
	require.ErrorIs(t, err, domain.ErrValidation)

	closing, err := domain.ParseTimestamp("2025-06-30T15:30:00-03:00")
	require.NoError(t, err)
	upd, err := f.opportunities.Update(ctx, o.ID, domain.OpportunityPatch{
		Stage:     domain.Some(domain.StageWon),
		Value:     domain.Some(domain.Money{}),
		CloseDate: domain.Some(&closing),
	})
	require.NoError(t, err)
	require.Equal(t, domain.StageWon, upd.Stage)
	require.False(t, upd.Value.Valid)
	require.True(t, upd.CloseDate.Equal(time.Date(2025, 6, 30, 18, 30, 0, 0, time.UTC)), upd.CloseDate.String())
	require.Equal(t, "Deal", upd.Title)

	_, err = f.opportunities.Update(ctx, o.ID, domain.OpportunityPatch{Stage: domain.Some(domain.Stage(""))})
	require.ErrorIs(t, err, domain.ErrValidation)

	won := domain.StageWon
	list, err := f.opportunities.List(ctx, &won, domain.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.opportunities.Delete(ctx, o.ID))
	require.ErrorIs(t, f.opportunities.Delete(ctx, o.ID), domain.ErrNotFound)
}

func TestInteractionDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, err := f.customers.Create(ctx, domain.CustomerInput{Name: "Ana"})
	require.NoError(t, err)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	i, err := f.interactions.Create(ctx, c.ID, domain.InteractionInput{Type: "meeting", OccurredAt: &at})
	require.NoError(t, err)
	require.True(t, at.Equal(i.OccurredAt))

	_, err = f.interactions.Create(ctx, c.ID, domain.InteractionInput{Type: ""})
	require.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, f.interactions.Delete(ctx, i.ID))
	require.ErrorIs(t, f.interactions.Delete(ctx, i.ID), domain.ErrNotFound)
}

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u, err := f.users.Create(ctx, domain.UserInput{Email: "ana@x.com", Password: "s3cret"})
	require.NoError(t, err)
	require.True(t, u.IsActive)
	require.NotEqual(t, "s3cret", u.HashedPassword)

	_, err = f.users.Create(ctx, domain.UserInput{Email: "bad", Password: "x"})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.users.Create(ctx, domain.UserInput{Email: "ana@x.com", Password: "x"})
	require.ErrorIs(t, err, domain.ErrConflict)

	upd, err := f.users.Update(ctx, u.ID, domain.UserPatch{
		Name:     domain.Some(strp("Ana")),
		Password: domain.Some("n3w"),
	})
	require.NoError(t, err)
	require.Equal(t, "Ana", *upd.Name)
	require.NotEqual(t, u.HashedPassword, upd.HashedPassword)

	_, err = f.sessions.Login(ctx, "ana@x.com", "s3cret")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.sessions.Login(ctx, "ana@x.com", "n3w")
	require.NoError(t, err)

	list, err := f.users.List(ctx, domain.Page{Limit: 100})
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.users.Delete(ctx, u.ID))
	_, err = f.users.Get(ctx, u.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConcurrentDuplicateUserEmail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.users.Create(ctx, domain.UserInput{Email: "race@x.com", Password: "pw"})
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrConflict):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, conflict)
}

func TestLoginAndCurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.Create(ctx, domain.UserInput{Email: "ana@x.com", Name: strp("Ana"), Password: "right"})
	require.NoError(t, err)

	_, err = f.sessions.Login(ctx, "ana@x.com", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.sessions.Login(ctx, "nobody@x.com", "right")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	s, err := f.sessions.Login(ctx, "ana@x.com", "right")
	require.NoError(t, err)
	require.Equal(t, TokenTypeBearer, s.TokenType)
	require.Equal(t, int64(3600), s.ExpiresIn)

	me, err := f.sessions.Current(ctx, s.AccessToken)
	require.NoError(t, err)
	require.Equal(t, u.ID, me.ID)
	require.Equal(t, "ana@x.com", me.Email)

	_, err = f.sessions.Current(ctx, s.AccessToken+"x")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestInactiveUserCannotLoginOrResolve(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.Create(ctx, domain.UserInput{Email: "ana@x.com", Password: "pw"})
	require.NoError(t, err)
	tok, err := f.tokens.IssueDefault(u.ID)
	require.NoError(t, err)

	_, err = f.users.Update(ctx, u.ID, domain.UserPatch{IsActive: domain.Some(boolp(false))})
	require.NoError(t, err)

	_, err = f.sessions.Login(ctx, "ana@x.com", "pw")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.sessions.Current(ctx, tok)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestExpiredTokenIsUnauthorized(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.Create(ctx, domain.UserInput{Email: "ana@x.com", Password: "pw"})
	require.NoError(t, err)

	past := f.tokens.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	tok, err := past.IssueDefault(u.ID)
	require.NoError(t, err)

	_, err = f.sessions.Current(ctx, tok)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestUserUpdateRejectsNullIsActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.Create(ctx, domain.UserInput{Email: "ana@x.com", Password: "pw"})
	require.NoError(t, err)

	var p domain.UserPatch
	require.NoError(t, json.Unmarshal([]byte(`{"is_active":null}`), &p))
	_, err = f.users.Update(ctx, u.ID, p)
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.users.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive)

	require.NoError(t, json.Unmarshal([]byte(`{"is_active":false}`), &p))
	upd, err := f.users.Update(ctx, u.ID, p)
	require.NoError(t, err)
	require.False(t, upd.IsActive)
}

func TestUpdateValidatesBeforeLookup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.customers.Update(ctx, 99, domain.CustomerPatch{Name: domain.Some("  ")})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.users.Update(ctx, 99, domain.UserPatch{Email: domain.Some("not-an-email")})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.opportunities.Update(ctx, 99, domain.OpportunityPatch{Stage: domain.Some(domain.Stage(""))})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.customers.Update(ctx, 99, domain.CustomerPatch{Name: domain.Some("Ana")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpportunityCloseDateKeepsTimeOfDay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, err := f.customers.Create(ctx, domain.CustomerInput{Name: "Ana"})
	require.NoError(t, err)

	var in domain.OpportunityInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Deal","close_date":"2025-06-30T15:30:00Z"}`), &in))
	o, err := f.opportunities.Create(ctx, c.ID, in)
	require.NoError(t, err)

	got, err := f.opportunities.Get(ctx, o.ID)
	require.NoError(t, err)
	want := time.Date(2025, 6, 30, 15, 30, 0, 0, time.UTC)
	require.NotNil(t, got.CloseDate)
	require.True(t, got.CloseDate.Equal(want), got.CloseDate.String())

	var p domain.OpportunityPatch
	require.NoError(t, json.Unmarshal([]byte(`{"close_date":"2025-07-01"}`), &p))
	upd, err := f.opportunities.Update(ctx, o.ID, p)
	require.NoError(t, err)
	require.True(t, upd.CloseDate.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, json.Unmarshal([]byte(`{"close_date":null}`), &p))
	upd, err = f.opportunities.Update(ctx, o.ID, p)
	require.NoError(t, err)
	require.Nil(t, upd.CloseDate)
}
