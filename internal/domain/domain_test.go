package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCustomerPatchDistinguishesNullFromOmitted(t *testing.T) {
	var p CustomerPatch
	require.NoError(t, json.Unmarshal([]byte(`{"phone":null,"company":"Acme"}`), &p))

	require.False(t, p.Name.Set)
	require.False(t, p.Email.Set)
	require.True(t, p.Phone.Set)
	require.Nil(t, p.Phone.Value)
	require.True(t, p.Company.Set)
	require.Equal(t, "Acme", *p.Company.Value)
}

func TestOpportunityPatchDecodesMoneyAndTimestamp(t *testing.T) {
	var p OpportunityPatch
	require.NoError(t, json.Unmarshal([]byte(`{"value":"1234.50","close_date":"2025-12-31","stage":"won"}`), &p))

	require.True(t, p.Value.Value.Valid)
	require.True(t, p.Value.Value.Decimal.Equal(decimal.RequireFromString("1234.5")))
	require.True(t, p.CloseDate.Value.Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, StageWon, p.Stage.Value)

	var n OpportunityPatch
	require.NoError(t, json.Unmarshal([]byte(`{"value":null}`), &n))
	require.True(t, n.Value.Set)
	require.False(t, n.Value.Value.Valid)
	require.False(t, n.CloseDate.Set)
}

func TestUserPatchIsActiveNull(t *testing.T) {
	var p UserPatch
	require.NoError(t, json.Unmarshal([]byte(`{"is_active":null}`), &p))
	require.True(t, p.IsActive.Set)
	require.Nil(t, p.IsActive.Value)

	require.NoError(t, json.Unmarshal([]byte(`{"is_active":false}`), &p))
	require.NotNil(t, p.IsActive.Value)
	require.False(t, *p.IsActive.Value)
}

func TestStageRejectsUnknown(t *testing.T) {
	for _, s := range Stages() {
		got, err := ParseStage(string(s))
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
	_, err := ParseStage("closed")
	require.Error(t, err)

	var in OpportunityInput
	require.Error(t, json.Unmarshal([]byte(`{"title":"x","stage":"closed"}`), &in))
	require.Error(t, json.Unmarshal([]byte(`{"title":"x","stage":3}`), &in))

	require.True(t, StageNew.CanTransition(StageLost))
	require.False(t, StageNew.CanTransition("closed"))
}

func TestPageNormalize(t *testing.T) {
	require.Equal(t, Page{Limit: 1, Offset: 0}, Page{Limit: 0, Offset: -3}.Normalize())
	require.Equal(t, Page{Limit: 200, Offset: 10}, Page{Limit: 500, Offset: 10}.Normalize())
	require.Equal(t, Page{Limit: 50, Offset: 0}, Page{Limit: 50}.Normalize())
}

func TestTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2025-02-03T23:30:00-03:00")
	require.NoError(t, err)
	require.True(t, ts.Equal(time.Date(2025, 2, 4, 2, 30, 0, 0, time.UTC)))
	require.Equal(t, time.UTC, ts.Ptr().Location())

	day, err := ParseTimestamp("2025-02-03")
	require.NoError(t, err)
	require.True(t, day.Equal(time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)))

	var none *Timestamp
	require.Nil(t, none.Ptr())

	_, err = ParseTimestamp("03/02/2025")
	require.Error(t, err)
	var in OpportunityInput
	require.Error(t, json.Unmarshal([]byte(`{"title":"x","close_date":20250203}`), &in))
}

func TestMoneyJSONKeepsTwoDecimals(t *testing.T) {
	b, err := json.Marshal(NewMoney(decimal.RequireFromString("1000")))
	require.NoError(t, err)
	require.JSONEq(t, `"1000.00"`, string(b))

	b, err = json.Marshal(Opportunity{Value: NewMoney(decimal.RequireFromString("12.5"))})
	require.NoError(t, err)
	require.Contains(t, string(b), `"value":"12.50"`)
	require.Contains(t, string(b), `"close_date":null`)

	b, err = json.Marshal(Money{})
	require.NoError(t, err)
	require.Equal(t, "null", string(b))

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`1234.5`), &m))
	require.True(t, m.Valid)
	require.Equal(t, "1234.50", m.Decimal.StringFixed(2))
}

func TestErrorKinds(t *testing.T) {
	err := Conflict("user", "email")
	require.True(t, errors.Is(err, ErrConflict))
	require.Equal(t, "email already registered", err.Error())

	nf := NotFound("customer")
	require.True(t, errors.Is(nf, ErrNotFound))
	require.Equal(t, "customer not found", nf.Error())

	inv := Invalid("name", "is required")
	require.True(t, errors.Is(inv, ErrValidation))
	require.Equal(t, "name: is required", inv.Error())
}

func TestUserHashNeverSerialized(t *testing.T) {
	b, err := json.Marshal(User{ID: 1, Email: "a@x.com", HashedPassword: "secret-hash", IsActive: true})
	require.NoError(t, err)
	require.NotContains(t, string(b), "secret-hash")
	require.NotContains(t, string(b), "hashed_password")
}
