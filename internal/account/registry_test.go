package account

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applyforge/applyforge/internal/application"
	"github.com/applyforge/applyforge/internal/quota"
)

func newRegistry(tier quota.Tier) *Registry {
	return NewRegistry(quota.NewGate(), tier)
}

func mustCreate(t *testing.T, r *Registry, firstName string, setAsMain bool) application.Applicant {
	t.Helper()
	created, err := r.CreateOrUpdate(application.Applicant{FirstName: firstName}, setAsMain)
	require.NoError(t, err)
	return created
}

func TestCreateAssignsIDsAndFirstBecomesMain(t *testing.T) {
	registry := newRegistry(quota.TierPro)

	first := mustCreate(t, registry, "Dana", false)
	assert.Equal(t, "applicant-1", first.ID)
	assert.True(t, first.IsMain, "the first applicant always becomes main")

	second := mustCreate(t, registry, "Kim", false)
	assert.Equal(t, "applicant-2", second.ID)
	assert.False(t, second.IsMain)

	main, ok := registry.Main()
	require.True(t, ok)
	assert.Equal(t, first.ID, main.ID)
}

func TestCreateEnforcesTierQuota(t *testing.T) {
	free := newRegistry(quota.TierFree)
	mustCreate(t, free, "Dana", false)

	_, err := free.CreateOrUpdate(application.Applicant{FirstName: "Kim"}, false)
	assert.True(t, errors.Is(err, quota.ErrQuotaExceeded))
	assert.Equal(t, 1, free.Len())

	pro := newRegistry(quota.TierPro)
	for i := 0; i < quota.MaxApplicants; i++ {
		mustCreate(t, pro, "Applicant", false)
	}

	_, err = pro.CreateOrUpdate(application.Applicant{FirstName: "One too many"}, false)
	assert.True(t, errors.Is(err, quota.ErrQuotaExceeded))
	assert.Equal(t, quota.MaxApplicants, pro.Len())
}

func TestUpdateKeepsIDAndBypassesQuota(t *testing.T) {
	registry := newRegistry(quota.TierFree)
	created := mustCreate(t, registry, "Dana", false)

	created.JobTitle = "Staff Engineer"
	updated, err := registry.CreateOrUpdate(created, false)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Staff Engineer", updated.JobTitle)
	assert.Equal(t, 1, registry.Len(), "an update must not create a new applicant")
	assert.True(t, updated.IsMain, "the only applicant stays main after an update")
}

func TestUpdateUnknownID(t *testing.T) {
	registry := newRegistry(quota.TierPro)

	_, err := registry.CreateOrUpdate(application.Applicant{ID: "applicant-9"}, false)
	assert.True(t, errors.Is(err, ErrApplicantNotFound))
}

func TestExactlyOneMainAtAllTimes(t *testing.T) {
	registry := newRegistry(quota.TierPro)

	first := mustCreate(t, registry, "Dana", false)
	second := mustCreate(t, registry, "Kim", true)

	assertSingleMain := func(wantID string) {
		t.Helper()
		mains := 0
		for _, app := range registry.List() {
			if app.IsMain {
				mains++
				assert.Equal(t, wantID, app.ID)
			}
		}
		assert.Equal(t, 1, mains, "exactly one applicant must be main")
	}

	assertSingleMain(second.ID)

	require.NoError(t, registry.SetMain(first.ID))
	assertSingleMain(first.ID)

	assert.True(t, errors.Is(registry.SetMain("applicant-9"), ErrApplicantNotFound))
	assertSingleMain(first.ID)
}

func TestRemovePromotesOldestRemaining(t *testing.T) {
	registry := newRegistry(quota.TierPro)

	first := mustCreate(t, registry, "Dana", false)
	second := mustCreate(t, registry, "Kim", false)
	third := mustCreate(t, registry, "Alex", false)

	require.NoError(t, registry.Remove(first.ID))

	main, ok := registry.Main()
	require.True(t, ok)
	assert.Equal(t, second.ID, main.ID, "the oldest remaining applicant is promoted")

	require.NoError(t, registry.Remove(second.ID))
	main, ok = registry.Main()
	require.True(t, ok)
	assert.Equal(t, third.ID, main.ID)

	require.NoError(t, registry.Remove(third.ID))
	_, ok = registry.Main()
	assert.False(t, ok)
	assert.Zero(t, registry.Len())

	assert.True(t, errors.Is(registry.Remove(third.ID), ErrApplicantNotFound))
}

func TestIDsAreNotReused(t *testing.T) {
	registry := newRegistry(quota.TierPro)

	first := mustCreate(t, registry, "Dana", false)
	require.NoError(t, registry.Remove(first.ID))

	second := mustCreate(t, registry, "Kim", false)
	assert.Equal(t, "applicant-2", second.ID)
}
