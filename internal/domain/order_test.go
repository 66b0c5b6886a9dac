package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransition_FromPending(t *testing.T) {
	assert.NoError(t, CheckTransition(StatusPending, StatusDone))
	assert.NoError(t, CheckTransition(StatusPending, StatusCancelled))
}

func TestCheckTransition_TerminalStatesRejectEverything(t *testing.T) {
	targets := []OrderStatus{StatusPending, StatusDone, StatusCancelled}
	for _, from := range []OrderStatus{StatusDone, StatusCancelled} {
		for _, to := range targets {
			err := CheckTransition(from, to)
			require.Error(t, err, "transition %s -> %s must be rejected", from, to)

			var transition *InvalidTransitionError
			require.True(t, errors.As(err, &transition))
			assert.Equal(t, from, transition.From)
			assert.Equal(t, to, transition.To)
		}
	}
}

func TestCheckTransition_ErrorMessages(t *testing.T) {
	err := CheckTransition(StatusDone, StatusCancelled)
	assert.Contains(t, err.Error(), "already done")

	err = CheckTransition(StatusCancelled, StatusDone)
	assert.Contains(t, err.Error(), "already cancelled")
}

func TestIsTerminalStatus(t *testing.T) {
	assert.False(t, IsTerminalStatus(StatusPending))
	assert.True(t, IsTerminalStatus(StatusDone))
	assert.True(t, IsTerminalStatus(StatusCancelled))
	assert.False(t, IsTerminalStatus(OrderStatus("SHIPPED")))
}

func TestParseStatusFilter(t *testing.T) {
	filter, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, filter)

	for _, valid := range []string{"pending", "accepted", "cancelled", "done", "all"} {
		filter, err = ParseStatusFilter(valid)
		require.NoError(t, err)
		assert.Equal(t, StatusFilter(valid), filter)
	}

	_, err = ParseStatusFilter("shipped")
	require.Error(t, err)
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestStatusFilter_Matches(t *testing.T) {
	cases := []struct {
		filter    StatusFilter
		pending   bool
		done      bool
		cancelled bool
	}{
		{FilterAll, true, true, true},
		{FilterPending, true, false, false},
		{FilterAccepted, false, true, false},
		{FilterCancelled, false, false, true},
		// "done" means no longer pending, so both terminal states match.
		{FilterDone, false, true, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.pending, tc.filter.Matches(StatusPending), "filter %s vs PENDING", tc.filter)
		assert.Equal(t, tc.done, tc.filter.Matches(StatusDone), "filter %s vs DONE", tc.filter)
		assert.Equal(t, tc.cancelled, tc.filter.Matches(StatusCancelled), "filter %s vs CANCELLED", tc.filter)
	}
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, RequireRole(AdminOnly, RoleAdmin))
	assert.ErrorIs(t, RequireRole(AdminOnly, RoleCustomer), ErrUnauthorized)
	assert.NoError(t, RequireRole(AnyRole, RoleCustomer))
	assert.ErrorIs(t, RequireRole(AnyRole, Role("GUEST")), ErrUnauthorized)
}
