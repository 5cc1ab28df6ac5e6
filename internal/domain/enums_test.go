package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusProgressStep(t *testing.T) {
	tests := []struct {
		status OrderStatus
		step   int
		ok     bool
	}{
		{OrderStatusConfirmed, 0, true},
		{OrderStatusProcessing, 1, true},
		{OrderStatusShipped, 2, true},
		{OrderStatusDelivered, 3, true},
		{OrderStatusPending, -1, false},
		{OrderStatusOutForDelivery, -1, false},
		{OrderStatusCancelled, -1, false},
		{OrderStatusReturned, -1, false},
	}
	for _, tt := range tests {
		step, ok := tt.status.ProgressStep()
		assert.Equal(t, tt.step, step, "status %s", tt.status)
		assert.Equal(t, tt.ok, ok, "status %s", tt.status)
	}
}

func TestOrderStatusValidation(t *testing.T) {
	assert.True(t, OrderStatusDelivered.IsValid())
	assert.False(t, OrderStatus("in_transit").IsValid())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.False(t, OrderStatusShipped.IsTerminal())
}

func TestReturnStatusTransitions(t *testing.T) {
	tests := []struct {
		from    ReturnStatus
		to      ReturnStatus
		allowed bool
	}{
		{ReturnStatusPending, ReturnStatusApproved, true},
		{ReturnStatusPending, ReturnStatusRejected, true},
		{ReturnStatusPending, ReturnStatusCancelled, true},
		{ReturnStatusPending, ReturnStatusReceived, false},
		{ReturnStatusApproved, ReturnStatusPickupScheduled, true},
		{ReturnStatusApproved, ReturnStatusCancelled, true},
		{ReturnStatusApproved, ReturnStatusRejected, false},
		{ReturnStatusPickupScheduled, ReturnStatusPickedUp, true},
		{ReturnStatusPickedUp, ReturnStatusReceived, true},
		{ReturnStatusReceived, ReturnStatusRefundInitiated, true},
		{ReturnStatusRefundInitiated, ReturnStatusRefundCompleted, true},
		{ReturnStatusRefundCompleted, ReturnStatusPending, false},
		{ReturnStatusRejected, ReturnStatusApproved, false},
		{ReturnStatusCancelled, ReturnStatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestReturnStatusCancellable(t *testing.T) {
	assert.True(t, ReturnStatusPending.Cancellable())
	assert.True(t, ReturnStatusApproved.Cancellable())
	assert.False(t, ReturnStatusPickedUp.Cancellable())
	assert.False(t, ReturnStatusRejected.Cancellable())
	assert.False(t, ReturnStatusRefundCompleted.Cancellable())
}

func TestDecisionTransitions(t *testing.T) {
	assert.True(t, DecisionPending.CanTransitionTo(DecisionApproved))
	assert.True(t, DecisionReview.CanTransitionTo(DecisionDenied))
	assert.False(t, DecisionApproved.CanTransitionTo(DecisionDenied))
	assert.False(t, DecisionDenied.CanTransitionTo(DecisionApproved))
	assert.False(t, DecisionPending.CanTransitionTo(DecisionReview))

	assert.True(t, DecisionApproved.IsFinal())
	assert.True(t, DecisionDenied.IsFinal())
	assert.False(t, DecisionReview.IsFinal())
}

func TestReturnReasonValidation(t *testing.T) {
	for _, r := range []ReturnReason{
		ReasonSizeIssue, ReasonDefective, ReasonNotAsDescribed, ReasonChangedMind,
		ReasonArrivedLate, ReasonDamagedInShipping, ReasonWrongItem,
		ReasonBetterPriceElsewhere, ReasonOther,
	} {
		assert.True(t, r.IsValid(), "reason %s", r)
	}
	assert.False(t, ReturnReason("buyer_remorse").IsValid())
	assert.False(t, ReturnReason("").IsValid())
}

func TestRiskTierForReturnRate(t *testing.T) {
	assert.Equal(t, RiskLow, RiskTierForReturnRate(0))
	assert.Equal(t, RiskLow, RiskTierForReturnRate(0.14))
	assert.Equal(t, RiskMedium, RiskTierForReturnRate(0.15))
	assert.Equal(t, RiskMedium, RiskTierForReturnRate(0.29))
	assert.Equal(t, RiskHigh, RiskTierForReturnRate(0.30))
	assert.Equal(t, RiskHigh, RiskTierForReturnRate(0.35))
}

func TestCartItemClampQuantity(t *testing.T) {
	item := CartItem{ProductStockQuantity: 5}
	assert.Equal(t, 1, item.ClampQuantity(0))
	assert.Equal(t, 1, item.ClampQuantity(-3))
	assert.Equal(t, 3, item.ClampQuantity(3))
	assert.Equal(t, 5, item.ClampQuantity(9))
}
