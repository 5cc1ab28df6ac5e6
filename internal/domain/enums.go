package domain

// OrderStatus is the lifecycle status of an order as reported by the backend.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusReturned       OrderStatus = "returned"
)

// IsValid checks if the order status is a known value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusConfirmed,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
		OrderStatusCancelled,
		OrderStatusReturned:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the order can make no further forward progress.
// Delivered orders may still spawn returns per item.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	default:
		return false
	}
}

// orderProgression is the fixed display progression for active orders.
var orderProgression = [...]OrderStatus{
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// ProgressStep locates the status within the confirmed → processing →
// shipped → delivered progression. ok is false for statuses outside the
// progression (cancelled, returned, pending, out_for_delivery); those are
// rendered as a banner, never forced into a step index.
func (s OrderStatus) ProgressStep() (step int, ok bool) {
	for i, st := range orderProgression {
		if st == s {
			return i, true
		}
	}
	return -1, false
}

// ReturnStatus is the workflow status of a return request: the physical and
// operational progress of the return, distinct from the merchant decision.
type ReturnStatus string

const (
	ReturnStatusPending         ReturnStatus = "pending"
	ReturnStatusApproved        ReturnStatus = "approved"
	ReturnStatusRejected        ReturnStatus = "rejected"
	ReturnStatusCancelled       ReturnStatus = "cancelled"
	ReturnStatusPickupScheduled ReturnStatus = "pickup_scheduled"
	ReturnStatusPickedUp        ReturnStatus = "picked_up"
	ReturnStatusReceived        ReturnStatus = "received"
	ReturnStatusRefundInitiated ReturnStatus = "refund_initiated"
	ReturnStatusRefundCompleted ReturnStatus = "refund_completed"
)

// IsValid checks if the return status is a known value.
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending,
		ReturnStatusApproved,
		ReturnStatusRejected,
		ReturnStatusCancelled,
		ReturnStatusPickupScheduled,
		ReturnStatusPickedUp,
		ReturnStatusReceived,
		ReturnStatusRefundInitiated,
		ReturnStatusRefundCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a workflow status transition is valid. Once
// approved the chain is strictly forward-progressing.
func (s ReturnStatus) CanTransitionTo(newStatus ReturnStatus) bool {
	switch s {
	case ReturnStatusPending:
		return newStatus == ReturnStatusApproved ||
			newStatus == ReturnStatusRejected ||
			newStatus == ReturnStatusCancelled
	case ReturnStatusApproved:
		return newStatus == ReturnStatusPickupScheduled ||
			newStatus == ReturnStatusCancelled
	case ReturnStatusPickupScheduled:
		return newStatus == ReturnStatusPickedUp
	case ReturnStatusPickedUp:
		return newStatus == ReturnStatusReceived
	case ReturnStatusReceived:
		return newStatus == ReturnStatusRefundInitiated
	case ReturnStatusRefundInitiated:
		return newStatus == ReturnStatusRefundCompleted
	case ReturnStatusRejected, ReturnStatusCancelled, ReturnStatusRefundCompleted:
		return false // Terminal states
	default:
		return false
	}
}

// Cancellable reports whether the requester may still cancel the return.
func (s ReturnStatus) Cancellable() bool {
	return s == ReturnStatusPending || s == ReturnStatusApproved
}

// IsTerminal reports whether the return workflow has ended.
func (s ReturnStatus) IsTerminal() bool {
	switch s {
	case ReturnStatusRejected, ReturnStatusCancelled, ReturnStatusRefundCompleted:
		return true
	default:
		return false
	}
}

// ReturnReason is the fixed set of reason codes a requester may choose.
type ReturnReason string

const (
	ReasonSizeIssue            ReturnReason = "size_issue"
	ReasonDefective            ReturnReason = "defective"
	ReasonNotAsDescribed       ReturnReason = "not_as_described"
	ReasonChangedMind          ReturnReason = "changed_mind"
	ReasonArrivedLate          ReturnReason = "arrived_late"
	ReasonDamagedInShipping    ReturnReason = "damaged_in_shipping"
	ReasonWrongItem            ReturnReason = "wrong_item"
	ReasonBetterPriceElsewhere ReturnReason = "better_price_elsewhere"
	ReasonOther                ReturnReason = "other"
)

// IsValid checks if the reason is one of the fixed codes.
func (r ReturnReason) IsValid() bool {
	switch r {
	case ReasonSizeIssue,
		ReasonDefective,
		ReasonNotAsDescribed,
		ReasonChangedMind,
		ReasonArrivedLate,
		ReasonDamagedInShipping,
		ReasonWrongItem,
		ReasonBetterPriceElsewhere,
		ReasonOther:
		return true
	default:
		return false
	}
}

// Decision is the merchant-side outcome governing whether a return proceeds.
// It is distinct from the workflow status: a decision of approved/denied
// drives the workflow status into approved/rejected.
type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionReview   Decision = "review"
	DecisionApproved Decision = "approved"
	DecisionDenied   Decision = "denied"
)

// IsValid checks if the decision is a known value.
func (d Decision) IsValid() bool {
	switch d {
	case DecisionPending, DecisionReview, DecisionApproved, DecisionDenied:
		return true
	default:
		return false
	}
}

// IsFinal reports whether the decision is immutable. There is no undo once a
// return has been approved or denied.
func (d Decision) IsFinal() bool {
	return d == DecisionApproved || d == DecisionDenied
}

// CanTransitionTo checks if a merchant action may move the decision. Only
// pending and review decisions accept a final outcome.
func (d Decision) CanTransitionTo(newDecision Decision) bool {
	if d.IsFinal() {
		return false
	}
	return newDecision == DecisionApproved || newDecision == DecisionDenied
}

// RiskLevel is the coarse banding of an eligibility score produced by the
// scoring engine, also used for buyer risk-tier display banding.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Recommendation is the scoring engine's suggested outcome.
type Recommendation string

const (
	RecommendApprove Recommendation = "APPROVE"
	RecommendDeny    Recommendation = "DENY"
	RecommendReview  Recommendation = "REVIEW"
)

// Severity classifies an individual risk flag.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskTierForReturnRate bands a buyer's return rate for display. This is a
// pure display classification, never a workflow input.
func RiskTierForReturnRate(rate float64) RiskLevel {
	switch {
	case rate >= 0.30:
		return RiskHigh
	case rate >= 0.15:
		return RiskMedium
	default:
		return RiskLow
	}
}
