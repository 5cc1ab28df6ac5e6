package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/domain"
	"github.com/shopzone/storeclient/internal/gateway"
	apperrors "github.com/shopzone/storeclient/pkg/errors"
)

// ReturnService coordinates the return lifecycle on both sides of the
// platform: the requester's create/cancel path and the merchant decision
// queue. SetDecision is the single write path for decisions; nothing else
// in this module mutates a decision or drives workflow status from one.
type ReturnService struct {
	gw     *gateway.Client
	logger *zap.Logger
}

// NewReturnService creates a new return service.
func NewReturnService(gw *gateway.Client, logger *zap.Logger) *ReturnService {
	return &ReturnService{
		gw:     gw,
		logger: logger,
	}
}

// Create submits a return for a delivered order item. The order is
// refetched so the item's capability flags are current; an item with
// can_return false or is_returned true is not eligible. The response
// carries the engine's score, risk assessment and recommendation, which
// are displayed and never recomputed.
func (s *ReturnService) Create(ctx context.Context, orderID, orderItemID string, reason domain.ReturnReason, details string) (*domain.ReturnRequest, error) {
	if !reason.IsValid() {
		return nil, &apperrors.ErrValidation{Field: "reason", Reason: "must be one of the fixed reason codes"}
	}

	var order domain.Order
	if err := s.gw.Get(ctx, "/orders/"+orderID, &order); err != nil {
		return nil, err
	}

	var item *domain.OrderItem
	for i := range order.Items {
		if order.Items[i].ID == orderItemID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return nil, &apperrors.ErrNotFound{Detail: "order item not found"}
	}
	if item.IsReturned {
		return nil, &apperrors.ErrNotEligible{OrderItemID: orderItemID, Reason: "item already returned"}
	}
	if !item.CanReturn {
		return nil, &apperrors.ErrNotEligible{OrderItemID: orderItemID, Reason: "return window closed or item not returnable"}
	}

	req := createReturnRequest{
		OrderID:     orderID,
		OrderItemID: orderItemID,
		Reason:      reason,
	}
	if details != "" {
		req.ReasonDetails = &details
	}

	var ret domain.ReturnRequest
	if err := s.gw.Post(ctx, "/returns", req, &ret); err != nil {
		return nil, err
	}
	s.logger.Info("return created",
		zap.String("return_id", ret.ID),
		zap.String("return_number", ret.ReturnNumber),
		zap.String("status", string(ret.Status)),
		zap.String("decision", string(ret.Decision)),
	)
	return &ret, nil
}

// ListMine fetches the requester's returns.
func (s *ReturnService) ListMine(ctx context.Context) ([]domain.ReturnRequest, error) {
	var returns []domain.ReturnRequest
	if err := s.gw.Get(ctx, "/returns/mine", &returns); err != nil {
		return nil, err
	}
	return returns, nil
}

// Get fetches one return.
func (s *ReturnService) Get(ctx context.Context, returnID string) (*domain.ReturnRequest, error) {
	if returnID == "" {
		return nil, &apperrors.ErrValidation{Field: "return_id", Reason: "must not be empty"}
	}
	var ret domain.ReturnRequest
	if err := s.gw.Get(ctx, "/returns/"+returnID, &ret); err != nil {
		return nil, err
	}
	return &ret, nil
}

// Cancel withdraws a return while its workflow status still allows it
// (pending or approved only).
func (s *ReturnService) Cancel(ctx context.Context, returnID string) (*domain.ReturnRequest, error) {
	ret, err := s.Get(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if !ret.Status.Cancellable() {
		return nil, &apperrors.ErrNotCancellable{
			Resource: "return",
			ID:       returnID,
			Status:   string(ret.Status),
		}
	}

	var cancelled domain.ReturnRequest
	if err := s.gw.Post(ctx, "/returns/"+returnID+"/cancel", nil, &cancelled); err != nil {
		return nil, err
	}
	s.logger.Info("return cancelled", zap.String("return_id", returnID))
	return &cancelled, nil
}

// ListQueue fetches one page of the merchant decision queue. Pages are
// 1-indexed; a page past the end yields an empty item set with the true
// total, not an error. An empty decision means no filter.
func (s *ReturnService) ListQueue(ctx context.Context, page, perPage int, decision domain.Decision) (*domain.ReturnPage, error) {
	if page < 1 {
		return nil, &apperrors.ErrValidation{Field: "page", Reason: "pages are 1-indexed"}
	}
	if perPage < 1 {
		return nil, &apperrors.ErrValidation{Field: "per_page", Reason: "must be at least 1"}
	}
	if decision != "" && !decision.IsValid() {
		return nil, &apperrors.ErrValidation{Field: "decision", Reason: "unknown decision filter"}
	}

	path := fmt.Sprintf("/returns?page=%d&per_page=%d", page, perPage)
	if decision != "" {
		path += "&decision=" + string(decision)
	}

	var pageResp domain.ReturnPage
	if err := s.gw.Get(ctx, path, &pageResp); err != nil {
		return nil, err
	}
	return &pageResp, nil
}

// SetDecision records the merchant's approve/deny outcome. It is permitted
// only while the current decision is pending or review; once final, the
// decision is immutable and this fails with ErrAlreadyDecided. Approving
// drives the workflow status toward approved, denying toward rejected.
func (s *ReturnService) SetDecision(ctx context.Context, returnID string, decision domain.Decision, notes string) (*domain.ReturnRequest, error) {
	if decision != domain.DecisionApproved && decision != domain.DecisionDenied {
		return nil, &apperrors.ErrValidation{Field: "decision", Reason: "must be approved or denied"}
	}

	current, err := s.Get(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if !current.Decision.CanTransitionTo(decision) {
		return nil, &apperrors.ErrAlreadyDecided{
			ReturnID: returnID,
			Decision: string(current.Decision),
		}
	}

	var updated domain.ReturnRequest
	req := decisionUpdateRequest{Decision: decision}
	if notes != "" {
		req.DecisionNotes = &notes
	}
	if err := s.gw.Put(ctx, "/returns/"+returnID, req, &updated); err != nil {
		return nil, err
	}
	s.logger.Info("return decision set",
		zap.String("return_id", returnID),
		zap.String("decision", string(decision)),
		zap.String("status", string(updated.Status)),
	)
	return &updated, nil
}

// FilterByRiskLevel is the pure client-side risk filter applied over a
// fetched page. It must be re-applied whenever the page changes; it is not
// a backend query parameter.
func FilterByRiskLevel(items []domain.ReturnRequest, level domain.RiskLevel) []domain.ReturnRequest {
	if level == "" {
		return items
	}
	filtered := make([]domain.ReturnRequest, 0, len(items))
	for _, item := range items {
		if item.RiskLevel == level {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
