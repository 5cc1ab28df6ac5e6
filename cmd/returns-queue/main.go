package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/shopzone/storeclient/internal/config"
	"github.com/shopzone/storeclient/internal/domain"
	"github.com/shopzone/storeclient/internal/gateway"
	"github.com/shopzone/storeclient/internal/service"
	"github.com/shopzone/storeclient/internal/session"
)

// returns-queue is the merchant's terminal view of the return decision
// queue: list pending requests with their risk assessment, or record an
// approve/deny outcome for one of them.
func main() {
	var (
		email    = flag.String("email", "", "Merchant email (required)")
		password = flag.String("password", "", "Merchant password (required)")
		page     = flag.Int("page", 1, "Queue page, 1-indexed")
		perPage  = flag.Int("per-page", 20, "Items per page")
		decision = flag.String("decision", "", "Server-side decision filter (pending, review, approved, denied)")
		risk     = flag.String("risk", "", "Client-side risk filter (low, medium, high)")
		approve  = flag.String("approve", "", "Return ID to approve")
		deny     = flag.String("deny", "", "Return ID to deny")
		notes    = flag.String("notes", "", "Decision notes to attach")
	)
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *approve != "" && *deny != "" {
		log.Fatal("Use -approve or -deny, not both")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := zap.NewNop()

	gw := gateway.NewClient(cfg.API, logger)
	store := session.NewStore()
	auth := service.NewAuthService(gw, store, logger)
	returns := service.NewReturnService(gw, logger)

	ctx := context.Background()

	user, err := auth.Login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	if user.Role != "merchant" {
		log.Fatalf("Account %s is not a merchant", user.Email)
	}

	switch {
	case *approve != "":
		decide(ctx, returns, *approve, domain.DecisionApproved, *notes)
	case *deny != "":
		decide(ctx, returns, *deny, domain.DecisionDenied, *notes)
	default:
		listQueue(ctx, returns, *page, *perPage, domain.Decision(*decision), domain.RiskLevel(*risk))
	}
}

func decide(ctx context.Context, returns *service.ReturnService, returnID string, decision domain.Decision, notes string) {
	ret, err := returns.SetDecision(ctx, returnID, decision, notes)
	if err != nil {
		log.Fatalf("Failed to set decision: %v", err)
	}
	fmt.Printf("Return %s: decision=%s status=%s\n", ret.ReturnNumber, ret.Decision, ret.Status)
}

func listQueue(ctx context.Context, returns *service.ReturnService, page, perPage int, decision domain.Decision, risk domain.RiskLevel) {
	queue, err := returns.ListQueue(ctx, page, perPage, decision)
	if err != nil {
		log.Fatalf("Failed to fetch queue: %v", err)
	}

	items := service.FilterByRiskLevel(queue.Items, risk)
	fmt.Printf("Page %d/%d items, %d total\n\n", queue.Page, len(items), queue.Total)
	for _, ret := range items {
		score := "-"
		if ret.EligibilityScore != nil {
			score = fmt.Sprintf("%.0f", *ret.EligibilityScore)
		}
		fmt.Printf("%-16s %-22s score=%-4s risk=%-6s rec=%-7s decision=%-8s reason=%s\n",
			ret.ID, ret.ReturnNumber, score, ret.RiskLevel, ret.EngineRecommendation, ret.Decision, ret.Reason)
		for _, rf := range ret.RiskFlags {
			fmt.Printf("    [%s] %s (%s)\n", rf.Severity, rf.Code, rf.Description)
		}
	}
}
