package sandbox

import "github.com/shopzone/storeclient/internal/domain"

// The scoring engine is rules-based. It starts every request at a neutral
// base, applies buyer-history and request-shape adjustments, then subtracts
// severity-weighted penalties for each risk flag. The merchant thresholds
// turn the final score into a recommendation.

const (
	baseScore = 70.0

	penaltyHigh   = 15.0
	penaltyMedium = 8.0
	penaltyLow    = 3.0

	ruleConfidence = 0.6
)

type scoreInput struct {
	ReturnRate       float64
	AccountAgeDays   int
	TotalOrders      int
	TotalReviews     int
	AvgReviewScore   float64
	ReturnsThisMonth int
	OrderAmount      float64
	Reason           domain.ReturnReason
	DaysSinceOrder   int
	ReturnWindow     int
	Settings         domain.MerchantSettings
}

type scoreResult struct {
	Score          float64
	RiskLevel      domain.RiskLevel
	Flags          []domain.RiskFlag
	Recommendation domain.Recommendation
	Confidence     float64
}

func scoreReturn(in scoreInput) scoreResult {
	score := baseScore

	switch {
	case in.ReturnRate > 0.3:
		score -= 25
	case in.ReturnRate > 0.15:
		score -= 15
	case in.ReturnRate < 0.05:
		score += 10
	}

	switch {
	case in.AccountAgeDays > 365:
		score += 10
	case in.AccountAgeDays < 30:
		score -= 15
	}

	if in.TotalReviews > 0 {
		switch {
		case in.AvgReviewScore > 4:
			score += 10
		case in.AvgReviewScore < 3:
			score -= 10
		}
	}

	if in.DaysSinceOrder < 7 {
		score += 5
	}
	if in.OrderAmount > 500 {
		score -= 10
	}

	switch in.Reason {
	case domain.ReasonDefective, domain.ReasonDamagedInShipping:
		score += 15
	case domain.ReasonWrongItem:
		score += 10
	case domain.ReasonNotAsDescribed, domain.ReasonArrivedLate:
		score += 5
	case domain.ReasonBetterPriceElsewhere:
		score -= 5
	case domain.ReasonChangedMind:
		score -= 10
	}

	if in.DaysSinceOrder > in.ReturnWindow {
		score *= 0.5
	}

	flags := detectRiskFlags(in)
	for _, flag := range flags {
		switch flag.Severity {
		case domain.SeverityHigh:
			score -= penaltyHigh
		case domain.SeverityMedium:
			score -= penaltyMedium
		default:
			score -= penaltyLow
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return scoreResult{
		Score:          score,
		RiskLevel:      riskLevelFor(score),
		Flags:          flags,
		Recommendation: recommendationFor(score, flags, in.Settings),
		Confidence:     ruleConfidence,
	}
}

func detectRiskFlags(in scoreInput) []domain.RiskFlag {
	flags := []domain.RiskFlag{}

	switch {
	case in.ReturnRate > 0.3:
		flags = append(flags, domain.RiskFlag{
			Code:        "HIGH_RETURN_RATE",
			Description: "Buyer returns more than 30% of orders",
			Severity:    domain.SeverityHigh,
		})
	case in.ReturnRate > 0.15:
		flags = append(flags, domain.RiskFlag{
			Code:        "ELEVATED_RETURN_RATE",
			Description: "Buyer return rate is above the platform norm",
			Severity:    domain.SeverityMedium,
		})
	}

	if in.AccountAgeDays < 30 {
		flags = append(flags, domain.RiskFlag{
			Code:        "NEW_ACCOUNT",
			Description: "Account is less than 30 days old",
			Severity:    domain.SeverityMedium,
		})
	}
	if in.Reason == domain.ReasonChangedMind && in.ReturnRate > 0.2 {
		flags = append(flags, domain.RiskFlag{
			Code:        "FREQUENT_MIND_CHANGES",
			Description: "Repeat changed-mind returns from a high-rate buyer",
			Severity:    domain.SeverityMedium,
		})
	}
	if in.ReturnsThisMonth >= 3 {
		flags = append(flags, domain.RiskFlag{
			Code:        "MULTIPLE_RECENT_RETURNS",
			Description: "Three or more returns opened this month",
			Severity:    domain.SeverityHigh,
		})
	}
	if in.OrderAmount > 500 {
		flags = append(flags, domain.RiskFlag{
			Code:        "HIGH_VALUE_ITEM",
			Description: "Return value exceeds the high-value threshold",
			Severity:    domain.SeverityLow,
		})
	}
	if in.TotalOrders > 5 && in.TotalReviews == 0 {
		flags = append(flags, domain.RiskFlag{
			Code:        "NO_REVIEWS",
			Description: "Established buyer has never left a review",
			Severity:    domain.SeverityLow,
		})
	}
	return flags
}

func riskLevelFor(score float64) domain.RiskLevel {
	switch {
	case score >= 60:
		return domain.RiskLow
	case score >= 40:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}

func recommendationFor(score float64, flags []domain.RiskFlag, settings domain.MerchantSettings) domain.Recommendation {
	if score < settings.FraudThreshold {
		return domain.RecommendDeny
	}
	if score >= settings.AutoApproveThreshold && !hasHighSeverity(flags) {
		return domain.RecommendApprove
	}
	return domain.RecommendReview
}

func hasHighSeverity(flags []domain.RiskFlag) bool {
	for _, flag := range flags {
		if flag.Severity == domain.SeverityHigh {
			return true
		}
	}
	return false
}
