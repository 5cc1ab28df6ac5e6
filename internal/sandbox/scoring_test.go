package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopzone/storeclient/internal/domain"
)

var defaultSettings = domain.MerchantSettings{
	DefaultReturnWindow:  30,
	FraudThreshold:       30,
	AutoApproveThreshold: 70,
}

func TestScoreCleanBuyerDefectiveItem(t *testing.T) {
	result := scoreReturn(scoreInput{
		ReturnRate:     0,
		AccountAgeDays: 400,
		TotalOrders:    13,
		TotalReviews:   10,
		AvgReviewScore: 4.5,
		OrderAmount:    299.00,
		Reason:         domain.ReasonDefective,
		DaysSinceOrder: 1,
		ReturnWindow:   30,
		Settings:       defaultSettings,
	})

	// 70 +10 (low rate) +10 (old account) +10 (good reviews) +5 (recent)
	// +15 (defective), clamped to 100.
	assert.Equal(t, 100.0, result.Score)
	assert.Equal(t, domain.RiskLow, result.RiskLevel)
	assert.Empty(t, result.Flags)
	assert.Equal(t, domain.RecommendApprove, result.Recommendation)
}

func TestScoreHighRateChangedMind(t *testing.T) {
	result := scoreReturn(scoreInput{
		ReturnRate:     0.35,
		AccountAgeDays: 400,
		TotalOrders:    20,
		TotalReviews:   8,
		AvgReviewScore: 4.5,
		OrderAmount:    299.00,
		Reason:         domain.ReasonChangedMind,
		DaysSinceOrder: 0,
		ReturnWindow:   30,
		Settings:       defaultSettings,
	})

	// 70 -25 +10 +10 +5 -10 = 60, then HIGH_RETURN_RATE (-15) and
	// FREQUENT_MIND_CHANGES (-8) bring it to 37.
	assert.Equal(t, 37.0, result.Score)
	assert.Equal(t, domain.RiskHigh, result.RiskLevel)
	assert.Equal(t, domain.RecommendReview, result.Recommendation)

	codes := flagCodes(result.Flags)
	assert.Contains(t, codes, "HIGH_RETURN_RATE")
	assert.Contains(t, codes, "FREQUENT_MIND_CHANGES")
}

func TestScoreNewAccountHighRateDenied(t *testing.T) {
	result := scoreReturn(scoreInput{
		ReturnRate:     0.5,
		AccountAgeDays: 10,
		TotalOrders:    4,
		TotalReviews:   0,
		AvgReviewScore: 0,
		OrderAmount:    299.00,
		Reason:         domain.ReasonChangedMind,
		DaysSinceOrder: 2,
		ReturnWindow:   30,
		Settings:       defaultSettings,
	})

	// 70 -25 -15 +5 -10 = 25, then HIGH_RETURN_RATE (-15) and
	// NEW_ACCOUNT (-8) floor it at 2.
	assert.Equal(t, 2.0, result.Score)
	assert.Equal(t, domain.RiskHigh, result.RiskLevel)
	assert.Equal(t, domain.RecommendDeny, result.Recommendation)
}

func TestScoreOutsideWindowHalved(t *testing.T) {
	inside := scoreReturn(scoreInput{
		ReturnRate:     0,
		AccountAgeDays: 400,
		TotalOrders:    10,
		TotalReviews:   5,
		AvgReviewScore: 4.5,
		OrderAmount:    50.00,
		Reason:         domain.ReasonSizeIssue,
		DaysSinceOrder: 10,
		ReturnWindow:   30,
		Settings:       defaultSettings,
	})
	outside := scoreReturn(scoreInput{
		ReturnRate:     0,
		AccountAgeDays: 400,
		TotalOrders:    10,
		TotalReviews:   5,
		AvgReviewScore: 4.5,
		OrderAmount:    50.00,
		Reason:         domain.ReasonSizeIssue,
		DaysSinceOrder: 45,
		ReturnWindow:   30,
		Settings:       defaultSettings,
	})

	// 70 +10 (low rate) +10 (old account) +10 (good reviews) = 100 inside;
	// halved to 50 outside.
	assert.Equal(t, 100.0, inside.Score)
	assert.Equal(t, 50.0, outside.Score)
	assert.Equal(t, domain.RiskMedium, outside.RiskLevel)
}

func TestScoreHighFlagBlocksAutoApprove(t *testing.T) {
	result := scoreReturn(scoreInput{
		ReturnRate:       0,
		AccountAgeDays:   400,
		TotalOrders:      10,
		TotalReviews:     5,
		AvgReviewScore:   4.5,
		ReturnsThisMonth: 3,
		OrderAmount:      50.00,
		Reason:           domain.ReasonDefective,
		DaysSinceOrder:   1,
		ReturnWindow:     30,
		Settings:         defaultSettings,
	})

	// Score stays above the auto-approve threshold but the high-severity
	// MULTIPLE_RECENT_RETURNS flag forces manual review.
	assert.GreaterOrEqual(t, result.Score, defaultSettings.AutoApproveThreshold)
	assert.Equal(t, domain.RecommendReview, result.Recommendation)
	assert.Contains(t, flagCodes(result.Flags), "MULTIPLE_RECENT_RETURNS")
}

func TestScoreHighValueFlag(t *testing.T) {
	result := scoreReturn(scoreInput{
		ReturnRate:     0.1,
		AccountAgeDays: 100,
		TotalOrders:    10,
		TotalReviews:   5,
		AvgReviewScore: 3.5,
		OrderAmount:    799.00,
		Reason:         domain.ReasonOther,
		DaysSinceOrder: 3,
		ReturnWindow:   30,
		Settings:       defaultSettings,
	})

	assert.Contains(t, flagCodes(result.Flags), "HIGH_VALUE_ITEM")
}

func TestScoreBounds(t *testing.T) {
	worst := scoreReturn(scoreInput{
		ReturnRate:       0.9,
		AccountAgeDays:   5,
		TotalOrders:      10,
		TotalReviews:     5,
		AvgReviewScore:   1.0,
		ReturnsThisMonth: 5,
		OrderAmount:      799.00,
		Reason:           domain.ReasonChangedMind,
		DaysSinceOrder:   60,
		ReturnWindow:     30,
		Settings:         defaultSettings,
	})
	assert.GreaterOrEqual(t, worst.Score, 0.0)
	assert.LessOrEqual(t, worst.Score, 100.0)
	assert.Equal(t, domain.RecommendDeny, worst.Recommendation)
}

func TestRiskLevelBanding(t *testing.T) {
	assert.Equal(t, domain.RiskLow, riskLevelFor(60))
	assert.Equal(t, domain.RiskMedium, riskLevelFor(59.9))
	assert.Equal(t, domain.RiskMedium, riskLevelFor(40))
	assert.Equal(t, domain.RiskHigh, riskLevelFor(39.9))
}

func flagCodes(flags []domain.RiskFlag) []string {
	codes := make([]string, 0, len(flags))
	for _, f := range flags {
		codes = append(codes, f.Code)
	}
	return codes
}
