// Package ipo scores IPOs on three heuristic factors and renders the result.
package ipo

import (
	"strings"

	"github.com/Keshavr57/SmartStock/internal/models"
)

// MaxScore is the worst possible total: three factors of up to 3 points each.
const MaxScore = 9

// PromoterPoints scores promoter holding in percent.
func PromoterPoints(holding float64) int {
	switch {
	case holding >= 75:
		return 0
	case holding >= 60:
		return 1
	case holding >= 45:
		return 2
	default:
		return 3
	}
}

// AgePoints scores years in business.
func AgePoints(years int) int {
	switch {
	case years >= 15:
		return 0
	case years >= 8:
		return 1
	case years >= 3:
		return 2
	default:
		return 3
	}
}

// ProfitPoints scores the free-text profit history. The checks run in order
// and the first hit wins, so "unprofitable" lands in the "profitable" bucket.
func ProfitPoints(history string) int {
	h := strings.ToLower(history)
	switch {
	case strings.Contains(h, "profitable for 10+") || strings.Contains(h, "highly profitable"):
		return 0
	case strings.Contains(h, "profitable for") && strings.ContainsAny(h, "56789"):
		return 1
	case strings.Contains(h, "profitable"):
		return 2
	default:
		return 3
	}
}

// TierFor buckets a total score.
func TierFor(score int) models.RiskTier {
	switch {
	case score <= 2:
		return models.RiskLow
	case score <= 5:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// Score computes the risk assessment for r. It is pure and never fails.
func Score(r models.IPORecord) models.RiskAssessment {
	promoter := PromoterPoints(r.PromoterHolding)
	age := AgePoints(r.CompanyAge)
	profit := ProfitPoints(r.ProfitHistory)
	total := promoter + age + profit
	tier := TierFor(total)

	return models.RiskAssessment{
		IPOName:         r.Name,
		Tier:            tier,
		Score:           total,
		CoreInsight:     coreInsight(r.Name, tier, total),
		MarketIntuition: marketIntuition(promoter, r.PromoterHolding),
		KeyRisk:         keyRisk(profit),
		HumanElement:    humanElement(age, r.CompanyAge),
		Takeaway:        takeaway(tier),
	}
}

// Unknown is the sentinel assessment for an IPO with no scoring data.
func Unknown(name string) models.RiskAssessment {
	return models.RiskAssessment{
		IPOName:     name,
		Tier:        models.RiskUnknown,
		CoreInsight: unknownInsight(name),
		Takeaway:    unknownTakeaway,
	}
}
