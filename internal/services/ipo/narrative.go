package ipo

import (
	"fmt"
	"strings"

	"github.com/Keshavr57/SmartStock/internal/models"
)

const unknownTakeaway = "Read the red herring prospectus on the SEBI or exchange website for promoter holding, " +
	"years in operation and audited profits, then compare the valuation with listed peers."

func coreInsight(name string, tier models.RiskTier, score int) string {
	return fmt.Sprintf("%s carries %s risk, scoring %d out of %d across promoter holding, company age and profit history.",
		name, strings.ToLower(string(tier)), score, MaxScore)
}

func marketIntuition(points int, holding float64) string {
	switch points {
	case 0:
		return fmt.Sprintf("Promoters keep %.1f%% of the company, so the founders stay heavily invested after listing.", holding)
	case 1:
		return fmt.Sprintf("Promoters keep %.1f%%, a solid stake that still leaves a healthy public float.", holding)
	case 2:
		return fmt.Sprintf("Promoters keep only %.1f%%, so existing owners are using the issue to sell down part of their stake.", holding)
	default:
		return fmt.Sprintf("Promoter holding of %.1f%% is thin. Check how much of the issue is an offer for sale by existing shareholders.", holding)
	}
}

func keyRisk(points int) string {
	switch points {
	case 0:
		return "A long profit record lowers business risk. The bigger danger is paying too rich a valuation for that quality."
	case 1:
		return "Profits are established but have not been tested across a full economic cycle."
	case 2:
		return "Profits are recent or uneven, so one weak year could change how the market prices the stock."
	default:
		return "The company is not yet consistently profitable. Early price moves will depend on sentiment more than earnings."
	}
}

func humanElement(points int, years int) string {
	switch points {
	case 0:
		return fmt.Sprintf("With %d years in business, management has already steered the company through several market cycles.", years)
	case 1:
		return fmt.Sprintf("%d years of operating history gives a reasonable track record to study before deciding.", years)
	case 2:
		return fmt.Sprintf("At %d years old the business is still proving that its model works at scale.", years)
	default:
		return fmt.Sprintf("With only %d years of history there is little track record to judge management by.", years)
	}
}

func takeaway(tier models.RiskTier) string {
	switch tier {
	case models.RiskLow:
		return "Lower-risk profile. Still read the prospectus and compare the valuation with listed peers before applying."
	case models.RiskMedium:
		return "Mixed profile. Work out whether you could hold the shares through a weak listing before applying."
	default:
		return "Higher-risk profile. Only money you can afford to see fall sharply belongs in an issue like this."
	}
}

func unknownInsight(name string) string {
	return fmt.Sprintf("There is no promoter holding, company age or profit history on record for %s, so a risk level cannot be scored.", name)
}

// Render formats an assessment as plain text for a chat reply.
func Render(a models.RiskAssessment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "IPO Risk Assessment: %s\n", a.IPOName)

	if a.Tier == models.RiskUnknown {
		b.WriteString("Risk level: Unknown\n\n")
		b.WriteString(a.CoreInsight)
		b.WriteString("\n\n")
		b.WriteString(a.Takeaway)
		return b.String()
	}

	fmt.Fprintf(&b, "Risk level: %s (score %d of %d)\n\n", a.Tier, a.Score, MaxScore)
	lines := [][2]string{
		{"Core insight", a.CoreInsight},
		{"Market intuition", a.MarketIntuition},
		{"Key risk", a.KeyRisk},
		{"Human element", a.HumanElement},
		{"Takeaway", a.Takeaway},
	}
	for i, kv := range lines {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%s: %s", kv[0], kv[1])
	}
	return b.String()
}
