package rules

import (
	"context"
	"fmt"

	id "complio/pkg/domain"
	"complio/pkg/requestcontext"
)

// starterRules is the bundled regulation set loaded into an empty store.
// Admins extend and correct it through the API afterwards.
var starterRules = []StateRule{
	{
		RuleID:         "AK-PUBADJ-LIC-001",
		State:          "AK",
		Category:       "Public Adjuster",
		Subcategory:    "Licensing",
		AuthorityLevel: AuthorityStatute,
		Confidence:     ConfidenceHigh,
		Text:           "Public adjusters must be licensed by the Alaska Division of Insurance before conducting business in the state.",
		Sources:        []string{"Alaska Statute 21.27.010", "Alaska Administrative Code 3 AAC 26.010"},
	},
	{
		RuleID:         "AK-PUBADJ-FEES-002",
		State:          "AK",
		Category:       "Public Adjuster",
		Subcategory:    "Fees",
		AuthorityLevel: AuthorityReg,
		Confidence:     ConfidenceHigh,
		Text:           "Public adjusters may not charge fees exceeding 10% of the settlement amount for claims under $100,000.",
		Sources:        []string{"3 AAC 26.020"},
	},
	{
		RuleID:         "TX-PUBADJ-BOND-001",
		State:          "TX",
		Category:       "Public Adjuster",
		Subcategory:    "Bonding",
		AuthorityLevel: AuthorityStatute,
		Confidence:     ConfidenceHigh,
		Text:           "Public adjusters must maintain a $10,000 surety bond while licensed in Texas.",
		Sources:        []string{"Texas Insurance Code 4102.105"},
	},
	{
		RuleID:         "FL-PUBADJ-LIC-001",
		State:          "FL",
		Category:       "Public Adjuster",
		Subcategory:    "Licensing",
		AuthorityLevel: AuthorityStatute,
		Confidence:     ConfidenceHigh,
		Text:           "Public adjusters must hold a valid license issued by the Florida Department of Financial Services and complete required continuing education.",
		Sources:        []string{"Florida Statute 626.865"},
	},
	{
		RuleID:         "FL-PUBADJ-FEES-002",
		State:          "FL",
		Category:       "Public Adjuster",
		Subcategory:    "Fees",
		AuthorityLevel: AuthorityStatute,
		Confidence:     ConfidenceHigh,
		Text:           "Public adjuster fees are capped at 20% of the claim payment, reduced to 10% for declared emergency claims filed within one year of the declaration.",
		Sources:        []string{"Florida Statute 626.854(11)"},
	},
	{
		RuleID:         "KY-PUBADJ-LIC-001",
		State:          "KY",
		Category:       "Public Adjuster",
		Subcategory:    "Licensing",
		AuthorityLevel: AuthorityStatute,
		Confidence:     ConfidenceHigh,
		Text:           "Public adjusters must be licensed by the Kentucky Department of Insurance and renew the license biennially.",
		Sources:        []string{"KRS 304.9-430"},
	},
}

// Seed loads the starter rules into an empty store. A non-empty store is
// left untouched, making the step safe to run on every startup.
func Seed(ctx context.Context, store Store) error {
	count, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count rules before seed: %w", err)
	}
	if count > 0 {
		return nil
	}
	now := requestcontext.Now(ctx)
	for _, template := range starterRules {
		rule := template
		rule.ID = id.NewRuleID()
		rule.Version = "1.0"
		rule.Active = true
		rule.CreatedAt = now
		rule.UpdatedAt = now
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("starter rule %s: %w", rule.RuleID, err)
		}
		if err := store.Save(ctx, &rule); err != nil {
			return fmt.Errorf("seed rule %s: %w", rule.RuleID, err)
		}
	}
	return nil
}
