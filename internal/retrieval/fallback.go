// internal/retrieval/fallback.go
package retrieval

import "betabot/internal/models"

// FallbackLabel is the evidence label attached to the built-in block.
const FallbackLabel = "Built-in Tax Knowledge"

// FallbackBlock is substituted when the search index returns nothing. The
// generation step never runs without some contextual text.
const FallbackBlock = `GENERAL NIGERIAN TAX FACTS:
- VAT (Value Added Tax) is charged at 7.5% and returns are due by the 21st day of the month following the transaction month.
- Companies Income Tax (CIT): 0% for small companies (turnover below NGN 25m), 20% for medium companies (NGN 25m-100m), 30% above NGN 100m.
- PAYE (Pay As You Earn) is deducted monthly by employers and remitted to the relevant State Internal Revenue Service by the 10th of the following month.
- The Federal Inland Revenue Service (FIRS) administers federal taxes; state taxes are administered by each State Internal Revenue Service.
- Newly incorporated companies must register for tax and obtain a TIN before commencing business.`

// FallbackEvidence returns the built-in block as a single evidence item.
func FallbackEvidence() []models.EvidenceItem {
	return []models.EvidenceItem{
		{Label: FallbackLabel, Content: FallbackBlock},
	}
}
