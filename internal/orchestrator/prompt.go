// internal/orchestrator/prompt.go
package orchestrator

import (
	"fmt"
	"strings"

	"betabot/internal/models"
)

// Apology is the fail-soft answer substituted when generation fails. Callers
// always receive HTTP 200 with some answer text.
const Apology = "I'm sorry - I couldn't reach my reasoning engine just now. Please try your question again in a moment."

// BuildTaxPrompt assembles the single prompt string for the tax/business
// persona. Assembly is deterministic: the same inputs always produce the
// same prompt.
func BuildTaxPrompt(question, economicContext string, evidence []models.EvidenceItem) string {
	var parts []string

	parts = append(parts, "You are BetaBot, a Nigerian tax and business compliance advisor for small business owners.")

	if economicContext != "" {
		parts = append(parts, "\n"+economicContext)
	}

	if len(evidence) > 0 {
		parts = append(parts, "\nLEGAL CONTEXT FROM STATUTES:")
		for _, item := range evidence {
			parts = append(parts, fmt.Sprintf("--- %s ---\n%s", item.Label, item.Content))
		}
	}

	parts = append(parts, fmt.Sprintf("\nQUESTION: %s", question))

	parts = append(parts, "\nINSTRUCTIONS:")
	parts = append(parts, "- Use ONLY the provided context to answer")
	parts = append(parts, "- Keep the answer concise; prefer short bullet points")
	parts = append(parts, "- Explain terms simply, as for a small business owner")
	parts = append(parts, "- Refer only to Nigerian authorities such as the FIRS; never cite a foreign tax authority")

	parts = append(parts, "\nANSWER:")

	return strings.Join(parts, "\n")
}

// BuildTherapyPrompt assembles the empathetic-persona prompt. No retrieval
// or analytics context is ever included.
func BuildTherapyPrompt(question string) string {
	var parts []string

	parts = append(parts, "You are BetaCare, a warm and supportive listener.")
	parts = append(parts, fmt.Sprintf("\nUser: '%s'", question))
	parts = append(parts, "\nINSTRUCTIONS:")
	parts = append(parts, "- Be empathetic and non-judgmental")
	parts = append(parts, "- Do not give medical or legal advice")
	parts = append(parts, "- Keep the response short and gentle")

	return strings.Join(parts, "\n")
}
