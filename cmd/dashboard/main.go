// cmd/dashboard/main.go
package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"betabot/internal/dashboard"
)

func main() {
	baseURL := os.Getenv("BETABOT_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:10000"
	}

	client := dashboard.NewClient(baseURL, 90*time.Second)
	model := dashboard.NewModel(client)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "dashboard failed: %v\n", err)
		os.Exit(1)
	}
}
