// Package main is the entrypoint for the Tasklane terminal dashboard.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasklane/tasklane/internal/client"
	"github.com/tasklane/tasklane/internal/tui"
)

func main() {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// No token means not logged in: point the user at the identity
	// provider instead of starting an unauthenticated session.
	token := os.Getenv("API_TOKEN")
	if token == "" {
		fmt.Fprintln(os.Stderr, "API_TOKEN is not set.")
		fmt.Fprintln(os.Stderr, "Log in with your identity provider and export the token:")
		fmt.Fprintln(os.Stderr, "  export API_TOKEN=<identity token>")
		os.Exit(1)
	}

	api := client.New(baseURL, token)

	p := tea.NewProgram(tui.New(api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
