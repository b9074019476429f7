package main

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "List the club rankings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/rankings")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the most recently recorded matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/matches/recent")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the authenticated player's stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players/stats")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
