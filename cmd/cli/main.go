package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gobooks-cli",
		Short: "GoBooks CLI tool",
		Long:  `A command line interface for interacting with the GoBooks API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoBooks API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Chart commands
	chartCmd := &cobra.Command{
		Use:   "charts",
		Short: "Chart of accounts operations",
	}

	chartCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List charts of accounts",
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/charts/")
		},
	})

	chartCmd.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Create a chart of accounts",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			post("/api/v1/charts/", map[string]any{"name": args[0]})
		},
	})

	rootCmd.AddCommand(chartCmd)

	// Account commands
	accountCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Account operations",
	}

	accountCmd.AddCommand(&cobra.Command{
		Use:   "list [chart-id]",
		Short: "List the accounts of a chart",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/charts/" + args[0] + "/accounts/")
		},
	})

	rootCmd.AddCommand(accountCmd)

	// Report commands
	reportCmd := &cobra.Command{
		Use:   "reports",
		Short: "Report operations",
	}

	var from, to, at string

	balanceSheetCmd := &cobra.Command{
		Use:   "balance-sheet [chart-id]",
		Short: "Print the balance sheet",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/charts/" + args[0] + "/balance-sheet"
			if at != "" {
				path += "?at=" + at
			}
			get(path)
		},
	}
	balanceSheetCmd.Flags().StringVar(&at, "at", "", "Report date (YYYY-MM-DD, default today)")

	incomeStatementCmd := &cobra.Command{
		Use:   "income-statement [chart-id]",
		Short: "Print the income statement",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/charts/" + args[0] + "/income-statement" + periodQuery(from, to))
		},
	}
	incomeStatementCmd.Flags().StringVar(&from, "from", "", "Period start (YYYY-MM-DD)")
	incomeStatementCmd.Flags().StringVar(&to, "to", "", "Period end (YYYY-MM-DD, default today)")

	journalCmd := &cobra.Command{
		Use:   "journal [chart-id]",
		Short: "Print the journal",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			get("/api/v1/charts/" + args[0] + "/journal" + periodQuery(from, to))
		},
	}
	journalCmd.Flags().StringVar(&from, "from", "", "Period start (YYYY-MM-DD)")
	journalCmd.Flags().StringVar(&to, "to", "", "Period end (YYYY-MM-DD, default today)")

	reportCmd.AddCommand(balanceSheetCmd, incomeStatementCmd, journalCmd)
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func periodQuery(from, to string) string {
	switch {
	case from != "" && to != "":
		return "?from=" + from + "&to=" + to
	case from != "":
		return "?from=" + from
	case to != "":
		return "?to=" + to
	}
	return ""
}

func get(path string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func post(path string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Error encoding request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}
