package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "coldledger-cli",
		Short: "ColdLedger CLI tool",
		Long:  `A command line interface for interacting with the ColdLedger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ColdLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}
	ledgerCmd.AddCommand(trialBalanceCmd())
	ledgerCmd.AddCommand(daybookCmd())

	rentCmd := &cobra.Command{
		Use:   "rent",
		Short: "Rent operations",
	}
	rentCmd.AddCommand(rentQuoteCmd())

	billingCmd := &cobra.Command{
		Use:   "billing",
		Short: "Billing operations",
	}
	billingCmd.AddCommand(billingRunCmd())

	rootCmd.AddCommand(ledgerCmd)
	rootCmd.AddCommand(rentCmd)
	rootCmd.AddCommand(billingCmd)
	rootCmd.AddCommand(outstandingCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func trialBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trial-balance",
		Short: "Check that total debits equal total credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := getJSON("/api/v1/trial-balance", nil)
			if err != nil {
				return err
			}

			consistent, _ := result["consistent"].(bool)
			if consistent {
				fmt.Println("Trial balance PASSED")
			} else {
				fmt.Println("Trial balance FAILED")
			}
			fmt.Printf("Total debit:  %v\n", result["total_debit"])
			fmt.Printf("Total credit: %v\n", result["total_credit"])

			if !consistent {
				return fmt.Errorf("ledger out of balance")
			}
			return nil
		},
	}
}

func daybookCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "daybook",
		Short: "Print the daybook for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if date != "" {
				query.Set("date", date)
			}

			result, err := getJSON("/api/v1/daybook", query)
			if err != nil {
				return err
			}

			printJSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Daybook date (YYYY-MM-DD, default today)")
	return cmd
}

func rentQuoteCmd() *cobra.Command {
	var lotID, asOf string

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the accrued rent for a lot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if lotID == "" {
				return fmt.Errorf("--lot is required")
			}

			query := url.Values{}
			query.Set("lot_id", lotID)
			if asOf != "" {
				query.Set("as_of", asOf)
			}

			result, err := getJSON("/api/v1/rent/quote", query)
			if err != nil {
				return err
			}

			printJSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&lotID, "lot", "", "Lot ID")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Accrual date (YYYY-MM-DD, default today)")
	return cmd
}

func billingRunCmd() *cobra.Command {
	var period, asOf string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run batch billing for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]string{}
			if period != "" {
				payload["period"] = period
			}
			if asOf != "" {
				payload["as_of"] = asOf
			}

			result, err := postJSON("/api/v1/billing/run", payload)
			if err != nil {
				return err
			}

			fmt.Printf("Period:  %v\n", result["period"])
			fmt.Printf("Billed:  %v\n", result["billed"])
			fmt.Printf("Skipped: %v\n", result["skipped"])
			if errs, ok := result["errors"].([]any); ok && len(errs) > 0 {
				fmt.Printf("Errors:  %d\n", len(errs))
				for _, e := range errs {
					fmt.Printf("  - %v\n", e)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "Billing period (YYYY-MM, default previous month)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Accrual date (YYYY-MM-DD, default today)")
	return cmd
}

func outstandingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outstanding",
		Short: "List party outstanding balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := getJSON("/api/v1/parties/outstanding", nil)
			if err != nil {
				return err
			}

			printSide := func(title string, rows []any) {
				fmt.Printf("%s:\n", title)
				if len(rows) == 0 {
					fmt.Println("  (none)")
					return
				}
				for _, row := range rows {
					m, ok := row.(map[string]any)
					if !ok {
						continue
					}
					name, _ := m["account_name"].(string)
					fmt.Printf("  %-30s %12v\n", truncate(name, 30), m["amount"])
				}
			}

			debtors, _ := result["debtors"].([]any)
			creditors, _ := result["creditors"].([]any)
			printSide("Debtors", debtors)
			fmt.Println()
			printSide("Creditors", creditors)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the base chart of accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := postJSON("/api/v1/bootstrap", map[string]string{})
			if err != nil {
				return err
			}

			fmt.Printf("Accounts created: %v\n", result["created"])
			return nil
		},
	}
}

func getJSON(path string, query url.Values) (map[string]any, error) {
	target := baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(target)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp)
}

func postJSON(path string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(baseURL+path, "application/json", strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp)
}

func decodeResponse(resp *http.Response) (map[string]any, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(body))
	}

	var result map[string]any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return result, nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to render response: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
