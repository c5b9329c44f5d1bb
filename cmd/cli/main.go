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
		Use:   "zkybank-cli",
		Short: "zkybank CLI tool",
		Long:  `A command line interface for interacting with the zkybank API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the zkybank API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	var (
		initialDepositCents int64
		currency            string
		amountCents         int64
	)

	createAccountCmd := &cobra.Command{
		Use:   "create-account [account-number]",
		Short: "Open a new account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/accounts", map[string]any{
				"account_number":        args[0],
				"initial_deposit_cents": initialDepositCents,
				"currency":              currency,
			})
		},
	}
	createAccountCmd.Flags().Int64Var(&initialDepositCents, "initial-deposit-cents", 0, "Initial deposit in minor units")
	createAccountCmd.Flags().StringVar(&currency, "currency", "BRL", "Account currency")

	depositCmd := &cobra.Command{
		Use:   "deposit [account-number]",
		Short: "Deposit into an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/accounts/"+args[0]+"/deposit", map[string]any{
				"amount_cents": amountCents,
				"currency":     currency,
			})
		},
	}
	depositCmd.Flags().Int64Var(&amountCents, "amount-cents", 0, "Amount in minor units")
	depositCmd.Flags().StringVar(&currency, "currency", "BRL", "Amount currency")

	withdrawCmd := &cobra.Command{
		Use:   "withdraw [account-number]",
		Short: "Withdraw from an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/accounts/"+args[0]+"/withdraw", map[string]any{
				"amount_cents": amountCents,
				"currency":     currency,
			})
		},
	}
	withdrawCmd.Flags().Int64Var(&amountCents, "amount-cents", 0, "Amount in minor units")
	withdrawCmd.Flags().StringVar(&currency, "currency", "BRL", "Amount currency")

	transferCmd := &cobra.Command{
		Use:   "transfer [from-account] [to-account]",
		Short: "Transfer between two accounts",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doPost("/api/v1/transfers", map[string]any{
				"from_account_number": args[0],
				"to_account_number":   args[1],
				"amount_cents":        amountCents,
				"currency":            currency,
			})
		},
	}
	transferCmd.Flags().Int64Var(&amountCents, "amount-cents", 0, "Amount in minor units")
	transferCmd.Flags().StringVar(&currency, "currency", "BRL", "Amount currency")

	balanceCmd := &cobra.Command{
		Use:   "balance [account-number]",
		Short: "Show an account balance",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/accounts/" + args[0] + "/balance")
		},
	}

	transactionsCmd := &cobra.Command{
		Use:   "transactions [account-number]",
		Short: "Show an account's transaction history",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doGet("/api/v1/accounts/" + args[0] + "/transactions")
		},
	}

	rootCmd.AddCommand(
		createAccountCmd,
		depositCmd,
		withdrawCmd,
		transferCmd,
		balanceCmd,
		transactionsCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func doPost(path string, payload map[string]any) {
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("Failed to encode request: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: timeout}

	resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func doGet(path string) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(baseURL + path)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func printResponse(resp *http.Response) {
	body, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		pretty.Write(body)
	}

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\n%s\n", resp.StatusCode, pretty.String())
		os.Exit(1)
	}

	fmt.Println(pretty.String())
}
