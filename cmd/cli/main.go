package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

// do sends body as JSON and copies the indented response to out. Non-2xx
// responses become errors carrying the server's message.
func (c *apiClient) do(ctx context.Context, out io.Writer, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.baseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if len(data) == 0 {
		fmt.Fprintln(out, "ok")
		return nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, data, "", "  "); err != nil {
		_, err = out.Write(data)
		return err
	}
	pretty.WriteByte('\n')
	_, err = pretty.WriteTo(out)
	return err
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:              "fintrack-cli",
		Short:            "Fintrack CLI tool",
		Long:             `A command line interface for recording entries and checking balances through the Fintrack API.`,
		SilenceUsage:     true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.baseURL = baseURL
			client.http = &http.Client{Timeout: timeout}
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Fintrack API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(newEntriesCmd(client), newUsersCmd(client), newBalanceCmd(client))

	return rootCmd
}

func newEntriesCmd(client *apiClient) *cobra.Command {
	entriesCmd := &cobra.Command{
		Use:   "entries",
		Short: "Entry operations",
	}

	var add struct {
		description string
		month, year int
		user        string
		amount      string
		kind        string
	}
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]any{
				"description": add.description,
				"month":       add.month,
				"year":        add.year,
				"user_id":     add.user,
				"amount":      add.amount,
				"kind":        strings.ToUpper(add.kind),
			}
			return client.do(cmd.Context(), cmd.OutOrStdout(), http.MethodPost, "/api/v1/entries", body)
		},
	}
	addCmd.Flags().StringVar(&add.description, "description", "", "Entry description")
	addCmd.Flags().IntVar(&add.month, "month", int(time.Now().Month()), "Month (1-12)")
	addCmd.Flags().IntVar(&add.year, "year", time.Now().Year(), "Year")
	addCmd.Flags().StringVar(&add.user, "user", "", "Owner user ID")
	addCmd.Flags().StringVar(&add.amount, "amount", "", "Amount, e.g. 125.50")
	addCmd.Flags().StringVar(&add.kind, "kind", "", "INCOME or EXPENSE")
	_ = addCmd.MarkFlagRequired("user")
	_ = addCmd.MarkFlagRequired("amount")
	_ = addCmd.MarkFlagRequired("kind")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.do(cmd.Context(), cmd.OutOrStdout(), http.MethodGet, "/api/v1/entries/"+url.PathEscape(args[0]), nil)
		},
	}

	var search struct {
		description, user, amount, kind, status string
		month, year                             int
	}
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setParam(q, "description", search.description)
			setParam(q, "user_id", search.user)
			setParam(q, "amount", search.amount)
			setParam(q, "kind", strings.ToUpper(search.kind))
			setParam(q, "status", strings.ToUpper(search.status))
			if search.month != 0 {
				q.Set("month", strconv.Itoa(search.month))
			}
			if search.year != 0 {
				q.Set("year", strconv.Itoa(search.year))
			}

			path := "/api/v1/entries"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			return client.do(cmd.Context(), cmd.OutOrStdout(), http.MethodGet, path, nil)
		},
	}
	searchCmd.Flags().StringVar(&search.description, "description", "", "Description prefix")
	searchCmd.Flags().StringVar(&search.user, "user", "", "Owner user ID")
	searchCmd.Flags().StringVar(&search.amount, "amount", "", "Exact amount")
	searchCmd.Flags().StringVar(&search.kind, "kind", "", "INCOME or EXPENSE")
	searchCmd.Flags().StringVar(&search.status, "status", "", "PENDING, CONFIRMED or CANCELLED")
	searchCmd.Flags().IntVar(&search.month, "month", 0, "Month (1-12)")
	searchCmd.Flags().IntVar(&search.year, "year", 0, "Year")

	statusCmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change an entry's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"status": strings.ToUpper(args[1])}
			return client.do(cmd.Context(), cmd.OutOrStdout(), http.MethodPatch, "/api/v1/entries/"+url.PathEscape(args[0])+"/status", body)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.do(cmd.Context(), cmd.OutOrStdout(), http.MethodDelete, "/api/v1/entries/"+url.PathEscape(args[0]), nil)
		},
	}

	entriesCmd.AddCommand(addCmd, getCmd, searchCmd, statusCmd, deleteCmd)
	return entriesCmd
}

func newUsersCmd(client *apiClient) *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "User operations",
	}

	var name, email string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"name": name, "email": email}
			return client.do(cmd.Context(), cmd.OutOrStdout(), http.MethodPost, "/api/v1/users", body)
		},
	}
	addCmd.Flags().StringVar(&name, "name", "", "Display name")
	addCmd.Flags().StringVar(&email, "email", "", "Email address")
	_ = addCmd.MarkFlagRequired("email")

	usersCmd.AddCommand(addCmd)
	return usersCmd
}

func newBalanceCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <user-id>",
		Short: "Show a user's confirmed balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.do(cmd.Context(), cmd.OutOrStdout(), http.MethodGet, "/api/v1/users/"+url.PathEscape(args[0])+"/balance", nil)
		},
	}
}

func setParam(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
