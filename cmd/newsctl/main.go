// newsctl is a small operator CLI talking to a running ai-news-agent server.
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
	serverURL string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "newsctl",
	Short: "Operator CLI for the AI news agent",
	Long: `newsctl drives a running ai-news-agent server over its HTTP API.

Example usage:
  newsctl ingest "AI news from yesterday"   # Fetch, summarize and index news
  newsctl ask "What happened with OpenAI?"  # Ask over the indexed articles
  newsctl enqueue "robotics news"           # Queue a background ingest job
  newsctl diagnose "news from 3 days ago"   # Inspect temporal intent extraction`,
	SilenceUsage: true,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [query]",
	Short: "Run the full ingest pipeline synchronously",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON("/api/v1/news", map[string]string{"query": args[0]})
	},
}

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question over the indexed articles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON("/api/v1/questions", map[string]string{"question": args[0]})
	},
}

var enqueueCmd = &cobra.Command{
	Use:   "enqueue [query]",
	Short: "Queue an ingest job for the background worker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON("/internal/ingest-jobs", map[string]string{"query": args[0]})
	},
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [query]",
	Short: "Compare rule-based and model temporal intent extraction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return postJSON("/internal/diagnostics/temporal-intent", map[string]string{"query": args[0]})
	},
}

func postJSON(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(serverURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
	} else {
		fmt.Println(pretty.String())
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8085", "base URL of the ai-news-agent server")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "request timeout")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(enqueueCmd)
	rootCmd.AddCommand(diagnoseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
