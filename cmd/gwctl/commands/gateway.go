// Package commands implements the gwctl subcommands. Each command talks to a
// running gateway over its HTTP API rather than touching gateway internals.
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	contextutils "translategw/internal/utils"

	"github.com/spf13/cobra"
)

// DefaultGatewayAddr is where a locally run gateway listens
const DefaultGatewayAddr = "http://localhost:8080"

const requestTimeout = 90 * time.Second

// HealthCmd returns the health command
func HealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check gateway health",
		Long:  `Check gateway health and report whether the upstream client is loaded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return getJSON(cmd, "/health")
		},
	}
}

// WarmCmd returns the warm command
func WarmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "warm",
		Short: "Warm the upstream client",
		Long:  `Force the gateway to initialize its upstream client so the first translation is not penalized by connection setup.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return postJSON(cmd, "/warm", nil)
		},
	}
}

// TranslateCmd returns the translate command
func TranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text through the gateway",
		Long:  `Translate text through the gateway. Text may be given as arguments; multiple arguments are joined with spaces.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			target, _ := cmd.Flags().GetString("target")
			maxLength, _ := cmd.Flags().GetInt("max-length")

			body := map[string]interface{}{
				"text":        strings.Join(args, " "),
				"source_lang": source,
				"target_lang": target,
			}
			if maxLength > 0 {
				body["max_length"] = maxLength
			}
			return postJSON(cmd, "/translate", body)
		},
	}

	cmd.Flags().StringP("source", "s", "en", "source language tag")
	cmd.Flags().StringP("target", "t", "", "target language tag")
	cmd.Flags().Int("max-length", 0, "maximum generation length (0 uses the gateway default)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

// VersionCmd returns the version command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show gateway build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return getJSON(cmd, "/v1/version")
		},
	}
}

func getJSON(cmd *cobra.Command, path string) error {
	return doRequest(cmd, http.MethodGet, path, nil)
}

func postJSON(cmd *cobra.Command, path string, body interface{}) error {
	return doRequest(cmd, http.MethodPost, path, body)
}

// doRequest performs the HTTP call and pretty-prints the JSON response. A
// non-2xx status becomes an error so the process exit code reflects it.
func doRequest(cmd *cobra.Command, method, path string, body interface{}) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return contextutils.WrapError(err, "failed to encode request body")
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(addr, "/")+path, payload)
	if err != nil {
		return contextutils.WrapError(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return contextutils.WrapError(err, "gateway unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return contextutils.WrapError(err, "failed to read response")
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		pretty.Write(raw)
	}
	fmt.Fprintln(cmd.OutOrStdout(), pretty.String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned %s", resp.Status)
	}
	return nil
}
