package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/simplenet/http"
	"github.com/wesleyorama2/simplenet/internal/output"
)

// newRequestCmd builds the command for one HTTP method. Parameters become
// the query string for GET and DELETE and a JSON body otherwise.
func newRequestCmd(method http.Method) *cobra.Command {
	name := strings.ToLower(method.String())
	placement := "query string"
	if method != http.MethodGet && method != http.MethodDelete {
		placement = "JSON body"
	}

	cmd := &cobra.Command{
		Use:   name + " URL",
		Short: fmt.Sprintf("Make a %s request to the specified URL", method),
		Long: fmt.Sprintf(`Make a %s request. URL is absolute, or relative to the profile's base
URL when a config file is in use. Parameters given with -p are sent in the %s.`, method, placement),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, method, args[0])
		},
	}

	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include as 'Name: value' (can be used multiple times)")
	cmd.Flags().StringArrayP("param", "p", []string{}, "Parameters as key=value (can be used multiple times)")
	cmd.Flags().StringArray("extract", []string{}, "Print only the value at a JSONPath or gjson path (can be used multiple times)")
	cmd.Flags().String("schema", "", "Validate the response body against a JSON schema (file path or inline JSON)")
	if method != http.MethodGet && method != http.MethodDelete {
		cmd.Flags().StringP("data", "d", "", "Raw request body, or @file to read it from a file; ignored when -p is given")
	}
	return cmd
}

func runRequest(cmd *cobra.Command, method http.Method, raw string) error {
	outputFlag, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColorFlag, _ := cmd.Flags().GetBool("no-color")
	extracts, _ := cmd.Flags().GetStringArray("extract")
	schemaFlag, _ := cmd.Flags().GetString("schema")

	format, err := output.ParseFormat(outputFlag)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	noColor := output.ColorDisabled(out, noColorFlag)
	formatter := output.GetFormatter(format, verbose, noColor)

	t, err := newTarget(cmd, raw)
	if err != nil {
		return err
	}
	req, err := buildRequest(cmd, method, t)
	if err != nil {
		return err
	}

	quiet := len(extracts) > 0
	if format == output.FormatText && !quiet {
		resolved, err := t.client.Resolve(req)
		if err != nil {
			return err
		}
		fmt.Fprint(out, formatter.FormatRequest(resolved))
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout(cmd))
	defer cancel()

	start := time.Now()
	resp := http.Send[http.Empty](ctx, t.client, req)
	elapsed := time.Since(start)

	if !quiet {
		fmt.Fprint(out, formatter.FormatResponse(resp, elapsed))
	}
	if resp.Result.Err != nil {
		return fmt.Errorf("request failed: %w", resp.Result.Err)
	}

	for _, path := range extracts {
		value, err := resp.Extract(path)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, value)
	}

	if schemaFlag != "" {
		schema, err := readSchema(schemaFlag)
		if err != nil {
			return err
		}
		if err := resp.ValidateSchema(schema); err != nil {
			fmt.Fprintf(out, "%s Schema validation failed\n", output.ErrorIcon(noColor))
			return err
		}
		fmt.Fprintf(out, "%s Schema validation passed\n", output.SuccessIcon(noColor))
	}

	return nil
}

// buildRequest turns the command flags into a request for t.
func buildRequest(cmd *cobra.Command, method http.Method, t *target) (*http.Request, error) {
	headers, _ := cmd.Flags().GetStringArray("header")
	params, _ := cmd.Flags().GetStringArray("param")

	req := http.NewRequest(method, t.path)
	if t.ignoreBase {
		req.WithIgnoreBase()
	}

	for _, raw := range headers {
		h, err := parseHeader(raw)
		if err != nil {
			return nil, err
		}
		req.WithHeader(h)
	}

	for _, raw := range params {
		key, value, ok := strings.Cut(raw, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", raw)
		}
		req.WithParameter(key, value)
	}

	if cmd.Flags().Lookup("data") != nil {
		data, _ := cmd.Flags().GetString("data")
		body, err := readData(data)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.WithBody(body)
		}
	}

	return req, nil
}

// parseHeader parses "Name: value".
func parseHeader(raw string) (http.Header, error) {
	name, value, ok := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return http.Header{}, fmt.Errorf("invalid header %q, expected 'Name: value'", raw)
	}
	return http.NewHeader(name, strings.TrimSpace(value)), nil
}

func readData(data string) ([]byte, error) {
	if data == "" {
		return nil, nil
	}
	if path, ok := strings.CutPrefix(data, "@"); ok {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read body file: %w", err)
		}
		return body, nil
	}
	return []byte(data), nil
}

func readSchema(value string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(value), "{") {
		return value, nil
	}
	schema, err := os.ReadFile(value)
	if err != nil {
		return "", fmt.Errorf("failed to read schema file: %w", err)
	}
	return string(schema), nil
}
