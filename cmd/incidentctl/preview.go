package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
	"github.com/couchcryptid/incident-ingest-service/internal/workbook"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type previewResult struct {
	Rows      int
	Incidents []domain.Incident
}

func (r previewResult) rejected() int { return r.Rows - len(r.Incidents) }

// NewPreviewCmd creates the preview subcommand.
func NewPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Show the incidents a spreadsheet would produce",
		Long: `Decode a spreadsheet, normalize every row and print the accepted incidents.
Records go to stdout as JSON lines (default) or a YAML list. A summary of
decoded, accepted and rejected rows goes to stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: runPreview,
	}

	cmd.Flags().StringP("format", "f", formatJSON, "Output format (json, yaml)")

	return cmd
}

func runPreview(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != formatJSON && format != formatYAML {
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}

	path := args[0]
	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	res, err := preview(data, filepath.Base(path))
	if err != nil {
		return err
	}

	if err := writeIncidents(cmd.OutOrStdout(), format, res.Incidents); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "rows=%d accepted=%d rejected=%d\n",
		res.Rows, len(res.Incidents), res.rejected())
	return nil
}

func preview(data []byte, filename string) (previewResult, error) {
	rows, err := workbook.Decode(data, workbook.Detect(data, filename, ""))
	if err != nil {
		return previewResult{}, err
	}
	return previewResult{Rows: len(rows), Incidents: domain.NormalizeRows(rows)}, nil
}

func writeIncidents(w io.Writer, format string, incidents []domain.Incident) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(incidents); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	for _, inc := range incidents {
		if err := enc.Encode(inc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	}
	return nil
}
