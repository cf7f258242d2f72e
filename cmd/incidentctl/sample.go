package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/incident-ingest-service/internal/domain"
)

const sampleSheet = "Sheet1"

// firstSampleDate is the date serial of 2021-01-01.
const firstSampleDate = 44197

var (
	sampleCounties   = []string{"Lagos", "Ogun", "Oyo", "Kaduna", "Rivers"}
	sampleCategories = []string{"Kidnapping", "Armed robbery", "Arson", "Communal clash"}
	sampleActors     = []string{"Unknown gunmen", "Bandits", "Cult group", ""}
)

// NewSampleCmd creates the sample subcommand.
func NewSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a sample incident workbook",
		Long: `Write an .xlsx workbook with the columns the ingest service reads. The last
row has an unparseable latitude so uploads exercise row rejection.`,
		Args: cobra.NoArgs,
		RunE: runSample,
	}

	cmd.Flags().StringP("out", "o", "", "Output .xlsx path")
	cmd.Flags().IntP("rows", "n", 10, "Number of valid rows")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runSample(cmd *cobra.Command, _ []string) error {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	n, err := cmd.Flags().GetInt("rows")
	if err != nil {
		return err
	}
	if n < 0 {
		return errors.New("--rows must not be negative")
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	f, err := sampleWorkbook(n)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows (%d valid) to %s\n", n+1, n, out)
	return nil
}

func sampleWorkbook(n int) (*excelize.File, error) {
	f := excelize.NewFile()

	header := []any{
		domain.ColLatitude, domain.ColLongitude, domain.ColDate, domain.ColTime,
		domain.ColCategory, domain.ColDescription, domain.ColCounty, domain.ColActors,
	}
	if err := setRow(f, 1, header); err != nil {
		_ = f.Close()
		return nil, err
	}

	for i := 0; i < n; i++ {
		if err := setRow(f, i+2, sampleRow(i)); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	invalid := []any{"unknown", 3.35, firstSampleDate, "09:30", "Kidnapping", "Location not recorded", "Lagos", nil}
	if err := setRow(f, n+2, invalid); err != nil {
		_ = f.Close()
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create date style: %w", err)
	}
	if err := f.SetColStyle(sampleSheet, "C", style); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("apply date style: %w", err)
	}
	return f, nil
}

func sampleRow(i int) []any {
	category := sampleCategories[i%len(sampleCategories)]
	county := sampleCounties[i%len(sampleCounties)]

	var actor any
	if a := sampleActors[i%len(sampleActors)]; a != "" {
		actor = a
	}

	return []any{
		6.4 + float64(i%10)*0.05,
		3.3 + float64(i%7)*0.04,
		firstSampleDate + i,
		fmt.Sprintf("%02d:%02d", 6+i%16, (i*15)%60),
		category,
		fmt.Sprintf("%s reported in %s", category, county),
		county,
		actor,
	}
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sampleSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
