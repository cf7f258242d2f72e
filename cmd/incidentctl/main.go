// Command incidentctl inspects incident spreadsheets offline.
//
// Usage:
//
//	go run ./cmd/incidentctl preview reports/march.xlsx
//	go run ./cmd/incidentctl preview --format yaml reports/march.csv
//	go run ./cmd/incidentctl sample --out data/sample.xlsx --rows 25
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
