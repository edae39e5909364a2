package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Nikhil-Marella/Hard-Nanos-HardHaq/internal/report"
)

var (
	repInput string
	repXLSX  string
	repTop   int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a finished trial log",
	Long: "Report reads a CSV trial log written by optimize, prints the best\n" +
		"trials and per-column statistics, and can export the log to a\n" +
		"spreadsheet workbook.",
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&repInput, "input", "i", "optimization_log.csv", "trial log to read")
	reportCmd.Flags().StringVar(&repXLSX, "xlsx", "", "write an XLSX workbook to this path")
	reportCmd.Flags().IntVar(&repTop, "top", 5, "number of top trials to print")
}

func runReport(cmd *cobra.Command, args []string) error {
	log, err := report.Load(repInput)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d trials, %d columns\n\n", log.Path, len(log.Rows), len(log.Columns))

	top := log.Top(repTop)
	if len(top) == 0 {
		fmt.Println("no scored trials")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "trial\t"+strings.Join(log.Columns, "\t"))
		for _, i := range top {
			fmt.Fprintf(w, "%d\t%s\n", i+1, formatRow(log.Rows[i]))
		}
		w.Flush()
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "column\tcount\tmean\tstddev\tmin\tmax\tp95")
	for _, cs := range log.Stats() {
		fmt.Fprintf(w, "%s\t%d\t%g\t%g\t%g\t%g\t%g\n",
			cs.Name, cs.Count, cs.Mean, cs.StdDev, cs.Min, cs.Max, cs.P95)
	}
	w.Flush()

	if repXLSX != "" {
		if err := report.SaveXLSX(log, repXLSX); err != nil {
			return err
		}
		fmt.Printf("\nworkbook written to %s\n", repXLSX)
	}
	return nil
}

func formatRow(row []float64) string {
	fields := make([]string, len(row))
	for i, v := range row {
		fields[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(fields, "\t")
}
