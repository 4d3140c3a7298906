package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	trdb "github.com/imenihs/TRDB-Searcher"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the catalogue",
	Example: `  # Articles by an author in the 1990s
  trdb search --author Smith --from 1990 --to 1999

  # Titles mentioning amplifiers but not tubes
  trdb search --title 'amp & !tube' --limit 50`,
	Args: cobra.NoArgs,
	RunE: searchCmdRun,
}

type searchFlags struct {
	queryFlags
	limit  int
	offset int
	output string
}

var searchArgs = newSearchFlags()

func newSearchFlags() searchFlags {
	return searchFlags{
		queryFlags: queryFlags{titleMode: string(trdb.ModeKeyword), authorMode: string(trdb.ModeKeyword)},
		limit:      trdb.DefaultLimit,
		output:     "table",
	}
}

func init() {
	searchArgs.bind(searchCmd)
	searchCmd.Flags().IntVar(&searchArgs.limit, "limit", searchArgs.limit, "Maximum number of rows to print.")
	searchCmd.Flags().IntVar(&searchArgs.offset, "offset", 0, "Number of matching rows to skip.")
	searchCmd.Flags().StringVarP(&searchArgs.output, "output", "o", searchArgs.output, "Output format: table or json.")
	rootCmd.AddCommand(searchCmd)
}

func searchCmdRun(cmd *cobra.Command, args []string) error {
	if searchArgs.output != "table" && searchArgs.output != "json" {
		return fmt.Errorf("invalid output format '%s', must be table or json", searchArgs.output)
	}
	q, err := searchArgs.query()
	if err != nil {
		return err
	}
	q.Limit = searchArgs.limit
	q.Offset = searchArgs.offset

	conf, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	res, err := trdb.NewSource(conf.DataPath, trdb.Config{}).Search(ctx, q)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	for _, msg := range res.Errors {
		cmd.PrintErrf("⚠ %s\n", msg)
	}

	if searchArgs.output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Total    int           `json:"total"`
			Returned int           `json:"returned"`
			Offset   int           `json:"offset"`
			Limit    int           `json:"limit"`
			Items    []trdb.Record `json:"items"`
			Errors   []string      `json:"errors,omitempty"`
		}{res.Total, res.Returned(), res.Offset, res.Limit, res.Items, res.Errors})
	}

	rows := make([][]string, 0, len(res.Items))
	for _, rec := range res.Items {
		rows = append(rows, []string{
			rec.Key(),
			rec.TitleText(),
			rec.Type,
			rec.StartPage,
			rec.PageCount,
			rec.Author,
		})
	}
	printTable(cmd.OutOrStdout(), []string{"issue", "title", "type", "page", "pages", "author"}, rows)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d of %d matches shown\n", res.Returned(), res.Total)
	return err
}

func printTable(writer io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(writer)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.AppendBulk(rows)
	table.Render()
}
