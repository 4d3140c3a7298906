package main

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	trdb "github.com/imenihs/TRDB-Searcher"
)

var offsetsCmd = &cobra.Command{
	Use:   "offsets",
	Short: "Print the resolved page offset table",
	Args:  cobra.NoArgs,
	RunE:  offsetsCmdRun,
}

type offsetsFlags struct {
	output string
}

var offsetsArgs = offsetsFlags{output: "table"}

func init() {
	offsetsCmd.Flags().StringVarP(&offsetsArgs.output, "output", "o", offsetsArgs.output,
		"Output format: table or json.")
	rootCmd.AddCommand(offsetsCmd)
}

func offsetsCmdRun(cmd *cobra.Command, args []string) error {
	if offsetsArgs.output != "table" && offsetsArgs.output != "json" {
		return fmt.Errorf("invalid output format '%s', must be table or json", offsetsArgs.output)
	}
	conf, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	defer cancel()

	table, err := trdb.NewSource(conf.DataPath, trdb.Config{}).Offsets(ctx, conf.ModPath, conf.DefaultStart)
	if err != nil {
		return fmt.Errorf("failed to resolve offsets: %w", err)
	}

	if offsetsArgs.output == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}

	keys := slices.Sorted(maps.Keys(table.Offsets))
	rows := make([][]string, 0, len(keys)+1)
	for _, key := range keys {
		rows = append(rows, []string{key, strconv.Itoa(table.Offsets[key])})
	}
	rows = append(rows, []string{"default", strconv.Itoa(table.Default)})
	printTable(cmd.OutOrStdout(), []string{"issue", "offset"}, rows)
	return nil
}
