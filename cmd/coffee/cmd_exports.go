package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "Browse saved prediction workbooks",
}

var exportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved workbooks, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		exp, closeExp := openExporter()
		defer closeExp()

		entries, err := exp.List()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tSIZE\tCREATED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", e.Name, e.Size, e.CreatedAt.Local().Format(time.DateTime))
		}
		return tw.Flush()
	},
}

var exportsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print the rows of a saved workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exp, closeExp := openExporter()
		defer closeExp()

		rec, err := exp.Read(args[0])
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, row := range rec {
			fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
		}
		return tw.Flush()
	},
}
