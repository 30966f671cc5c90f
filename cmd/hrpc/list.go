package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/schema"
)

func (a *app) listCmd() *cobra.Command {
	var (
		listJSON bool
		filter   string
	)
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List the records of a collection (news, staff, file, meeting)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := content.ParseKind(args[0])
			if err != nil {
				return err
			}
			f, err := compileFilter(kind, filter)
			if err != nil {
				return err
			}

			cfg, err := a.config()
			if err != nil {
				return err
			}
			site, err := a.open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer site.Close(cmd.Context())

			recs, err := site.Coordinator.Records(kind)
			if err != nil {
				return err
			}
			recs, err = filterRecords(recs, f)
			if err != nil {
				return err
			}

			if listJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(recs)
			}

			fields := schema.For(kind)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			header := []string{"ID"}
			for _, field := range fields {
				header = append(header, strings.ToUpper(field.Name))
			}
			fmt.Fprintln(w, strings.Join(header, "\t"))
			for _, rec := range recs {
				values := rec.Values()
				row := []string{fmt.Sprint(rec.RecordID())}
				for _, field := range fields {
					row = append(row, values[field.Name])
				}
				fmt.Fprintln(w, strings.Join(row, "\t"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringVar(&filter, "filter", "", `Boolean expression over record fields, e.g. 'date >= "2025-01-01"'`)
	return cmd
}

func (a *app) schemaCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "schema <kind>",
		Short: "Show the editable fields of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := content.ParseKind(args[0])
			if err != nil {
				return err
			}
			fields := schema.For(kind)
			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(fields)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tLABEL\tWIDGET\tOPTIONS")
			for _, f := range fields {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, f.Label, schema.WidgetName(f.Widget), strings.Join(f.Options(), ","))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}
