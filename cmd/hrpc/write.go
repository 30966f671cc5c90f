package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	hrpc "github.com/NTPCPHARMACY/HRPC"
	"github.com/NTPCPHARMACY/HRPC/pkg/content"
	"github.com/NTPCPHARMACY/HRPC/pkg/mutation"
)

// ResetPrompt confirms hrpc reset.
const ResetPrompt = "確定要將所有內容重設為預設值嗎？"

// parseSet turns repeated --set name=value flags into form values.
func parseSet(pairs []string) (content.Values, error) {
	values := make(content.Values, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: want field=value", pair)
		}
		values[name] = value
	}
	return values, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printRecord(w io.Writer, rec content.Record) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(content.Map(rec))
}

func (a *app) addCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "add <kind>",
		Short: "Add a record (news and meetings are prepended, staff and files appended)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := content.ParseKind(args[0])
			if err != nil {
				return err
			}
			values, err := parseSet(sets)
			if err != nil {
				return err
			}
			site, err := a.openMaintainer(cmd.Context(), newPrompter(cmd))
			if err != nil {
				return err
			}
			defer site.Close(cmd.Context())

			rec, err := site.Coordinator.Add(cmd.Context(), kind, values)
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as name=value (repeatable)")
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "edit <kind> <id>",
		Short: "Change fields of a record, keeping its id and position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := content.ParseKind(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			values, err := parseSet(sets)
			if err != nil {
				return err
			}
			site, err := a.openMaintainer(cmd.Context(), newPrompter(cmd))
			if err != nil {
				return err
			}
			defer site.Close(cmd.Context())

			rec, err := site.Coordinator.Edit(cmd.Context(), kind, id, values)
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as name=value (repeatable)")
	return cmd
}

func (a *app) inlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inline <kind> <id> <field> <value>",
		Short: "Update a single text field in place (news title/description, staff role/name/description)",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := content.ParseKind(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			site, err := a.openMaintainer(cmd.Context(), newPrompter(cmd))
			if err != nil {
				return err
			}
			defer site.Close(cmd.Context())

			if err := site.Coordinator.InlineUpdate(cmd.Context(), kind, id, args[2], args[3]); err != nil {
				return err
			}
			rec, err := site.Coordinator.Find(kind, id)
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), rec)
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := content.ParseKind(args[0])
			if err != nil {
				return err
			}
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			p := newPrompter(cmd)
			var confirmer mutation.Confirmer = p
			if yes {
				confirmer = mutation.Answer(true)
			}
			site, err := a.openMaintainer(cmd.Context(), p, hrpc.WithConfirmer(confirmer))
			if err != nil {
				return err
			}
			defer site.Close(cmd.Context())

			deleted, err := site.Coordinator.Delete(cmd.Context(), kind, id)
			if err != nil {
				return err
			}
			if !deleted {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d.\n", kind, id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase every collection and restore the built-in defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			site, err := a.openMaintainer(cmd.Context(), p)
			if err != nil {
				return err
			}
			defer site.Close(cmd.Context())

			if !yes {
				ok, err := p.Confirm(cmd.Context(), ResetPrompt)
				if err != nil || !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return err
				}
			}
			if err := site.Coordinator.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Content reset to defaults.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
