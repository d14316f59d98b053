package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"docfront/internal/form"
	"docfront/internal/table"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			fe := newFrontend(cmd.Context(), cliLogger(), form.Inline)
			if n := fe.store.Load(cmd.Context()); n.Failed() {
				return n.Err
			}
			return printList(fe)
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fe := newFrontend(cmd.Context(), cliLogger(), form.Inline)
			doc, err := fe.api.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if v.GetBool("json") {
				return printJSON(doc)
			}
			fmt.Printf("ID:      %d\n", doc.ID)
			fmt.Printf("Name:    %s\n", doc.Name)
			fmt.Printf("Status:  %s\n", doc.Status)
			fmt.Printf("Created: %s\n", table.FormatDate(doc.CreatedAt.Time))
			for _, s := range doc.Signers {
				fmt.Printf("Signer:  %s <%s> (%s)\n", s.Name, s.Email, s.Status)
			}
			return nil
		},
	}
}

type fieldFlags map[form.Field]*string

func addFieldFlags(cmd *cobra.Command) fieldFlags {
	ff := fieldFlags{}
	for _, f := range []struct {
		field form.Field
		name  string
		usage string
	}{
		{form.FieldName, "name", "document name"},
		{form.FieldURLDocumento, "url", "document URL"},
		{form.FieldNomeSignatario, "signer-name", "signer name"},
		{form.FieldEmailSignatario, "signer-email", "signer email"},
	} {
		ff[f.field] = cmd.Flags().String(f.name, "", f.usage)
	}
	return ff
}

// apply copies flags into c. With onlyChanged, flags the user did not pass
// leave the current value alone.
func (ff fieldFlags) apply(cmd *cobra.Command, c *form.Controller, onlyChanged bool) {
	names := map[form.Field]string{
		form.FieldName:            "name",
		form.FieldURLDocumento:    "url",
		form.FieldNomeSignatario:  "signer-name",
		form.FieldEmailSignatario: "signer-email",
	}
	for f, val := range ff {
		if onlyChanged && !cmd.Flags().Changed(names[f]) {
			continue
		}
		c.Set(f, *val)
	}
}

func createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a document",
	}
	ff := addFieldFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		fe := newFrontend(cmd.Context(), cliLogger(), form.Inline)
		ff.apply(cmd, fe.form, false)
		return saveAndList(cmd.Context(), fe)
	}
	return cmd
}

func updateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a document",
		Long: `Update loads the document into the form, applies the flags that were
passed and saves it. The document URL is never prefilled and must be given
with --url.`,
		Args: cobra.ExactArgs(1),
	}
	ff := addFieldFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		fe := newFrontend(cmd.Context(), cliLogger(), form.Inline)
		if n := fe.store.Load(cmd.Context()); n.Failed() {
			return n.Err
		}
		if err := fe.table.Edit(id); err != nil {
			return fmt.Errorf("document %d: %w", id, err)
		}
		ff.apply(cmd, fe.form, true)
		return saveAndList(cmd.Context(), fe)
	}
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fe := newFrontend(cmd.Context(), cliLogger(), form.Inline)
			if n := fe.store.Load(cmd.Context()); n.Failed() {
				return n.Err
			}
			if err := fe.table.Delete(id); err != nil {
				return fmt.Errorf("document %d: %w", id, err)
			}
			return reportAndList(fe)
		},
	}
}

func saveAndList(ctx context.Context, fe *frontend) error {
	if err := fe.form.Save(ctx); err != nil {
		return err
	}
	return reportAndList(fe)
}

// reportAndList prints the notifications raised by the last operation and
// then the current list. A failed operation is returned as an error.
func reportAndList(fe *frontend) error {
	var failed error
	for _, n := range fe.inbox.Drain() {
		if n.Failed() {
			failed = errors.Join(failed, fmt.Errorf("%s: %w", n.Message, n.Err))
			continue
		}
		fmt.Fprintln(os.Stderr, n.Message)
	}
	if failed != nil {
		return failed
	}
	return printList(fe)
}

func printList(fe *frontend) error {
	if v.GetBool("json") {
		return printJSON(fe.store.Records())
	}
	fe.table.Render(os.Stdout)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
