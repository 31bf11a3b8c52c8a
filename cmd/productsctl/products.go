package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrops-br/financial-products/internal/app/catalog"
	"github.com/mrops-br/financial-products/internal/app/form"
	"github.com/mrops-br/financial-products/internal/app/screen"
	"github.com/mrops-br/financial-products/internal/domain"
)

func newListCmd(a *app) *cobra.Command {
	var (
		filter string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := catalog.NewListController(a.api, screen.ListRoute{}, a.logger)
			if err := list.Load(cmd.Context()); err != nil {
				return err
			}
			list.SetFilter(filter)

			products := list.Visible()
			if asJSON {
				return printJSON(a.out, products)
			}
			return printTable(a.out, products)
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "case-insensitive name filter")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail := catalog.NewDetailController(a.api, screen.DetailRoute{Product: domain.Product{ID: args[0]}}, a.logger)
			if err := detail.Reload(cmd.Context()); err != nil {
				return err
			}
			p, _ := detail.Product().Value()
			printProduct(a.out, p)
			return nil
		},
	}
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <id>",
		Short: "Report whether a product id is taken",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := a.api.IDExists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, exists)
			return nil
		},
	}
}

// productFlags binds one flag per form field.
type productFlags struct {
	id, name, description, logo, release, revision string
}

func (pf *productFlags) bind(cmd *cobra.Command, idFlag string) {
	f := cmd.Flags()
	f.StringVar(&pf.id, idFlag, "", "product id (3 to 10 characters)")
	f.StringVar(&pf.name, "name", "", "product name (5 to 100 characters)")
	f.StringVar(&pf.description, "description", "", "description (10 to 200 characters)")
	f.StringVar(&pf.logo, "logo", "", "logo URL")
	f.StringVar(&pf.release, "release", "", "release date YYYY-MM-DD; also sets revision one year later")
	f.StringVar(&pf.revision, "revision", "", "revision date YYYY-MM-DD")
}

// apply copies every flag the user set into the form. Release goes first so
// an explicit revision wins over the derived one.
func (pf *productFlags) apply(cmd *cobra.Command, f *form.Controller, idFlag string) error {
	changed := cmd.Flags().Changed
	if changed("release") {
		if err := f.SetRelease(pf.release); err != nil {
			return err
		}
	}

	fields := []struct {
		flag, field, value string
	}{
		{idFlag, domain.FieldID, pf.id},
		{"name", domain.FieldName, pf.name},
		{"description", domain.FieldDescription, pf.description},
		{"logo", domain.FieldLogo, pf.logo},
		{"revision", domain.FieldDateRevision, pf.revision},
	}
	for _, fl := range fields {
		if !changed(fl.flag) {
			continue
		}
		if err := f.Set(fl.field, fl.value); err != nil {
			return err
		}
	}
	return nil
}

func newCreateCmd(a *app) *cobra.Command {
	var pf productFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := form.NewCreate(a.api, screen.CreateRoute{}, form.WithLogger(a.logger))
			if err := pf.apply(cmd, f, "id"); err != nil {
				return err
			}
			return a.submit(cmd, f)
		},
	}
	pf.bind(cmd, "id")
	for _, name := range []string{"id", "name", "description", "logo"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var pf productFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a product; --new-id renames it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := a.api.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			f := form.NewEdit(a.api, screen.EditRoute{Product: *current}, form.WithLogger(a.logger))
			if err := pf.apply(cmd, f, "new-id"); err != nil {
				return err
			}
			return a.submit(cmd, f)
		},
	}
	pf.bind(cmd, "new-id")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail := catalog.NewDetailController(a.api, screen.DetailRoute{Product: domain.Product{ID: args[0]}}, a.logger)
			if err := detail.Reload(cmd.Context()); err != nil {
				return err
			}

			confirmed := yes || confirm(cmd.InOrStdin(), a.out, args[0])
			notice, err := detail.Delete(cmd.Context(), confirmed)
			if notice != nil {
				printNotice(a.out, notice)
			}
			if errors.Is(err, catalog.ErrNotConfirmed) {
				return fmt.Errorf("%w: pass --yes to delete %s", err, args[0])
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

// confirm asks on out and reads one answer from in. Anything but an
// explicit yes, including EOF, declines.
func confirm(in io.Reader, out io.Writer, id string) bool {
	fmt.Fprintf(out, "¿Estás seguro de eliminar el producto %s? [s/N]: ", id)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "si", "sí", "y", "yes":
		return true
	default:
		return false
	}
}

// submit runs the form and prints its outcome. Field errors are printed one
// per line and reported as a failure.
func (a *app) submit(cmd *cobra.Command, f *form.Controller) error {
	res, err := f.Submit(cmd.Context())
	if err != nil {
		return err
	}
	if res.Notice != nil {
		printNotice(a.out, res.Notice)
	}
	if !res.OK() {
		printFieldErrors(a.errOut, res.Errors)
		return errReported
	}
	printProduct(a.out, *res.Product)
	return nil
}
