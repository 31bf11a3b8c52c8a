package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mrops-br/financial-products/internal/app/screen"
	"github.com/mrops-br/financial-products/internal/domain"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTable(w io.Writer, products []domain.Product) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOMBRE\tDESCRIPCIÓN\tLIBERACIÓN\tREVISIÓN")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Description, p.DateRelease, p.DateRevision)
	}
	return tw.Flush()
}

func printProduct(w io.Writer, p domain.Product) {
	fmt.Fprintf(w, "id: %s\n", p.ID)
	fmt.Fprintf(w, "name: %s\n", p.Name)
	fmt.Fprintf(w, "description: %s\n", p.Description)
	fmt.Fprintf(w, "logo: %s\n", p.Logo)
	fmt.Fprintf(w, "date_release: %s\n", p.DateRelease)
	fmt.Fprintf(w, "date_revision: %s\n", p.DateRevision)
}

func printNotice(w io.Writer, n *screen.Notice) {
	fmt.Fprintf(w, "%s: %s\n", n.Title, n.Message)
}

func printFieldErrors(w io.Writer, errs domain.FieldErrors) {
	for _, field := range errs.Fields() {
		fmt.Fprintf(w, "%s: %s\n", field, errs[field])
	}
}
