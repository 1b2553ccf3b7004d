package shopctl

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"MiniShop/internal/storefront"
)

const (
	ExitSuccess      = 0
	ExitFailure      = 1 // server rejected the request
	ExitCommandError = 2 // bad arguments or transport failure
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ExitFailure
	}
	return ExitCommandError
}

// printJSON re-indents the server's response body.
func printJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func renderProducts(w io.Writer, v storefront.HomeView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tRATING")
	for _, p := range v.Products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Title, p.Price, p.Rating)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "showing %d of %d (skip %d)\n", len(v.Products), v.Total, v.Skip)
	return err
}

func renderProduct(w io.Writer, v storefront.DetailView) error {
	p := v.Product
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%d\n", p.ID)
	fmt.Fprintf(tw, "Title\t%s\n", p.Title)
	fmt.Fprintf(tw, "Brand\t%s\n", p.Brand)
	fmt.Fprintf(tw, "Category\t%s\n", p.Category)
	fmt.Fprintf(tw, "Price\t%s\n", p.Price)
	fmt.Fprintf(tw, "Discount\t%s%%\n", p.DiscountPercentage)
	fmt.Fprintf(tw, "Rating\t%s\n", p.Rating)
	fmt.Fprintf(tw, "Stock\t%d\n", p.Stock)
	fmt.Fprintf(tw, "In cart\t%d\n", v.InCart)
	if err := tw.Flush(); err != nil {
		return err
	}
	if p.Description == "" {
		return nil
	}
	_, err := fmt.Fprintf(w, "\n%s\n", p.Description)
	return err
}

func renderCart(w io.Writer, v storefront.CartView) error {
	if v.Empty {
		_, err := fmt.Fprintln(w, "Your cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tQTY\tTOTAL")
	for _, l := range v.Lines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", l.ID, l.Title, l.Price, l.Quantity, l.LineTotal)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "items: %d  subtotal: %s\n", v.TotalItems, v.Subtotal)
	return err
}

func renderTheme(w io.Writer, v storefront.ThemeView) error {
	_, err := fmt.Fprintf(w, "theme: %s\n", v.Mode)
	return err
}

func renderProfile(w io.Writer, v storefront.ProfileView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", v.Name)
	fmt.Fprintf(tw, "Subtitle\t%s\n", v.Subtitle)
	fmt.Fprintf(tw, "Theme\t%s\n", v.Theme.Mode)
	fmt.Fprintf(tw, "Cart items\t%d\n", v.Cart.TotalItems)
	fmt.Fprintf(tw, "Subtotal\t%s\n", v.Cart.Subtotal)
	return tw.Flush()
}
