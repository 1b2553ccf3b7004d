// Package shopctl is a terminal client for the storefront HTTP API.
package shopctl

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

var ValidFormats = []string{"text", "json"}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server string
	Format string
}

func (o *RootOptions) client() *Client {
	return NewClient(o.Server)
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	server := os.Getenv("SHOPCTL_SERVER")
	if server == "" {
		server = defaultServer
	}

	cmd := &cobra.Command{
		Use:           "shopctl",
		Short:         "Browse the MiniShop catalog and manage the cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return &ExitError{
					Code: ExitCommandError,
					Err:  fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats),
				}
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", server, "storefront base URL")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(newProductsCommand(opts))
	cmd.AddCommand(newProductCommand(opts))
	cmd.AddCommand(newCartCommand(opts))
	cmd.AddCommand(newAddCommand(opts))
	cmd.AddCommand(newLineCommand(opts, "inc", "Increase the quantity of a cart line", http.MethodPost, "/increment"))
	cmd.AddCommand(newLineCommand(opts, "dec", "Decrease the quantity of a cart line, removing it at 1", http.MethodPost, "/decrement"))
	cmd.AddCommand(newLineCommand(opts, "rm", "Remove a line from the cart", http.MethodDelete, ""))
	cmd.AddCommand(newClearCommand(opts))
	cmd.AddCommand(newProfileCommand(opts))
	cmd.AddCommand(newThemeCommand(opts))

	return cmd
}

// call performs one request and prints the response in the selected format.
func call[T any](cmd *cobra.Command, opts *RootOptions, method, path string, body any, render func(io.Writer, T) error) error {
	var v T
	raw, err := opts.client().Do(cmd.Context(), method, path, body, &v)
	if err != nil {
		return err
	}
	if opts.Format == "json" {
		return printJSON(cmd.OutOrStdout(), raw)
	}
	return render(cmd.OutOrStdout(), v)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, &ExitError{Code: ExitCommandError, Err: fmt.Errorf("invalid product id %q", arg)}
	}
	return id, nil
}

func newProductsCommand(opts *RootOptions) *cobra.Command {
	var limit, skip int

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if skip > 0 {
				q.Set("skip", strconv.Itoa(skip))
			}
			path := "/products"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			return call(cmd, opts, http.MethodGet, path, nil, renderProducts)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "page size (0 uses the catalog default)")
	cmd.Flags().IntVar(&skip, "skip", 0, "number of products to skip")
	return cmd
}

func newProductCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return call(cmd, opts, http.MethodGet, "/products/"+strconv.Itoa(id), nil, renderProduct)
		},
	}
}

func newCartCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, opts, http.MethodGet, "/cart", nil, renderCart)
		},
	}
}

func newAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <id>",
		Short: "Add one unit of a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			body := map[string]int{"product_id": id}
			return call(cmd, opts, http.MethodPost, "/cart/items", body, renderCart)
		},
	}
}

func newLineCommand(opts *RootOptions, use, short, method, suffix string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			path := "/cart/items/" + strconv.Itoa(id) + suffix
			return call(cmd, opts, method, path, nil, renderCart)
		},
	}
}

func newClearCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, opts, http.MethodDelete, "/cart", nil, renderCart)
		},
	}
}

func newProfileCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the profile screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, opts, http.MethodGet, "/profile", nil, renderProfile)
		},
	}
}

func newThemeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [toggle]",
		Short:     "Show or toggle the theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return call(cmd, opts, http.MethodPost, "/theme/toggle", nil, renderTheme)
			}
			return call(cmd, opts, http.MethodGet, "/theme", nil, renderTheme)
		},
	}
}

