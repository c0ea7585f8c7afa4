package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mhartig/shopfront/internal/api"
	"github.com/mhartig/shopfront/internal/domain"
)

func newProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse and manage the catalog",
	}

	cmd.AddCommand(newProductsListCmd())
	cmd.AddCommand(newProductsGetCmd())
	cmd.AddCommand(newProductsCreateCmd())
	cmd.AddCommand(newProductsUpdateCmd())
	cmd.AddCommand(newProductsDeleteCmd())
	return cmd
}

// requireAdmin mirrors the server's authorization rule so an obvious
// mistake fails before any network call. The server still enforces it.
func requireAdmin(app *app) error {
	snap := app.manager.Snapshot()
	if !snap.IsAuthenticated {
		return domain.ErrNotAuthenticated
	}
	if !snap.User.IsAdmin() {
		return fmt.Errorf("admin role required")
	}
	return nil
}

// resultErr converts a failed gateway call into a CLI error.
func resultErr(err *api.CallError) error {
	if err == nil {
		return nil
	}
	msg := err.Message
	for field, detail := range err.Details {
		msg += fmt.Sprintf("\n  %s: %s", field, detail)
	}
	return fmt.Errorf("%s", msg)
}

func newProductsListCmd() *cobra.Command {
	var (
		page, perPage      int
		category, search   string
		minPrice, maxPrice float64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog products",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			// Only explicitly set flags become query parameters.
			var filters domain.ProductFilters
			if cmd.Flags().Changed("page") {
				filters.Page = &page
			}
			if cmd.Flags().Changed("per-page") {
				filters.PerPage = &perPage
			}
			if cmd.Flags().Changed("category") {
				filters.Category = &category
			}
			if cmd.Flags().Changed("min-price") {
				filters.MinPrice = &minPrice
			}
			if cmd.Flags().Changed("max-price") {
				filters.MaxPrice = &maxPrice
			}
			if cmd.Flags().Changed("search") {
				filters.Search = &search
			}

			res := app.client.ListProducts(cmd.Context(), filters)
			if !res.Ok() {
				return resultErr(res.Err)
			}
			return printJSON(res.Data)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "results per page")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price")
	cmd.Flags().StringVar(&search, "search", "", "search term")
	return cmd
}

func newProductsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q: %w", args[0], err)
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			res := app.client.GetProduct(cmd.Context(), id)
			if !res.Ok() {
				return resultErr(res.Err)
			}
			return printJSON(res.Data)
		},
	}
}

func newProductsCreateCmd() *cobra.Command {
	var req domain.CreateProductRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			if err := requireAdmin(app); err != nil {
				return err
			}

			res := app.client.CreateProduct(cmd.Context(), req)
			if !res.Ok() {
				return resultErr(res.Err)
			}
			return printJSON(res.Data)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "product name")
	cmd.Flags().StringVar(&req.Description, "description", "", "product description")
	cmd.Flags().Float64Var(&req.Price, "price", 0, "unit price")
	cmd.Flags().IntVar(&req.Stock, "stock", 0, "stock count")
	cmd.Flags().StringVar(&req.Category, "category", "", "category")
	cmd.Flags().StringVar(&req.ImageURL, "image-url", "", "image URL")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("price")
	return cmd
}

func newProductsUpdateCmd() *cobra.Command {
	var (
		name, description  string
		category, imageURL string
		price              float64
		stock              int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product (admin); only supplied flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q: %w", args[0], err)
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			var req domain.UpdateProductRequest
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("price") {
				req.Price = &price
			}
			if cmd.Flags().Changed("stock") {
				req.Stock = &stock
			}
			if cmd.Flags().Changed("category") {
				req.Category = &category
			}
			if cmd.Flags().Changed("image-url") {
				req.ImageURL = &imageURL
			}

			if err := requireAdmin(app); err != nil {
				return err
			}

			res := app.client.UpdateProduct(cmd.Context(), id, req)
			if !res.Ok() {
				return resultErr(res.Err)
			}
			return printJSON(res.Data)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&description, "description", "", "product description")
	cmd.Flags().Float64Var(&price, "price", 0, "unit price")
	cmd.Flags().IntVar(&stock, "stock", 0, "stock count")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&imageURL, "image-url", "", "image URL")
	return cmd
}

func newProductsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id %q: %w", args[0], err)
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}

			if err := requireAdmin(app); err != nil {
				return err
			}

			res := app.client.DeleteProduct(cmd.Context(), id)
			if !res.Ok() {
				return resultErr(res.Err)
			}
			fmt.Println("Product deleted")
			return nil
		},
	}
}
