package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/light-bringer/procat-bind/internal/app/product/contracts"
	"github.com/light-bringer/procat-bind/internal/app/product/domain"
	"github.com/light-bringer/procat-bind/internal/app/product/usecases/archive_product"
	"github.com/light-bringer/procat-bind/internal/app/product/usecases/create_product"
	"github.com/light-bringer/procat-bind/internal/app/product/usecases/update_price"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the products schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return servicesFrom(cmd).Migrate(cmd.Context())
		},
	}
}

func newCreateCmd() *cobra.Command {
	var req create_product.Request
	var price string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := domain.ParseMoney(price)
			if err != nil {
				return err
			}
			req.Price = m

			id, err := servicesFrom(cmd).CreateProduct.Execute(cmd.Context(), &req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "product name")
	cmd.Flags().StringVar(&req.Description, "description", "", "product description")
	cmd.Flags().StringVar(&req.Category, "category", "", "product category")
	cmd.Flags().StringVar(&price, "price", "", "price, e.g. 9.99")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := servicesFrom(cmd).Products.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), []*domain.Product{p})
		},
	}
}

func newListCmd() *cobra.Command {
	var filter contracts.ListFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := servicesFrom(cmd).Products.List(cmd.Context(), &filter)
			if err != nil {
				return err
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}
	cmd.Flags().StringVar(&filter.Category, "category", "", "only this category")
	cmd.Flags().StringVar(&filter.Status, "status", "", "only this status")
	cmd.Flags().IntVar(&filter.PageSize, "limit", 0, "page size")
	cmd.Flags().Int64Var(&filter.Offset, "offset", 0, "rows to skip")
	return cmd
}

func newRepriceCmd() *cobra.Command {
	var price string

	cmd := &cobra.Command{
		Use:   "reprice <product-id>",
		Short: "Change a product's price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := domain.ParseMoney(price)
			if err != nil {
				return err
			}
			return servicesFrom(cmd).UpdatePrice.Execute(cmd.Context(), &update_price.Request{
				ProductID: args[0],
				NewPrice:  m,
			})
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "new price, e.g. 12.50")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <product-id>",
		Short: "Archive a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return servicesFrom(cmd).ArchiveProduct.Execute(cmd.Context(), &archive_product.Request{ProductID: args[0]})
		},
	}
}

func printProducts(out io.Writer, products []*domain.Product) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTATUS\tVERSION")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n", p.ID(), p.Name(), p.Category(), p.Price(), p.Status(), p.Version())
	}
	return w.Flush()
}
