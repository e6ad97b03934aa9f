package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottoshop/internal/catalog"
	"github.com/hammamikhairi/ottoshop/internal/conversation"
	"github.com/hammamikhairi/ottoshop/internal/display"
	"github.com/hammamikhairi/ottoshop/internal/domain"
)

var asJSON bool

var compareCmd = &cobra.Command{
	Use:     "compare <items...>",
	Short:   "Price a list at every store",
	Example: `  ottoshop compare bread, milk, eggs`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		res := a.tools.Compare(conversation.ParseItems(strings.Join(args, " ")))
		if asJSON {
			return printJSON(res)
		}

		set := make(domain.ComparisonSet, len(res.Comparisons))
		for i, r := range res.Comparisons {
			set[i] = r.StoreQuote
		}
		fmt.Println(display.RenderComparisons(set, 200))
		fmt.Println(res.Message)
		return nil
	},
}

var priceCmd = &cobra.Command{
	Use:     "price <store> <items...>",
	Short:   "Price a list at one store",
	Example: `  ottoshop price tesco bread milk`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.tools.StorePrices(args[0], conversation.ParseItems(strings.Join(args[1:], " ")))
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(res)
		}

		fmt.Println(display.RenderQuote(domain.StoreQuote{
			Store:         res.Store,
			Items:         res.Items,
			Total:         res.Total,
			DeliveryHours: res.DeliveryTimeHours,
		}))
		return nil
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every item and its price at each store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := catalog.Default()
		if asJSON {
			rows := make(map[string]catalog.Prices, c.Len())
			for _, name := range c.Items() {
				p, _ := c.Lookup(name)
				rows[name] = p
			}
			return printJSON(rows)
		}
		fmt.Println(display.RenderCatalog(c))
		fmt.Printf("%d items\n", c.Len())
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{compareCmd, priceCmd, catalogCmd} {
		c.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
