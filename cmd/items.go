package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/folioctl/folio"
)

var useStorageModule bool

// itemsCmd groups the inventory item commands
var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Query inventory items",
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items matching a CQL query and optional filter expression",
	RunE:  runItemsList,
}

var itemsGetCmd = &cobra.Command{
	Use:   "get <uuid>",
	Short: "Show a single item record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsGet,
}

func init() {
	itemsListCmd.Flags().StringVarP(&queryExpr, "query", "q", "", "CQL query passed to the server")
	itemsListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "client-side filter expression")
	itemsListCmd.Flags().BoolVar(&useStorageModule, "storage", false, "read from the storage module instead of business logic")

	itemsCmd.AddCommand(itemsListCmd)
	itemsCmd.AddCommand(itemsGetCmd)
}

func runItemsList(cmd *cobra.Command, args []string) error {
	recordFilter, err := compileFilter()
	if err != nil {
		return err
	}

	it := client.IterItems(cmd.Context(), queryExpr)
	if useStorageModule {
		it = client.IterStorageItems(cmd.Context(), queryExpr)
	}

	count := 0
	for it.Next() {
		if recordFilter != nil {
			matched, err := recordFilter.MatchRaw(it.Record())
			if err != nil {
				return err
			}
			if !matched {
				continue
			}
		}
		var item folio.Item
		if err := it.Decode(&item); err != nil {
			return err
		}
		printItem(item)
		count++
	}
	if err := it.Err(); err != nil {
		return err
	}

	fmt.Printf("\n%d items\n", count)
	return nil
}

func runItemsGet(cmd *cobra.Command, args []string) error {
	item, err := client.ItemByID(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printJSON(item)
}

func printItem(item folio.Item) {
	fmt.Printf("• %s", item.Title)
	if item.Status != nil {
		fmt.Printf(" [%s]", item.Status.Name)
	}
	fmt.Println()
	fmt.Printf("  ID: %s\n", item.ID)
	if item.Barcode != "" {
		fmt.Printf("  Barcode: %s\n", item.Barcode)
	}
	if item.CallNumber != "" {
		fmt.Printf("  Call number: %s\n", item.CallNumber)
	}
}
