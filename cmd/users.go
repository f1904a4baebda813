package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/folioctl/filter"
	"github.com/s0up4200/folioctl/folio"
)

var useBusinessLogic bool

// usersCmd groups the user record commands
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Query and manage user records",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users matching a CQL query and optional filter expression",
	RunE:  runUsersList,
}

var usersGetCmd = &cobra.Command{
	Use:   "get <uuid>",
	Short: "Show a single user record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersGet,
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <uuid>",
	Short: "Delete a user record",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersDelete,
}

func init() {
	usersListCmd.Flags().StringVarP(&queryExpr, "query", "q", "", "CQL query passed to the server")
	usersListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "client-side filter expression")
	usersGetCmd.Flags().BoolVar(&useBusinessLogic, "bl", false, "resolve through the business logic module")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersGetCmd)
	usersCmd.AddCommand(usersDeleteCmd)
}

func runUsersList(cmd *cobra.Command, args []string) error {
	recordFilter, err := compileFilter()
	if err != nil {
		return err
	}

	count := 0
	it := client.IterUsers(cmd.Context(), queryExpr)
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
		var user folio.User
		if err := it.Decode(&user); err != nil {
			return err
		}
		printUser(user)
		count++
	}
	if err := it.Err(); err != nil {
		return err
	}

	fmt.Printf("\n%d users\n", count)
	return nil
}

func runUsersGet(cmd *cobra.Command, args []string) error {
	var (
		user *folio.User
		err  error
	)
	if useBusinessLogic {
		user, err = client.UserBLByID(cmd.Context(), args[0])
	} else {
		user, err = client.UserByID(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}
	return printJSON(user)
}

func runUsersDelete(cmd *cobra.Command, args []string) error {
	if err := client.DeleteUser(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted user %s\n", args[0])
	return nil
}

func printUser(user folio.User) {
	fmt.Printf("• %s", user.Username)
	if user.Personal != nil {
		fmt.Printf(" (%s, %s)", user.Personal.LastName, user.Personal.Email)
	}
	if !user.Active {
		fmt.Printf(" [INACTIVE]")
	}
	fmt.Println()
	fmt.Printf("  ID: %s\n", user.ID)
	if user.Barcode != "" {
		fmt.Printf("  Barcode: %s\n", user.Barcode)
	}
}

// compileFilter builds the optional client-side filter from the --filter flag.
func compileFilter() (*filter.Filter, error) {
	if filterExpr == "" {
		return nil, nil
	}
	compiled, err := filter.Compile(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return compiled, nil
}

// printJSON writes a record to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
