package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/folioctl/folio"
)

var (
	dueStart string
	dueEnd   string
)

// loansCmd groups the circulation commands
var loansCmd = &cobra.Command{
	Use:   "loans",
	Short: "Query circulation loans",
}

var loansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loans matching a CQL query and optional filter expression",
	RunE:  runLoansList,
}

var loansDueCmd = &cobra.Command{
	Use:   "due",
	Short: "List open loans due on a day or within an interval",
	RunE:  runLoansDue,
}

func init() {
	loansListCmd.Flags().StringVarP(&queryExpr, "query", "q", "", "CQL query passed to the server")
	loansListCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "client-side filter expression")

	loansDueCmd.Flags().StringVar(&dueStart, "start", "", "start date (YYYY-MM-DD, defaults to today)")
	loansDueCmd.Flags().StringVar(&dueEnd, "end", "", "end date (YYYY-MM-DD) for an interval")

	loansCmd.AddCommand(loansListCmd)
	loansCmd.AddCommand(loansDueCmd)
}

func runLoansList(cmd *cobra.Command, args []string) error {
	recordFilter, err := compileFilter()
	if err != nil {
		return err
	}

	count := 0
	it := client.IterLoans(cmd.Context(), queryExpr)
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
		var loan folio.Loan
		if err := it.Decode(&loan); err != nil {
			return err
		}
		printLoan(loan)
		count++
	}
	if err := it.Err(); err != nil {
		return err
	}

	fmt.Printf("\n%d loans\n", count)
	return nil
}

func runLoansDue(cmd *cobra.Command, args []string) error {
	start := dueStart
	if start == "" {
		start = time.Now().Format("2006-01-02")
	}

	loans, err := client.OpenLoansByDueDate(cmd.Context(), start, dueEnd)
	if err != nil {
		return err
	}

	for _, loan := range loans {
		printLoan(loan)
	}
	fmt.Printf("\n%d open loans due\n", len(loans))
	return nil
}

func printLoan(loan folio.Loan) {
	fmt.Printf("• %s", loan.ID)
	if loan.Status != nil {
		fmt.Printf(" [%s]", loan.Status.Name)
	}
	fmt.Println()
	fmt.Printf("  User: %s  Item: %s\n", loan.UserID, loan.ItemID)
	if loan.DueDate != nil {
		fmt.Printf("  Due: %s\n", loan.DueDate.Format("2006-01-02"))
	}
}
