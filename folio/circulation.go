package folio

import (
	"context"
	"fmt"
	"time"
)

const loansPath = "/loan-storage/loans"

// dueDateFormat is the calendar-day format accepted by the due date queries.
const dueDateFormat = "2006-01-02"

// Loans fetches every loan matching the CQL query, paginating internally.
func (c *Client) Loans(ctx context.Context, query string) ([]Loan, error) {
	return collect[Loan](c.IterLoans(ctx, query))
}

// IterLoans iterates loans matching the CQL query one record at a time.
func (c *Client) IterLoans(ctx context.Context, query string) *Iterator {
	return c.Iter(ctx, loansPath, "loans", query, 0)
}

// OpenLoansByDueDate fetches open loans due on a single day, or within the
// inclusive interval [start, end] when end is non-empty. Dates use the
// YYYY-MM-DD format.
func (c *Client) OpenLoansByDueDate(ctx context.Context, start, end string) ([]Loan, error) {
	return collect[Loan](c.IterOpenLoansByDueDate(ctx, start, end))
}

// IterOpenLoansByDueDate is the iterator form of OpenLoansByDueDate.
func (c *Client) IterOpenLoansByDueDate(ctx context.Context, start, end string) *Iterator {
	query, err := openLoansDueDateQuery(start, end)
	if err != nil {
		it := &Iterator{done: true, err: err}
		return it
	}
	return c.IterLoans(ctx, query)
}

// openLoansDueDateQuery validates the dates and builds the CQL clause used
// by the due date lookups.
func openLoansDueDateQuery(start, end string) (string, error) {
	startDay, err := time.Parse(dueDateFormat, start)
	if err != nil {
		return "", fmt.Errorf("folio: invalid start date %q: %w", start, err)
	}
	if end == "" {
		return fmt.Sprintf("dueDate=%s and status.name==Open", start), nil
	}
	endDay, err := time.Parse(dueDateFormat, end)
	if err != nil {
		return "", fmt.Errorf("folio: invalid end date %q: %w", end, err)
	}
	if startDay.After(endDay) {
		return "", fmt.Errorf("folio: start date %s is after end date %s", start, end)
	}
	return fmt.Sprintf(
		"(((dueDate>%s and dueDate<%s) or dueDate=%s or dueDate=%s) and status.name==Open)",
		start, end, start, end), nil
}
