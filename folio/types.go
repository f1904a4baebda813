package folio

import "time"

// User is a patron or staff record from mod-users. Only the commonly used
// fields are modelled; the platform returns more.
type User struct {
	ID             string    `json:"id,omitempty"`
	Username       string    `json:"username,omitempty"`
	Barcode        string    `json:"barcode,omitempty"`
	Active         bool      `json:"active"`
	Type           string    `json:"type,omitempty"`
	PatronGroup    string    `json:"patronGroup,omitempty"`
	Personal       *Personal `json:"personal,omitempty"`
	ExpirationDate string    `json:"expirationDate,omitempty"`
	CreatedDate    string    `json:"createdDate,omitempty"`
	UpdatedDate    string    `json:"updatedDate,omitempty"`
}

// Personal holds the contact details nested inside a user record.
type Personal struct {
	FirstName              string `json:"firstName,omitempty"`
	LastName               string `json:"lastName,omitempty"`
	MiddleName             string `json:"middleName,omitempty"`
	Email                  string `json:"email,omitempty"`
	Phone                  string `json:"phone,omitempty"`
	PreferredContactTypeID string `json:"preferredContactTypeId,omitempty"`
}

// Permissions is the per-user permissions record kept by mod-permissions.
// Every user needs one, even if empty, for the UI to function.
type Permissions struct {
	ID          string   `json:"id,omitempty"`
	UserID      string   `json:"userId"`
	Permissions []string `json:"permissions"`
}

// Loan is a circulation loan from mod-circulation-storage.
type Loan struct {
	ID         string     `json:"id,omitempty"`
	UserID     string     `json:"userId,omitempty"`
	ItemID     string     `json:"itemId,omitempty"`
	Action     string     `json:"action,omitempty"`
	LoanDate   *time.Time `json:"loanDate,omitempty"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     *Status    `json:"status,omitempty"`
}

// Item is an inventory item. The business logic module at /inventory/items
// returns a richer shape than the storage module at /item-storage/items;
// this struct covers the shared fields.
type Item struct {
	ID                  string  `json:"id,omitempty"`
	Barcode             string  `json:"barcode,omitempty"`
	Title               string  `json:"title,omitempty"`
	HoldingsRecordID    string  `json:"holdingsRecordId,omitempty"`
	CallNumber          string  `json:"callNumber,omitempty"`
	MaterialTypeID      string  `json:"materialTypeId,omitempty"`
	PermanentLocationID string  `json:"permanentLocationId,omitempty"`
	PermanentLoanTypeID string  `json:"permanentLoanTypeId,omitempty"`
	EffectiveLocationID string  `json:"effectiveLocationId,omitempty"`
	Enumeration         string  `json:"enumeration,omitempty"`
	Status              *Status `json:"status,omitempty"`
}

// Status is the name-bearing status object FOLIO nests in loans and items.
type Status struct {
	Name string `json:"name,omitempty"`
	Date string `json:"date,omitempty"`
}
