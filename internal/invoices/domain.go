package invoices

import "github.com/odyssey-erp/invoice-dashboard/internal/shared"

// ListingPath is the page whose cached rendering mutations invalidate.
const ListingPath = "/dashboard/invoices"

// Status enumerates invoice states.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Invoice is a stored invoice row. Amount is in cents.
type Invoice struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Status     Status `json:"status"`
	Date       string `json:"date"`
}

// Customer is a seeded customer available for selection.
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// ListingRow is one invoice joined with its customer.
type ListingRow struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
	Amount   int64  `json:"amount"`
	Status   Status `json:"status"`
	Date     string `json:"date"`
}

// Listing is one page of the invoices table.
type Listing struct {
	Rows       []ListingRow      `json:"rows"`
	Pagination shared.Pagination `json:"pagination"`
}
