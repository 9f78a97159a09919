package invoices

import (
	"context"
	"strconv"

	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
)

// PerPage is the listing page size.
const PerPage = 6

// Reader runs the read queries behind the listing and forms.
type Reader interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, limit, offset int) ([]ListingRow, error)
	Customers(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id string) (*Invoice, error)
}

// Fetcher serves cached page data.
type Fetcher interface {
	Fetch(ctx context.Context, path, variant string, dest any, loader func(context.Context) (any, error)) error
}

// Lister serves the invoices listing through the path cache.
type Lister struct {
	reader Reader
	cache  Fetcher
}

// NewLister constructs a Lister.
func NewLister(reader Reader, cache Fetcher) *Lister {
	return &Lister{reader: reader, cache: cache}
}

// Page returns listing page n (1-based). n is clamped to the existing
// pages before it keys the cache, so out-of-range pages share one entry.
func (l *Lister) Page(ctx context.Context, n int) (Listing, error) {
	var total int
	err := l.cache.Fetch(ctx, ListingPath, "count", &total, func(ctx context.Context) (any, error) {
		return l.reader.Count(ctx)
	})
	if err != nil {
		return Listing{}, err
	}
	p := shared.NewPagination(n, PerPage, total)

	var listing Listing
	err = l.cache.Fetch(ctx, ListingPath, "page:"+strconv.Itoa(p.Page), &listing, func(ctx context.Context) (any, error) {
		rows, err := l.reader.List(ctx, p.PerPage, p.Offset())
		if err != nil {
			return nil, err
		}
		return Listing{Rows: rows, Pagination: p}, nil
	})
	return listing, err
}

// Customers returns the customer options for the invoice form.
func (l *Lister) Customers(ctx context.Context) ([]Customer, error) {
	return l.reader.Customers(ctx)
}

// Get loads one invoice for editing; shared.ErrNotFound when absent.
func (l *Lister) Get(ctx context.Context, id string) (*Invoice, error) {
	return l.reader.Get(ctx, id)
}
