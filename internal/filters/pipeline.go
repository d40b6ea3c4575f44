package filters

import (
	"slices"
	"strings"

	"backoffice/internal/models"
)

// Direction is the sort direction of the order list.
type Direction string

const (
	Desc Direction = "desc"
	Asc  Direction = "asc"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == Desc || d == Asc
}

// Filters is the filter object consumed by the pipeline. A nil status list
// means the status is not filtered; a non-nil empty status list excludes
// every order.
type Filters struct {
	Query         string    `json:"query"`
	Name          string    `json:"name,omitempty"`
	Country       []string  `json:"country"`
	Payment       []string  `json:"payment"`
	Customer      []string  `json:"customer"`
	Status        []string  `json:"status"`
	OrderStatus   []string  `json:"orderStatus"`
	PaymentStatus []string  `json:"paymentStatus"`
	Sort          Direction `json:"sort"`
}

// Page is one page of the filtered and sorted order list. Count is the number
// of orders that passed the filter stage.
type Page struct {
	Orders []models.Order `json:"orders"`
	Count  int            `json:"count"`
}

// Match reports whether the order passes every non-empty criterion.
// Values are matched by case-insensitive containment of the order attribute
// in the comma-joined filter values.
func (f Filters) Match(o models.Order) bool {
	if !containsAttr(f.Country, o.Shipping.Country.IsoName) {
		return false
	}
	if !containsAttr(f.Payment, o.Payment.Description) {
		return false
	}
	if !containsAttr(f.Customer, o.Dispatch.CustomerGroupName) {
		return false
	}
	if !containsStatus(f.OrderStatus, o.OrderSeverity().Label) {
		return false
	}

	// present but empty status lists exclude everything
	if f.PaymentStatus != nil && len(f.PaymentStatus) == 0 {
		return false
	}
	if f.OrderStatus != nil && len(f.OrderStatus) == 0 {
		return false
	}

	return containsStatus(f.PaymentStatus, o.PaymentSeverity().Label)
}

func joined(values []string) string {
	return strings.ToLower(strings.Join(values, ","))
}

func containsAttr(values []string, attr string) bool {
	if len(values) == 0 {
		return true
	}
	return strings.Contains(joined(values), strings.ToLower(attr))
}

func containsStatus(values []string, label string) bool {
	if len(values) == 0 {
		return true
	}
	j := joined(values)
	if strings.Contains(j, AllValue) {
		return true
	}
	return strings.Contains(j, strings.ToLower(label))
}

// ApplyFilters returns the orders passing f, in input order.
func ApplyFilters(orders []models.Order, f Filters) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if f.Match(o) {
			out = append(out, o)
		}
	}
	return out
}

// ApplySort returns a copy of orders sorted by the changed timestamp. Desc puts
// the newest first. Ties keep their input order.
func ApplySort(orders []models.Order, dir Direction) []models.Order {
	out := slices.Clone(orders)
	slices.SortStableFunc(out, func(a, b models.Order) int {
		c := strings.Compare(b.Changed, a.Changed)
		if dir == Asc {
			return -c
		}
		return c
	})
	return out
}

// ApplyPagination returns the zero-based page of size rowsPerPage. Pages out
// of range are empty.
func ApplyPagination(orders []models.Order, page, rowsPerPage int) []models.Order {
	if page < 0 || rowsPerPage <= 0 {
		return []models.Order{}
	}
	// page*rowsPerPage may overflow, so the bound is checked in pages.
	if len(orders) == 0 || page > (len(orders)-1)/rowsPerPage {
		return []models.Order{}
	}
	start := page * rowsPerPage
	end := start + min(rowsPerPage, len(orders)-start)
	return slices.Clone(orders[start:end])
}

// Apply runs filter, sort and pagination in that order.
func Apply(orders []models.Order, f Filters, page, rowsPerPage int) Page {
	filtered := ApplyFilters(orders, f)
	sorted := ApplySort(filtered, f.Sort)
	return Page{
		Orders: ApplyPagination(sorted, page, rowsPerPage),
		Count:  len(filtered),
	}
}
