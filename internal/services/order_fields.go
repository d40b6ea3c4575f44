package services

import (
	"strconv"
	"strings"
	"time"

	"backoffice/internal/models"
)

// Field is one labelled value of an order detail section.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is a titled list of fields.
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// fieldRule renders one field of T. A nil when always shows the field.
type fieldRule[T any] struct {
	label  string
	when   func(T) bool
	render func(T) string
}

func evaluate[T any](v T, rules []fieldRule[T]) []Field {
	fields := make([]Field, 0, len(rules))
	for _, r := range rules {
		if r.when != nil && !r.when(v) {
			continue
		}
		fields = append(fields, Field{Label: r.label, Value: r.render(v)})
	}
	return fields
}

func set(s string) bool { return s != "" }

var addressRules = []fieldRule[models.Address]{
	{label: "ID", render: func(a models.Address) string { return strconv.Itoa(a.ID) }},
	{label: "Company", when: func(a models.Address) bool { return set(a.Company) }, render: func(a models.Address) string { return a.Company }},
	{label: "Department", when: func(a models.Address) bool { return set(a.Department) }, render: func(a models.Address) string { return a.Department }},
	{label: "Salutation", render: func(a models.Address) string { return a.Salutation }},
	{label: "Name", render: func(a models.Address) string { return strings.TrimSpace(a.FirstName + " " + a.LastName) }},
	{label: "Phone", when: func(a models.Address) bool { return set(a.Phone) }, render: func(a models.Address) string { return a.Phone }},
	{label: "Country", render: func(a models.Address) string { return a.Country.IsoName }},
	{label: "City", render: func(a models.Address) string { return a.City }},
	{label: "Street", render: func(a models.Address) string { return a.Street }},
	{label: "Zipcode", render: func(a models.Address) string { return a.ZipCode }},
	{label: "Additional Address Line", when: func(a models.Address) bool { return set(a.AdditionalAddressLine) }, render: func(a models.Address) string { return a.AdditionalAddressLine }},
}

func optional(label string, get func(models.Order) string) fieldRule[models.Order] {
	return fieldRule[models.Order]{
		label:  label,
		when:   func(o models.Order) bool { return set(get(o)) },
		render: get,
	}
}

func always(label string, get func(models.Order) string) fieldRule[models.Order] {
	return fieldRule[models.Order]{label: label, render: get}
}

func yesNo(v int) string {
	if v != 0 {
		return "Yes"
	}
	return "No"
}

var summaryRules = []fieldRule[models.Order]{
	always("ID", func(o models.Order) string { return strconv.Itoa(o.ID) }),
	always("Changed Date", func(o models.Order) string { return formatTimestamp(o.Changed) }),
	always("Number", func(o models.Order) string { return o.Number }),
	always("Customer", func(o models.Order) string {
		return strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName + " " + o.Customer.Email)
	}),
	optional("Payment", func(o models.Order) string { return o.Payment.Name }),
	optional("Dispatch", func(o models.Order) string { return o.Dispatch.Name }),
	optional("Customer Group", func(o models.Order) string { return o.Dispatch.CustomerGroupName }),
	optional("Partner ID", func(o models.Order) string { return o.PartnerID }),
	optional("Shop", func(o models.Order) string { return o.Shop.Name }),
	always("Invoice Amount", func(o models.Order) string { return o.InvoiceAmount.StringFixed(2) }),
	always("Invoice Amount Net", func(o models.Order) string { return o.InvoiceAmountNet.StringFixed(2) }),
	always("Invoice Shipping", func(o models.Order) string { return o.InvoiceShipping.StringFixed(2) }),
	always("Invoice Shipping Net", func(o models.Order) string { return o.InvoiceShippingNet.StringFixed(2) }),
	always("Invoice Shipping Tax Rate", func(o models.Order) string { return o.InvoiceShippingTaxRate.String() }),
	always("Order Time", func(o models.Order) string { return formatTimestamp(o.OrderTime) }),
	optional("Transaction ID", func(o models.Order) string { return o.TransactionID }),
	optional("Comment", func(o models.Order) string { return o.Comment }),
	always("Customer Comment", func(o models.Order) string { return o.CustomerComment }),
	optional("Internal Comment", func(o models.Order) string { return o.InternalComment }),
	always("Net", func(o models.Order) string { return yesNo(o.Net) }),
	always("Tax Free", func(o models.Order) string { return yesNo(o.TaxFree) }),
	optional("Temporary ID", func(o models.Order) string { return o.TemporaryID }),
	optional("Referer", func(o models.Order) string { return o.Referer }),
	optional("Cleared Date", func(o models.Order) string { return formatTimestamp(o.ClearedDate) }),
	optional("Tracking Code", func(o models.Order) string { return o.TrackingCode }),
	always("Language ISO", func(o models.Order) string { return o.LanguageIso }),
	always("Currency", func(o models.Order) string { return o.Currency }),
	always("Currency Factor", func(o models.Order) string { return o.CurrencyFactor.String() }),
	always("Remote Address", func(o models.Order) string { return o.RemoteAddress }),
	always("Device Type", func(o models.Order) string { return o.DeviceType }),
	always("Order Status", func(o models.Order) string { return o.OrderSeverity().Label }),
	always("Payment Status", func(o models.Order) string { return o.PaymentSeverity().Label }),
}

// OrderSections renders the billing, shipping and summary sections of an order.
func OrderSections(o models.Order) []Section {
	return []Section{
		{Title: "Billing Address", Fields: evaluate(o.Billing, addressRules)},
		{Title: "Shipping Address", Fields: evaluate(o.Shipping, addressRules)},
		{Title: "Order", Fields: evaluate(o, summaryRules)},
	}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// formatTimestamp renders platform timestamps as dd/MM/yyyy HH:mm and returns
// unparseable values unchanged.
func formatTimestamp(raw string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006 15:04")
		}
	}
	return raw
}
