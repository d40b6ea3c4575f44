package filters

import (
	"strings"

	"backoffice/internal/models"
)

// AllValue is the status option that disables a status filter.
const AllValue = "all"

// Field is a filterable order attribute.
type Field string

const (
	FieldCountry       Field = "country"
	FieldPayment       Field = "payment"
	FieldCustomer      Field = "customer"
	FieldOrderStatus   Field = "orderStatus"
	FieldPaymentStatus Field = "paymentStatus"
)

var fieldLabels = map[Field]string{
	FieldCountry:       "Country",
	FieldPayment:       "Payment",
	FieldCustomer:      "Customer",
	FieldOrderStatus:   "OrderStatus",
	FieldPaymentStatus: "PaymentStatus",
}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}

// Label is the chip label of the field.
func (f Field) Label() string {
	return fieldLabels[f]
}

// IsStatus reports whether f is one of the two status fields.
func (f Field) IsStatus() bool {
	return f == FieldOrderStatus || f == FieldPaymentStatus
}

// Criterion is one (field, value) filter constraint.
type Criterion struct {
	Label        string `json:"label"`
	Field        Field  `json:"field"`
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue,omitempty"`
}

// Display is the text shown on the criterion chip.
func (c Criterion) Display() string {
	if c.DisplayValue != "" {
		return c.DisplayValue
	}
	return c.Value
}

// Option is one selectable value of a field.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func findOption(options []Option, value string) (Option, bool) {
	for _, o := range options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Preset is a named bundle of criteria applied together.
type Preset struct {
	Label   string      `json:"label"`
	Value   string      `json:"value"`
	Filters []Criterion `json:"filters"`
}

// NegativePreset excludes one country and adds positive criteria.
type NegativePreset struct {
	Label    string      `json:"label"`
	Value    string      `json:"value"`
	Negative Criterion   `json:"negative"`
	Positive []Criterion `json:"positive"`
}

var (
	CountryOptions = []Option{
		{Label: "France", Value: "france"},
		{Label: "Germany", Value: "germany"},
		{Label: "Austria", Value: "austria"},
	}

	OrderStatusOptions = []Option{
		{Label: "ALL", Value: AllValue},
		{Label: "OPEN", Value: "open"},
		{Label: "COMPLETELY DELIVERED", Value: "completely delivered"},
		{Label: "RETURNED", Value: "returned"},
		{Label: "CANCELED", Value: "canceled"},
	}

	PaymentStatusOptions = []Option{
		{Label: "ALL", Value: AllValue},
		{Label: "OPEN", Value: "open"},
		{Label: "COMPLETELY PAID", Value: "completely paid"},
		{Label: "PARTLY INVOICED", Value: "partly invoiced"},
		{Label: "COMPLETELY INVOICED", Value: "completely invoiced"},
	}

	SortOptions = []Option{
		{Label: "Newest", Value: string(Desc)},
		{Label: "Oldest", Value: string(Asc)},
	}

	zalandoPayment  = Criterion{Label: "Payment", Field: FieldPayment, Value: "zalando", DisplayValue: "Zalando"}
	zalandoCustomer = Criterion{Label: "Customer", Field: FieldCustomer, Value: "zalando", DisplayValue: "Zalando"}
	germany         = Criterion{Label: "Country", Field: FieldCountry, Value: "germany", DisplayValue: "Germany"}

	StandardPresets = []Preset{
		{
			Label:   "ZALANDO DE",
			Value:   "zalandoDe",
			Filters: []Criterion{germany, zalandoPayment, zalandoCustomer},
		},
	}

	NegativePresets = []NegativePreset{
		{
			Label:    "ZALANDO NOT DE",
			Value:    "zalandoNotDe",
			Negative: germany,
			Positive: []Criterion{zalandoPayment, zalandoCustomer},
		},
	}
)

// DefaultCriteria are the criteria a freshly mounted order list starts with.
func DefaultCriteria() []Criterion {
	return []Criterion{
		{Label: "OrderStatus", Field: FieldOrderStatus, Value: "open", DisplayValue: "OPEN"},
		{Label: "PaymentStatus", Field: FieldPaymentStatus, Value: "completely paid", DisplayValue: "COMPLETELY PAID"},
		{Label: "PaymentStatus", Field: FieldPaymentStatus, Value: "partly invoiced", DisplayValue: "PARTLY INVOICED"},
		{Label: "PaymentStatus", Field: FieldPaymentStatus, Value: "completely invoiced", DisplayValue: "COMPLETELY INVOICED"},
	}
}

// PaymentOptions builds the payment options from the payment methods.
func PaymentOptions(payments []models.Payment) []Option {
	out := make([]Option, 0, len(payments))
	for _, p := range payments {
		out = append(out, Option{Label: p.Description, Value: strings.ToLower(p.Description)})
	}
	return out
}

// CustomerOptions builds the customer options from the customer groups.
func CustomerOptions(groups []models.CustomerGroup) []Option {
	out := make([]Option, 0, len(groups))
	for _, g := range groups {
		out = append(out, Option{Label: g.Name, Value: strings.ToLower(g.Name)})
	}
	return out
}

// ToggleStatus returns the status selection after a checkbox change.
// Checking "all" selects every option, unchecking it clears the selection,
// and unchecking any other value also drops "all".
func ToggleStatus(options []Option, current []string, value string, checked bool) []string {
	next := append([]string{}, current...)
	if checked {
		if value == AllValue {
			for _, o := range options {
				next = append(next, o.Value)
			}
			return next
		}
		return append(next, value)
	}

	if value == AllValue {
		return []string{}
	}
	out := next[:0]
	for _, v := range next {
		if v != value && v != AllValue {
			out = append(out, v)
		}
	}
	return out
}
