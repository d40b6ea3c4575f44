package filters

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnknownField  = errors.New("unknown filter field")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrInvalidSort   = errors.New("invalid sort direction")
)

// categoryFields are the fields managed by presets.
var categoryFields = []Field{FieldCountry, FieldPayment, FieldCustomer}

// Model holds the active criteria of an order list and translates user
// actions into criterion changes. It is not safe for concurrent use.
//
// Every mutation reports the derived Filters to the change listener;
// constructing the model does not.
type Model struct {
	criteria         []Criterion
	options          map[Field][]Option
	standard         []string
	negativeStandard []string
	query            string
	sort             Direction
	onChange         func(Filters)
}

// NewModel creates a model seeded with DefaultCriteria. payments and
// customers are the option sets of the payment and customer fields.
func NewModel(payments, customers []Option, onChange func(Filters)) *Model {
	return &Model{
		criteria: DefaultCriteria(),
		options: map[Field][]Option{
			FieldCountry:       CountryOptions,
			FieldPayment:       payments,
			FieldCustomer:      customers,
			FieldOrderStatus:   OrderStatusOptions,
			FieldPaymentStatus: PaymentStatusOptions,
		},
		sort:     Desc,
		onChange: onChange,
	}
}

// Criteria returns a copy of the active criteria.
func (m *Model) Criteria() []Criterion {
	return slices.Clone(m.criteria)
}

// Options returns the option set of field.
func (m *Model) Options(field Field) []Option {
	return m.options[field]
}

// Standard returns the selected standard preset values.
func (m *Model) Standard() []string { return slices.Clone(m.standard) }

// NegativeStandard returns the selected negative preset values.
func (m *Model) NegativeStandard() []string { return slices.Clone(m.negativeStandard) }

// Values returns the criterion values of field in criterion order.
func (m *Model) Values(field Field) []string {
	out := []string{}
	for _, c := range m.criteria {
		if c.Field == field {
			out = append(out, c.Value)
		}
	}
	return out
}

// Summary derives the filter object from the current criteria.
func (m *Model) Summary() Filters {
	f := Filters{
		Query:         m.query,
		Country:       []string{},
		Payment:       []string{},
		Customer:      []string{},
		Status:        []string{},
		OrderStatus:   []string{},
		PaymentStatus: []string{},
		Sort:          m.sort,
	}
	for _, c := range m.criteria {
		switch c.Field {
		case FieldCountry:
			f.Country = append(f.Country, c.Value)
		case FieldPayment:
			f.Payment = append(f.Payment, c.Value)
		case FieldCustomer:
			f.Customer = append(f.Customer, c.Value)
		case FieldOrderStatus:
			f.OrderStatus = append(f.OrderStatus, c.Value)
		case FieldPaymentStatus:
			f.PaymentStatus = append(f.PaymentStatus, c.Value)
		}
	}
	return f
}

func (m *Model) notify() {
	if m.onChange != nil {
		m.onChange(m.Summary())
	}
}

// SetCategory replaces the criteria of field with one criterion per value.
// Criteria whose value is kept are retained unchanged, the others are dropped
// and new values get their display label from the field's options.
func (m *Model) SetCategory(field Field, values []string) error {
	if !field.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if !field.IsStatus() {
		m.standard = nil
	}

	values = dedupe(values)
	found := make([]string, 0, len(values))
	next := make([]Criterion, 0, len(m.criteria)+len(values))
	for _, c := range m.criteria {
		if c.Field != field {
			next = append(next, c)
			continue
		}
		if slices.Contains(values, c.Value) && !slices.Contains(found, c.Value) {
			found = append(found, c.Value)
			next = append(next, c)
		}
	}

	if len(values) != len(found) {
		for _, v := range values {
			if slices.Contains(found, v) {
				continue
			}
			c := Criterion{Label: field.Label(), Field: field, Value: v}
			if opt, ok := findOption(m.options[field], v); ok {
				c.DisplayValue = opt.Label
			}
			next = append(next, c)
		}
	}

	m.criteria = next
	m.notify()
	return nil
}

// RemoveCriterion removes the criterion matching c by field and value.
func (m *Model) RemoveCriterion(c Criterion) bool {
	m.standard = nil
	removed := false
	next := make([]Criterion, 0, len(m.criteria))
	for _, existing := range m.criteria {
		if existing.Field == c.Field && existing.Value == c.Value {
			removed = true
			continue
		}
		next = append(next, existing)
	}
	m.criteria = next
	m.notify()
	return removed
}

// ApplyPreset expands the named standard presets and replaces the country,
// payment and customer criteria with them.
func (m *Model) ApplyPreset(values []string) error {
	var expanded []Criterion
	for _, v := range values {
		p, ok := findPreset(v)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPreset, v)
		}
		expanded = append(expanded, p.Filters...)
	}

	m.standard = slices.Clone(values)
	m.replaceCategories(expanded)
	m.notify()
	return nil
}

// ApplyNegativePreset materializes "country NOT IN {x}" over the country
// options, adds the presets' positive criteria and replaces the country,
// payment and customer criteria with the result.
func (m *Model) ApplyNegativePreset(values []string) error {
	var excluded []string
	var positives []Criterion
	for _, v := range values {
		p, ok := findNegativePreset(v)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPreset, v)
		}
		excluded = append(excluded, p.Negative.Value)
		positives = append(positives, p.Positive...)
	}

	m.standard = nil
	m.negativeStandard = slices.Clone(values)

	var expanded []Criterion
	if len(excluded) > 0 {
		for _, o := range m.options[FieldCountry] {
			if slices.Contains(excluded, o.Value) {
				continue
			}
			expanded = append(expanded, Criterion{
				Label:        FieldCountry.Label(),
				Field:        FieldCountry,
				Value:        o.Value,
				DisplayValue: o.Label,
			})
		}
		expanded = append(expanded, positives...)
	}

	m.replaceCategories(expanded)
	m.notify()
	return nil
}

// SetQuery stores the free-text query and uses it as the country criterion.
func (m *Model) SetQuery(q string) {
	m.query = q
	if q == "" {
		return
	}

	replaced := false
	next := make([]Criterion, 0, len(m.criteria)+1)
	for _, c := range m.criteria {
		if c.Field != FieldCountry {
			next = append(next, c)
			continue
		}
		if replaced {
			continue
		}
		c.Value = q
		c.DisplayValue = ""
		next = append(next, c)
		replaced = true
	}
	if !replaced {
		next = append(next, Criterion{Label: FieldCountry.Label(), Field: FieldCountry, Value: q})
	}

	m.criteria = next
	m.notify()
}

// SetSort changes the sort direction.
func (m *Model) SetSort(dir Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSort, dir)
	}
	m.sort = dir
	m.notify()
	return nil
}

// ToggleStatus applies a status checkbox change to a status field.
func (m *Model) ToggleStatus(field Field, value string, checked bool) error {
	if !field.IsStatus() {
		return fmt.Errorf("%w: %s is not a status field", ErrUnknownField, field)
	}
	next := ToggleStatus(m.options[field], m.Values(field), value, checked)
	return m.SetCategory(field, next)
}

func (m *Model) replaceCategories(with []Criterion) {
	next := make([]Criterion, 0, len(m.criteria)+len(with))
	for _, c := range m.criteria {
		if !slices.Contains(categoryFields, c.Field) {
			next = append(next, c)
		}
	}
	for _, c := range with {
		if !slices.ContainsFunc(next, func(e Criterion) bool { return e.Field == c.Field && e.Value == c.Value }) {
			next = append(next, c)
		}
	}
	m.criteria = next
}

func findPreset(value string) (Preset, bool) {
	for _, p := range StandardPresets {
		if p.Value == value {
			return p, true
		}
	}
	return Preset{}, false
}

func findNegativePreset(value string) (NegativePreset, bool) {
	for _, p := range NegativePresets {
		if p.Value == value {
			return p, true
		}
	}
	return NegativePreset{}, false
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
