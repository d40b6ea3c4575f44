package models

import "github.com/shopspring/decimal"

// Country is the country reference embedded in an address.
type Country struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	IsoName string `json:"isoName"`
	Iso     string `json:"iso"`
}

// Address is a billing or shipping address of an order.
type Address struct {
	ID                    int     `json:"id"`
	Company               string  `json:"company"`
	Department            string  `json:"department"`
	Salutation            string  `json:"salutation"`
	FirstName             string  `json:"firstName"`
	LastName              string  `json:"lastName"`
	Street                string  `json:"street"`
	ZipCode               string  `json:"zipCode"`
	City                  string  `json:"city"`
	Phone                 string  `json:"phone"`
	AdditionalAddressLine string  `json:"additionalAddressLine1"`
	Country               Country `json:"country"`
}

// Customer is the customer reference of an order.
type Customer struct {
	ID        int    `json:"id"`
	Number    string `json:"number"`
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	GroupKey  string `json:"groupKey"`
}

// Payment is the payment method used for an order.
type Payment struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Dispatch is the shipping method of an order. CustomerGroupName is filled in
// locally from the customer group list.
type Dispatch struct {
	ID                int    `json:"id"`
	Name              string `json:"name"`
	CustomerGroupID   int    `json:"customerGroupId"`
	CustomerGroupName string `json:"customerGroupName"`
}

// StatusRef is the upstream representation of an order or payment status.
type StatusRef struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Shop is the sales channel an order was placed in.
type Shop struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LineItem represents a single position within an order.
type LineItem struct {
	ID            int             `json:"id"`
	ArticleID     int             `json:"articleId"`
	ArticleNumber string          `json:"articleNumber"`
	ArticleName   string          `json:"articleName"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	EAN           string          `json:"ean"`
}

// Order is a read-only copy of an order held by the commerce platform.
// Changed and OrderTime are kept as the upstream strings; the list is sorted
// by comparing them lexically.
type Order struct {
	ID                     int             `json:"id"`
	Number                 string          `json:"number"`
	CustomerID             int             `json:"customerId"`
	Customer               Customer        `json:"customer"`
	Billing                Address         `json:"billing"`
	Shipping               Address         `json:"shipping"`
	Details                []LineItem      `json:"details"`
	Payment                Payment         `json:"payment"`
	Dispatch               Dispatch        `json:"dispatch"`
	Shop                   Shop            `json:"shop"`
	OrderStatus            StatusRef       `json:"orderStatus"`
	PaymentStatus          StatusRef       `json:"paymentStatus"`
	InvoiceAmount          decimal.Decimal `json:"invoiceAmount"`
	InvoiceAmountNet       decimal.Decimal `json:"invoiceAmountNet"`
	InvoiceShipping        decimal.Decimal `json:"invoiceShipping"`
	InvoiceShippingNet     decimal.Decimal `json:"invoiceShippingNet"`
	InvoiceShippingTaxRate decimal.Decimal `json:"invoiceShippingTaxRate"`
	Net                    int             `json:"net"`
	TaxFree                int             `json:"taxFree"`
	Currency               string          `json:"currency"`
	CurrencyFactor         decimal.Decimal `json:"currencyFactor"`
	TransactionID          string          `json:"transactionId"`
	TrackingCode           string          `json:"trackingCode"`
	Comment                string          `json:"comment"`
	CustomerComment        string          `json:"customerComment"`
	InternalComment        string          `json:"internalComment"`
	Referer                string          `json:"referer"`
	PartnerID              string          `json:"partnerId"`
	TemporaryID            string          `json:"temporaryId"`
	ClearedDate            string          `json:"clearedDate"`
	RemoteAddress          string          `json:"remoteAddress"`
	DeviceType             string          `json:"deviceType"`
	LanguageIso            string          `json:"languageIso"`
	Changed                string          `json:"changed"`
	OrderTime              string          `json:"orderTime"`
}

// CustomerGroup is a customer group of the commerce platform.
type CustomerGroup struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// DocumentType is a printable document type (invoice, delivery note, ...).
type DocumentType struct {
	ID   int    `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}
