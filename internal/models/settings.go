package models

import "gorm.io/gorm"

// DocumentChoice is the document type selected for a customer group.
type DocumentChoice struct {
	ID    int    `json:"id" gorm:"column:document_id"`
	Label string `json:"label" gorm:"column:document_label" validate:"required"`
	Key   string `json:"key" gorm:"column:document_key"`
}

// DocumentTypeSetting maps a customer group to the document printed for its orders.
type DocumentTypeSetting struct {
	Customer   string         `json:"customer" gorm:"uniqueIndex;type:varchar(255)" validate:"required"`
	Document   DocumentChoice `json:"document" gorm:"embedded"`
	IsReturn   bool           `json:"isReturn"`
	IsShipping bool           `json:"isShipping"`
	gorm.Model `json:"-"`
}
