package models

import (
	"time"

	"gorm.io/datatypes"
)

// QuotationItem is one priced parameter line on a quotation.
type QuotationItem struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"        json:"-"`
	QuotationID string  `gorm:"size:40;index;not null"          json:"-"`
	Parameter   string  `gorm:"size:120;not null"               json:"parameter"`
	UnitPrice   float64 `gorm:"not null"                        json:"unitPrice"`
	Quantity    int     `gorm:"not null"                        json:"quantity"`
	LineTotal   float64 `gorm:"not null"                        json:"lineTotal"`
}

func (QuotationItem) TableName() string {
	return "quotation_items"
}

// Quotation prices a confirmed request. The simplified model keeps one
// active quotation per request: an update replaces the previous one.
// Customer fields are snapshot-copied from the request at creation time,
// not live-linked.
type Quotation struct {
	RequestID  string          `gorm:"primaryKey;size:40"        json:"requestId"`
	Customer   string          `gorm:"size:200;not null"         json:"customer"`
	Address    string          `gorm:"size:300"                  json:"address"`
	Contact    string          `gorm:"size:100"                  json:"contact"`
	Email      string          `gorm:"size:100"                  json:"email"`
	Items      []QuotationItem `gorm:"foreignKey:QuotationID"    json:"items"`
	GrandTotal float64         `gorm:"not null"                  json:"grandTotal"`
	Signature  datatypes.JSON  `gorm:"type:jsonb"                json:"signature,omitempty"`
	Approved   bool            `gorm:"not null;default:false"    json:"approved"`
	PreparedBy string          `gorm:"size:100"                  json:"preparedBy"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Quotation) TableName() string {
	return "quotations"
}

// Recalculate rewrites every line total and the grand total from unit
// price and quantity. Called on every item edit so the invariant
// grandTotal == sum(lineTotal) never drifts.
func (q *Quotation) Recalculate() {
	var sum float64
	for i := range q.Items {
		q.Items[i].LineTotal = q.Items[i].UnitPrice * float64(q.Items[i].Quantity)
		sum += q.Items[i].LineTotal
	}
	q.GrandTotal = sum
}

// ParameterNames returns the quoted parameter names in item order.
func (q *Quotation) ParameterNames() []string {
	names := make([]string, 0, len(q.Items))
	for _, it := range q.Items {
		names = append(names, it.Parameter)
	}
	return names
}
