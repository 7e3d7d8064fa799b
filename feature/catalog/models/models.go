package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice stores an ordered list of strings as a JSON column.
// Used for variant image URL lists.
type StringSlice []string

// Value implements driver.Valuer for JSON serialization.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		s = StringSlice{}
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSON deserialization.
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type %T for StringSlice", value)
	}
}

// Product represents a storefront product that owns options, values, and variants.
type Product struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	StorefrontID uint      `gorm:"column:storefront_id;index" json:"storefront_id"`
	Name         string    `gorm:"column:name" json:"name"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName overrides the table name for Product.
func (Product) TableName() string {
	return "products"
}

// Option represents one configurable axis of a product (e.g. Color, Size).
// Labels are unique per product under case-insensitive comparison; the
// reconciliation engine enforces this by reusing an existing option whenever
// a requested label matches one case-insensitively.
type Option struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	ProductID uint      `gorm:"column:product_id;index" json:"product_id"`
	Label     string    `gorm:"column:label" json:"label"`
	Position  int       `gorm:"column:position" json:"position"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name for Option.
func (Option) TableName() string {
	return "product_options"
}

// OptionValue is a denormalized row that simultaneously enumerates the
// distinct values taken by an option and records one variant's selection of
// one option's value. Position denotes the rank of the value, not the rank
// of the row: every row sharing an option and a case-insensitively equal
// value string carries the same position.
type OptionValue struct {
	ID        uint   `gorm:"column:id;primaryKey" json:"id"`
	OptionID  uint   `gorm:"column:option_id;index" json:"option_id"`
	VariantID uint   `gorm:"column:variant_id;index" json:"variant_id"`
	ProductID uint   `gorm:"column:product_id;index" json:"product_id"`
	Value     string `gorm:"column:value" json:"value"`
	Position  int    `gorm:"column:position" json:"position"`
}

// TableName overrides the table name for OptionValue.
func (OptionValue) TableName() string {
	return "product_option_values"
}

// Variant represents one purchasable configuration of a product.
// Engine-created variants always start unpriced, non-default, and unapproved.
type Variant struct {
	ID             uint        `gorm:"column:id;primaryKey" json:"id"`
	ProductID      uint        `gorm:"column:product_id;index" json:"product_id"`
	Title          string      `gorm:"column:title" json:"title"`
	Images         StringSlice `gorm:"column:images;type:json" json:"images"`
	PriceCents     *int64      `gorm:"column:price_cents" json:"price_cents"`
	CompareAtCents *int64      `gorm:"column:compare_at_cents" json:"compare_at_cents"`
	IsDefault      bool        `gorm:"column:is_default" json:"is_default"`
	Approved       bool        `gorm:"column:approved" json:"approved"`
	CreatedAt      time.Time   `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the table name for Variant.
func (Variant) TableName() string {
	return "product_variants"
}
