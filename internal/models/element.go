package models

import (
	"time"

	"gorm.io/datatypes"
)

// Element types.
const (
	ElementTypeField      = "field"
	ElementTypeButton     = "button"
	ElementTypeButtonMenu = "button_menu"
)

// Element data types.
const (
	DataTypeText        = "text"
	DataTypeDate        = "date"
	DataTypeNumber      = "number"
	DataTypeDateTime    = "datetime"
	DataTypeChoice      = "choice"
	DataTypeGeolocation = "geolocation"
)

// Element initial values.
const (
	InitialValueEmpty = "empty"
	InitialValueNow   = "now"
)

// ElementTypes lists the accepted element types.
var ElementTypes = []string{ElementTypeField, ElementTypeButton, ElementTypeButtonMenu}

// DataTypes lists the accepted data types.
var DataTypes = []string{
	DataTypeText, DataTypeDate, DataTypeNumber,
	DataTypeDateTime, DataTypeChoice, DataTypeGeolocation,
}

// InitialValues lists the accepted initial-value settings.
var InitialValues = []string{InitialValueEmpty, InitialValueNow}

// Element is a schema unit on a board: a data-bearing field or an
// interactive button. Only field elements appear as card value keys.
type Element struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	UserID         uint64 `gorm:"not null;index"`
	BoardID        uint64 `gorm:"not null;index"`
	Name           string `gorm:"size:255"`
	ElementType    string `gorm:"size:32;not null"`
	DataType       string `gorm:"size:32"`
	DisplayOrder   *int
	ShowInSummary  bool           `gorm:"not null;default:false"`
	ShowConditions datatypes.JSON `gorm:"type:json"`
	ReadOnly       bool           `gorm:"not null;default:false"`
	InitialValue   string         `gorm:"size:32"`
	Options        datatypes.JSONMap `gorm:"type:json"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsField reports whether the element carries card values.
func (e *Element) IsField() bool {
	return e.ElementType == ElementTypeField
}

// FieldKey returns the key under which this element's values live in a
// card's field-values map.
func (e *Element) FieldKey() string {
	return formatID(e.ID)
}
