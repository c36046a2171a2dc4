package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ItemType categorizes a bill line item
type ItemType string

const (
	ItemTypeService   ItemType = "service"
	ItemTypeInventory ItemType = "inventory"
)

// IsValid reports whether the item type is one of the known values
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeService, ItemTypeInventory:
		return true
	}
	return false
}

func (t ItemType) String() string {
	return string(t)
}

func (t ItemType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *ItemType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = ItemType(str)
	return nil
}

func (t ItemType) Value() (driver.Value, error) {
	return string(t), nil
}

func (t *ItemType) Scan(value interface{}) error {
	if value == nil {
		*t = ItemTypeService
		return nil
	}
	switch v := value.(type) {
	case string:
		*t = ItemType(v)
	case []byte:
		*t = ItemType(string(v))
	}
	return nil
}
