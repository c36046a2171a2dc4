package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CaseStatus represents the state of a tracked disease case
type CaseStatus string

const (
	CaseStatusActive    CaseStatus = "active"
	CaseStatusRecovered CaseStatus = "recovered"
	CaseStatusDeceased  CaseStatus = "deceased"
)

// IsValid reports whether the status is one of the known values
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusActive, CaseStatusRecovered, CaseStatusDeceased:
		return true
	}
	return false
}

func (s CaseStatus) String() string {
	return string(s)
}

func (s CaseStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *CaseStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = CaseStatus(str)
	return nil
}

func (s CaseStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *CaseStatus) Scan(value interface{}) error {
	if value == nil {
		*s = CaseStatusActive
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = CaseStatus(v)
	case []byte:
		*s = CaseStatus(string(v))
	}
	return nil
}
