package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentStatus represents the payment state of a bill
type PaymentStatus int

const (
	PaymentStatusUnpaid        PaymentStatus = 0
	PaymentStatusPartiallyPaid PaymentStatus = 1
	PaymentStatusFullyPaid     PaymentStatus = 2
	PaymentStatusCancelled     PaymentStatus = 3
)

var paymentStatusNames = [...]string{"unpaid", "partially_paid", "fully_paid", "cancelled"}

func (s PaymentStatus) String() string {
	if s < 0 || int(s) >= len(paymentStatusNames) {
		return "unknown"
	}
	return paymentStatusNames[s]
}

// ParsePaymentStatus converts a status name into a PaymentStatus
func ParsePaymentStatus(name string) (PaymentStatus, error) {
	for i, n := range paymentStatusNames {
		if n == name {
			return PaymentStatus(i), nil
		}
	}
	return 0, fmt.Errorf("invalid payment status: %q", name)
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	parsed, err := ParsePaymentStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
