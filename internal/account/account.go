// Package account holds the account model and its storage backends.
package account

import (
	"fmt"
	"time"

	"github.com/davidmdm/x/xerr"
)

type Account struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number,omitempty"`
	DateJoined  Date   `json:"date_joined"`
}

// Validate reports every missing required field at once.
func (account Account) Validate() error {
	var errs []error
	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", account.Name},
		{"email", account.Email},
		{"address", account.Address},
	} {
		if field.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", field.name))
		}
	}
	return xerr.MultiErrOrderedFrom("invalid account", errs...)
}

const dateLayout = "2006-01-02"

// Date serializes as a calendar date without a time component.
type Date struct {
	time.Time
}

func Today() Date {
	return DateOf(time.Now())
}

func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (date Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + date.Format(dateLayout) + `"`), nil
}

func (date *Date) UnmarshalJSON(data []byte) error {
	value := string(data)
	if value == "null" || value == `""` {
		*date = Date{}
		return nil
	}

	parsed, err := time.Parse(`"`+dateLayout+`"`, value)
	if err != nil {
		return fmt.Errorf("invalid date %s: expected YYYY-MM-DD", value)
	}

	*date = Date{parsed}
	return nil
}
