package account

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateReportsEveryMissingField(t *testing.T) {
	err := Account{PhoneNumber: "555-1212"}.Validate()
	require.Error(t, err)
	require.ErrorContains(t, err, "name is required")
	require.ErrorContains(t, err, "email is required")
	require.ErrorContains(t, err, "address is required")
}

func TestValidateOK(t *testing.T) {
	account := Account{Name: "John Doe", Email: "john@example.com", Address: "123 Main St"}
	require.NoError(t, account.Validate())
}

func TestDateSerialization(t *testing.T) {
	account := Account{
		ID:         1,
		Name:       "John Doe",
		Email:      "john@example.com",
		Address:    "123 Main St",
		DateJoined: DateOf(time.Date(2022, 6, 16, 15, 4, 5, 0, time.UTC)),
	}

	data, err := json.Marshal(account)
	require.NoError(t, err)
	require.Contains(t, string(data), `"date_joined":"2022-06-16"`)

	var decoded Account
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, account.DateJoined, decoded.DateJoined)
}

func TestDateRejectsBadInput(t *testing.T) {
	var account Account
	err := json.Unmarshal([]byte(`{"date_joined":"June 16th"}`), &account)
	require.ErrorContains(t, err, "expected YYYY-MM-DD")
}

func TestPhoneNumberOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(Account{Name: "Jane"})
	require.NoError(t, err)
	require.NotContains(t, string(data), "phone_number")
}
