package users

import (
	"strings"
	"testing"

	"github.com/andrebq/taskbox/api"
	"github.com/stretchr/testify/require"
)

func TestReadPassword(t *testing.T) {
	passwd, err := readPassword(strings.NewReader("  secret1 \nignored\n"))
	require.NoError(t, err)
	require.Equal(t, "secret1", string(passwd))

	_, err = readPassword(strings.NewReader(""))
	require.Error(t, err)

	_, err = readPassword(strings.NewReader("   \n"))
	require.Error(t, err)
}

func TestRegisterRulesMatchTheAPI(t *testing.T) {
	require.NoError(t, api.ValidateRegistration("X", "x@x.com", "secret1"))

	var invalid api.ValidationError
	err := api.ValidateRegistration("X", "not-an-email", "secret1")
	require.ErrorAs(t, err, &invalid)
	require.Contains(t, invalid, "email")

	err = api.ValidateRegistration(strings.Repeat("n", 256), "x@x.com", "secret1")
	require.ErrorAs(t, err, &invalid)
	require.Contains(t, invalid, "name")

	err = api.ValidateRegistration("X", "x@x.com", "short")
	require.ErrorAs(t, err, &invalid)
	require.Contains(t, invalid, "password")

	err = api.ValidateRegistration("X", "x@x.com", strings.Repeat("é", 40))
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, []string{"The password field must not be greater than 72 bytes."}, invalid["password"])
}
