package internal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWarning(t *testing.T) {
	err := Warningf("no resources found in %s: nothing to remove", "default")
	require.EqualError(t, err, "no resources found in default: nothing to remove")
	require.True(t, IsWarning(err))
	require.True(t, IsWarning(fmt.Errorf("destroy: %w", err)))
	require.False(t, IsWarning(errors.New("nothing to remove")))
	require.False(t, IsWarning(nil))
}
