package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	type Policy string

	sole := New(Policy("sole"))
	even := New(Policy("even"))
	require.Equal(t, Policy("sole"), sole)

	v, err := ToEnum[Policy]("even")
	require.NoError(t, err)
	require.Equal(t, even, v)

	_, err = ToEnum[Policy]("weighted")
	require.Error(t, err)

	require.Equal(t, []string{"even", "sole"}, Names[Policy]())
}

func TestToEnum_UnknownType(t *testing.T) {
	type Unregistered string

	_, err := ToEnum[Unregistered]("any")
	require.Error(t, err)
	require.Nil(t, Names[Unregistered]())
}
