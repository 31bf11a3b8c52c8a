package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestData_Lifecycle(t *testing.T) {
	var d Data[[]string]
	assert.Equal(t, Idle, d.State())

	err := d.Load(context.Background(), func(ctx context.Context) ([]string, error) {
		assert.True(t, d.IsLoading())
		return []string{"a"}, nil
	})
	require.NoError(t, err)

	v, ok := d.Value()
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, v)
	assert.Equal(t, Ready, d.State())
}

func TestData_FailureKeepsPreviousValue(t *testing.T) {
	d := ReadyData(3)
	boom := errors.New("boom")

	err := d.Load(context.Background(), func(ctx context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Failed, d.State())
	assert.ErrorIs(t, d.Err(), boom)

	v, ok := d.Value()
	assert.False(t, ok)
	assert.Equal(t, 3, v)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestData_WithValueKeepsState(t *testing.T) {
	d := ReadyData(1)
	boom := errors.New("boom")
	d.Fail(boom)

	other := d.WithValue(2)
	assert.Equal(t, Failed, other.State())
	assert.ErrorIs(t, other.Err(), boom)
	v, _ := other.Value()
	assert.Equal(t, 2, v)

	v, _ = d.Value()
	assert.Equal(t, 1, v)
}
