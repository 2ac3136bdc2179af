package framework

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type runnableFunc func(context.Context) error

func (f runnableFunc) Run(ctx context.Context) error { return f(ctx) }

func TestNamedRun(t *testing.T) {
	var ran bool
	r := NamedRun("pump", runnableFunc(func(ctx context.Context) error {
		ran = true
		return nil
	}))
	named, ok := r.(Named)
	require.True(t, ok)
	require.Equal(t, "pump", named.Name())
	require.NoError(t, r.Run(context.Background()))
	require.True(t, ran)
}
