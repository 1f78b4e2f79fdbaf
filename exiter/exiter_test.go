package exiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gosom/localrank/exiter"
)

func Test_Exiter_CancelsWhenIdle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	e := exiter.New(time.Millisecond, nil)
	e.SetCancelFunc(cancel)

	e.Run(ctx)

	require.ErrorIs(t, ctx.Err(), context.Canceled)
}

func Test_Exiter_DisabledWhenZero(t *testing.T) {
	done := make(chan struct{})

	e := exiter.New(0, nil)

	go func() {
		e.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected immediate return for zero threshold")
	}
}
