package logger

import (
	"context"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestInit_DebugLevel(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })

	Init("raffle-test", false)
	assert.False(t, Debug().Enabled())
	assert.True(t, Info().Enabled())

	Init("raffle-test", true)
	assert.True(t, Debug().Enabled())
}

func TestCtx_FallsBackToGlobal(t *testing.T) {
	saved := log.Logger
	t.Cleanup(func() { log.Logger = saved })
	Init("raffle-test", false)

	assert.Same(t, &log.Logger, Ctx(context.Background()))

	ctx := WithRequestID(context.Background(), "req-1")
	assert.NotSame(t, &log.Logger, Ctx(ctx))
}
