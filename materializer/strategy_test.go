package materializer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func constant(data string) Producer {
	return func(ctx context.Context) ([]byte, error) { return []byte(data), nil }
}

func failing(msg string) Producer {
	return func(ctx context.Context) ([]byte, error) { return nil, errors.New(msg) }
}

func TestStrategy_PrimarySucceeds(t *testing.T) {
	fallbackCalled := false
	s := Strategy{
		Primary: constant("remote"),
		Fallback: func(ctx context.Context) ([]byte, error) {
			fallbackCalled = true
			return nil, nil
		},
	}
	a := s.Resolve(context.Background())
	assert.True(t, a.OK())
	assert.Equal(t, OriginPrimary, a.Origin)
	assert.Equal(t, "remote", string(a.Data))
	assert.NoError(t, a.PrimaryErr)
	assert.False(t, fallbackCalled)
}

func TestStrategy_FallbackRecordsReason(t *testing.T) {
	a := Strategy{Primary: failing("timeout"), Fallback: constant("synthetic")}.Resolve(context.Background())
	assert.True(t, a.OK())
	assert.True(t, a.UsedFallback())
	assert.Equal(t, "synthetic", string(a.Data))
	assert.EqualError(t, a.PrimaryErr, "timeout")
	assert.Equal(t, "fallback", a.Origin.String())
}

func TestStrategy_NoFallback(t *testing.T) {
	a := Strategy{Primary: failing("dns")}.Resolve(context.Background())
	assert.False(t, a.OK())
	assert.Equal(t, OriginNone, a.Origin)
	assert.EqualError(t, a.Err, "dns")
}

func TestStrategy_BothFail(t *testing.T) {
	a := Strategy{Primary: failing("dns"), Fallback: failing("disk")}.Resolve(context.Background())
	assert.False(t, a.OK())
	assert.ErrorContains(t, a.Err, "dns")
	assert.ErrorContains(t, a.Err, "disk")
}

func TestStrategy_NoPrimary(t *testing.T) {
	a := Strategy{}.Resolve(context.Background())
	assert.False(t, a.OK())
}

func TestStrategy_OnFallbackSeesPrimaryError(t *testing.T) {
	var seen error
	s := Strategy{
		Primary:    failing("503 Service Unavailable"),
		Fallback:   constant("synthetic"),
		OnFallback: func(err error) { seen = err },
	}
	a := s.Resolve(context.Background())
	assert.True(t, a.UsedFallback())
	assert.EqualError(t, seen, "503 Service Unavailable")

	seen = nil
	Strategy{Primary: constant("remote"), Fallback: constant("x"), OnFallback: func(err error) { seen = err }}.Resolve(context.Background())
	assert.NoError(t, seen)
}
