package materializer

import (
	"context"
	"errors"
	"fmt"
)

// Origin identifies which source of a Strategy produced the data.
type Origin int

const (
	OriginNone Origin = iota
	OriginPrimary
	OriginFallback
)

func (o Origin) String() string {
	switch o {
	case OriginPrimary:
		return "primary"
	case OriginFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Attempt is the outcome of resolving a Strategy. PrimaryErr keeps the reason
// the primary source was abandoned even when the fallback succeeded.
type Attempt struct {
	Data       []byte
	Origin     Origin
	PrimaryErr error
	Err        error
}

// OK reports whether some source produced data.
func (a Attempt) OK() bool { return a.Err == nil && a.Origin != OriginNone }

// UsedFallback reports whether the data came from the fallback source.
func (a Attempt) UsedFallback() bool { return a.Origin == OriginFallback }

// Strategy tries Primary and, when it fails, the declared Fallback.
// A nil Fallback means a primary failure is final. OnFallback, if set, sees the
// primary error right before the fallback runs.
type Strategy struct {
	Primary    Producer
	Fallback   Producer
	OnFallback func(primaryErr error)
}

var errNoPrimary = errors.New("strategy has no primary source")

// Resolve runs the strategy once.
func (s Strategy) Resolve(ctx context.Context) Attempt {
	if s.Primary == nil {
		return Attempt{Err: errNoPrimary}
	}
	data, err := s.Primary(ctx)
	if err == nil {
		return Attempt{Data: data, Origin: OriginPrimary}
	}
	if s.Fallback == nil {
		return Attempt{PrimaryErr: err, Err: err}
	}
	if s.OnFallback != nil {
		s.OnFallback(err)
	}
	data, ferr := s.Fallback(ctx)
	if ferr != nil {
		return Attempt{PrimaryErr: err, Err: fmt.Errorf("fallback failed after %v: %w", err, ferr)}
	}
	return Attempt{Data: data, Origin: OriginFallback, PrimaryErr: err}
}
