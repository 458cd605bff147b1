package datasets

import "context"

func produceSingleCell(ctx context.Context, e *Env) {
	e.fetchRemote(ctx, "nb03")
}
