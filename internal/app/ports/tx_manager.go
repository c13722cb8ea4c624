package ports

import "context"

// TxManager scopes one unit of persistence work. Repositories pick the
// transaction up from ctx.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
