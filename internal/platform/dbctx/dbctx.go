package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func (c Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// DB returns the transaction when set, falling back to base.
func (c Context) DB(base *gorm.DB) *gorm.DB {
	tx := c.Tx
	if tx == nil {
		tx = base
	}
	return tx.WithContext(c.Context())
}
