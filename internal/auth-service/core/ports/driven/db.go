package driven

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type IDB interface {
	GetConn() *sqlx.DB
	Driver() string
	IsAlive(ctx context.Context) error
	Close() error
}
