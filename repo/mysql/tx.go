package mysql

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner 在同一个数据库事务中执行 fn，fn 返回错误时整体回滚。
// 需要事务的仓储方法都接收 tx 参数，由调用方决定事务边界。
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) TxRunner {
	return &gormTxRunner{db: db}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
