package example

import (
	"context"

	"golang_2pl/component"
	"golang_2pl/example/dao"
)

//mysql 中的账户余额
type Account struct {
	id   component.ResourceID
	name string
	dao  *dao.AccountDAO
}

var _ Cell = (*Account)(nil)

func NewAccount(name string, accountDAO *dao.AccountDAO) *Account {
	return &Account{
		id:   component.ResourceID("account:" + name),
		name: name,
		dao:  accountDAO,
	}
}

func (a *Account) ID() component.ResourceID {
	return a.id
}

func (a *Account) Balance(ctx context.Context) (int64, error) {
	return a.dao.GetBalance(ctx, a.name)
}

func (a *Account) Update(ctx context.Context, fn func(v int64) (int64, error)) error {
	return a.dao.UpdateBalance(ctx, a.name, fn)
}
