package dao

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountPO struct {
	gorm.Model
	Name    string `gorm:"column:name;size:64;uniqueIndex"`
	Balance int64  `gorm:"column:balance"`
}

func (AccountPO) TableName() string {
	return "tpl_account"
}

type AccountDAO struct {
	db *gorm.DB
}

func NewAccountDAO(db *gorm.DB) *AccountDAO {
	return &AccountDAO{db: db}
}

func (a *AccountDAO) Migrate(ctx context.Context) error {
	return a.db.WithContext(ctx).AutoMigrate(&AccountPO{})
}

//已存在时覆盖余额
func (a *AccountDAO) Upsert(ctx context.Context, name string, balance int64) error {
	po := AccountPO{Name: name, Balance: balance}
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance"}),
	}).Create(&po).Error
}

func (a *AccountDAO) GetBalance(ctx context.Context, name string) (int64, error) {
	var po AccountPO
	if err := a.db.WithContext(ctx).Where("name = ?", name).First(&po).Error; err != nil {
		return 0, err
	}
	return po.Balance, nil
}

//在一个数据库事务内 select ... for update，再写回
func (a *AccountDAO) UpdateBalance(ctx context.Context, name string, fn func(balance int64) (int64, error)) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var po AccountPO
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("name = ?", name).First(&po).Error; err != nil {
			return err
		}
		balance, err := fn(po.Balance)
		if err != nil {
			return err
		}
		return tx.Model(&po).Update("balance", balance).Error
	})
}
