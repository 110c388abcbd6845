package dao

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"golang_2pl/txmanager"
)

type TXRecordPO struct {
	gorm.Model
	TXID       string    `gorm:"column:tx_id;size:64;uniqueIndex"`
	Session    uint64    `gorm:"column:session"`
	Status     string    `gorm:"column:status;size:16"`
	Aborted    bool      `gorm:"column:aborted"`
	Operations int       `gorm:"column:operations"`
	Resources  string    `gorm:"column:resources"`
	StartedAt  uint64    `gorm:"column:started_at"`
	FinishedAt time.Time `gorm:"column:finished_at"`
}

func (TXRecordPO) TableName() string {
	return "tpl_tx_record"
}

//事务结束记录，实现 txmanager.TXRecorder
type TXRecordDAO struct {
	db *gorm.DB
}

var _ txmanager.TXRecorder = (*TXRecordDAO)(nil)

func NewTXRecordDAO(db *gorm.DB) *TXRecordDAO {
	return &TXRecordDAO{db: db}
}

func (t *TXRecordDAO) Migrate(ctx context.Context) error {
	return t.db.WithContext(ctx).AutoMigrate(&TXRecordPO{})
}

func (t *TXRecordDAO) Record(ctx context.Context, record *txmanager.TXRecord) error {
	resources := make([]string, 0, len(record.Resources))
	for _, rid := range record.Resources {
		resources = append(resources, rid.String())
	}
	po := TXRecordPO{
		TXID:       record.TXID,
		Session:    record.Session,
		Status:     record.Status.String(),
		Aborted:    record.Aborted,
		Operations: record.Operations,
		Resources:  strings.Join(resources, ","),
		StartedAt:  record.StartedAt,
		FinishedAt: record.FinishedAt,
	}
	return t.db.WithContext(ctx).Create(&po).Error
}

func (t *TXRecordDAO) GetTXRecord(ctx context.Context, txID string) (*TXRecordPO, error) {
	var po TXRecordPO
	if err := t.db.WithContext(ctx).Where("tx_id = ?", txID).First(&po).Error; err != nil {
		return nil, err
	}
	return &po, nil
}

func (t *TXRecordDAO) GetTXRecordsByStatus(ctx context.Context, status txmanager.TXStatus) ([]*TXRecordPO, error) {
	var pos []*TXRecordPO
	if err := t.db.WithContext(ctx).Where("status = ?", status.String()).Order("id asc").Find(&pos).Error; err != nil {
		return nil, err
	}
	return pos, nil
}
