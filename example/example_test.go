package example

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang_2pl/component"
	"golang_2pl/example/dao"
	"golang_2pl/example/pkg"
	"golang_2pl/txmanager"
)

//需要真实的 redis / mysql，例如
//GOLANG_2PL_REDIS_ADDR=127.0.0.1:6379 GOLANG_2PL_REDIS_PASSWORD=123456
//GOLANG_2PL_MYSQL_DSN=root:123456@tcp(127.0.0.1:3306)/bubble?parseTime=true
const (
	redisAddrEnv     = "GOLANG_2PL_REDIS_ADDR"
	redisPasswordEnv = "GOLANG_2PL_REDIS_PASSWORD"
	mysqlDSNEnv      = "GOLANG_2PL_MYSQL_DSN"
	network          = "tcp"
)

func Test_RedisCounter(t *testing.T) {
	address := os.Getenv(redisAddrEnv)
	if address == "" {
		t.Skipf("%s not set", redisAddrEnv)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	redisClient := pkg.NewRedisClient(network, address, os.Getenv(redisPasswordEnv))
	counterA := NewRedisCounter("redis_a", redisClient)
	counterB := NewRedisCounter("redis_b", redisClient)
	require.NoError(t, counterA.Reset(ctx, 0))
	require.NoError(t, counterB.Reset(ctx, 0))

	txManager, err := txmanager.NewManager([]component.Resource{counterA, counterB})
	require.NoError(t, err)

	const workers = 4
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		order := []string{"redis_a", "redis_b"}
		if i%2 == 1 {
			order = []string{"redis_b", "redis_a"}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := Run(ctx, txManager.NewSession(), 100,
				&RequestEntity{ResourceID: order[0], Request: map[string]interface{}{"op": "add", "value": 1}},
				&RequestEntity{ResourceID: order[1], Request: map[string]interface{}{"op": "add", "value": 1}},
			)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	a, err := counterA.Value(ctx)
	require.NoError(t, err)
	b, err := counterB.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), a)
	assert.Equal(t, int64(workers), b)

	s := txManager.NewSession()
	require.NoError(t, s.Begin(ctx))
	require.NoError(t, s.Operate(ctx, "redis_a", Mul{N: 3}))
	s.Rollback(ctx)
	a, err = counterA.Value(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), a)
}

func Test_AccountWithTXRecord(t *testing.T) {
	dsn := os.Getenv(mysqlDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", mysqlDSNEnv)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mysqlDB, err := pkg.NewDB(dsn)
	require.NoError(t, err)

	accountDAO := dao.NewAccountDAO(mysqlDB)
	require.NoError(t, accountDAO.Migrate(ctx))
	txRecordDAO := dao.NewTXRecordDAO(mysqlDB)
	require.NoError(t, txRecordDAO.Migrate(ctx))

	require.NoError(t, accountDAO.Upsert(ctx, "alice", 100))
	require.NoError(t, accountDAO.Upsert(ctx, "bob", 50))
	alice := NewAccount("alice", accountDAO)
	bob := NewAccount("bob", accountDAO)

	var mux sync.Mutex
	var txIDs []string
	recorder := txmanager.RecorderFunc(func(ctx context.Context, record *txmanager.TXRecord) error {
		mux.Lock()
		txIDs = append(txIDs, record.TXID)
		mux.Unlock()
		return txRecordDAO.Record(ctx, record)
	})
	txManager, err := txmanager.NewManager([]component.Resource{alice, bob}, txmanager.WithRecorder(recorder))
	require.NoError(t, err)

	// 转账
	s := txManager.NewSession()
	require.NoError(t, s.Begin(ctx))
	require.NoError(t, s.Operate(ctx, alice.ID(), Sub{N: 30}))
	require.NoError(t, s.Operate(ctx, bob.ID(), Add{N: 30}))
	require.NoError(t, s.Commit(ctx))

	// 回滚
	require.NoError(t, s.Begin(ctx))
	require.NoError(t, s.Operate(ctx, alice.ID(), Sub{N: 70}))
	s.Rollback(ctx)

	balance, err := alice.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(70), balance)
	balance, err = bob.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(80), balance)

	mux.Lock()
	defer mux.Unlock()
	require.Len(t, txIDs, 2)
	committed, err := txRecordDAO.GetTXRecord(ctx, txIDs[0])
	require.NoError(t, err)
	assert.Equal(t, txmanager.TXCommitted.String(), committed.Status)
	assert.Equal(t, "account:alice,account:bob", committed.Resources)
	rolledBack, err := txRecordDAO.GetTXRecord(ctx, txIDs[1])
	require.NoError(t, err)
	assert.Equal(t, txmanager.TXRolledBack.String(), rolledBack.Status)
	assert.Equal(t, 1, rolledBack.Operations)

	pos, err := txRecordDAO.GetTXRecordsByStatus(ctx, txmanager.TXRolledBack)
	require.NoError(t, err)
	assert.NotEmpty(t, pos)
}
