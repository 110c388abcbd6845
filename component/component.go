package component

import "context"

//资源标识，资源集合在 txmanager 构造时固定
type ResourceID string

func (r ResourceID) String() string {
	return string(r)
}

//由外部持有的可变资源，只能通过 Operation 修改
type Resource interface {
	ID() ResourceID
}

//作用在某个资源上的命令
//Execute 可以失败，失败时资源必须保持原状
//Undo 只会作用在 Execute 成功之后的资源状态上，约定不会失败
type Operation interface {
	Execute(ctx context.Context, resource Resource) error
	Undo(ctx context.Context, resource Resource)
}
