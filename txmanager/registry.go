package txmanager

import (
	"fmt"

	"golang_2pl/component"
)

//构造完成后只读，不需要加锁
type registry struct {
	resources map[component.ResourceID]component.Resource
}

func newRegistry(resources []component.Resource) (*registry, error) {
	r := &registry{
		resources: make(map[component.ResourceID]component.Resource, len(resources)),
	}
	for _, resource := range resources {
		if resource == nil {
			return nil, fmt.Errorf("nil resource")
		}
		if _, ok := r.resources[resource.ID()]; ok {
			return nil, fmt.Errorf("repeat register resource id: %s", resource.ID())
		}
		r.resources[resource.ID()] = resource
	}
	return r, nil
}

func (r *registry) get(rid component.ResourceID) (component.Resource, bool) {
	resource, ok := r.resources[rid]
	return resource, ok
}

func (r *registry) len() int {
	return len(r.resources)
}
