// Package resource defines the phantom-typed lookup key shared by the
// Reflector's Device and Script stores.
package resource

// Kind tags an Index with the resource store it belongs to. It carries no
// runtime information on its own — Device and Script exist only as types —
// but keeps a Device index and a Script index from being swapped at compile
// time even though both are a plain (namespace, name) pair underneath.
type Kind interface {
	kind()
}

// Device tags an Index as belonging to the device store.
type Device struct{}

func (Device) kind() {}

// Script tags an Index as belonging to the script store.
type Script struct{}

func (Script) kind() {}

// Index identifies a resource by (namespace, name). K fixes which store the
// index is valid against; Index[Device] and Index[Script] are distinct types
// even though they hold the same two strings.
type Index[K Kind] struct {
	Namespace string
	Name      string
}

// New builds an Index from a namespace and name.
func New[K Kind](namespace, name string) Index[K] {
	return Index[K]{Namespace: namespace, Name: name}
}

// String renders the index as "namespace/name", used in logs and the debug dump.
func (i Index[K]) String() string {
	return i.Namespace + "/" + i.Name
}
