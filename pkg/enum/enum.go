package enum

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	enumManager = map[reflect.Type]any{}
	managerLock sync.RWMutex
)

type enum[T comparable] struct {
	toEnum   map[string]T
	toString map[T]string
	values   []T
}

// New registers value under name and returns value, so enums can be declared as package-level
// variables.
func New[T comparable](value T, name string) T {
	managerLock.Lock()
	defer managerLock.Unlock()

	t := reflect.TypeOf(value)
	if _, ok := enumManager[t]; !ok {
		enumManager[t] = &enum[T]{toEnum: make(map[string]T), toString: make(map[T]string)}
	}

	e := enumManager[t].(*enum[T])
	e.toEnum[name] = value
	e.toString[value] = name
	e.values = append(e.values, value)
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var defaultT T
	e, ok := get[T]()
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// ToString returns the registered name of value, or an empty string if value is not registered.
func ToString[T comparable](value T) string {
	e, ok := get[T]()
	if !ok {
		return ""
	}

	return e.toString[value]
}

// Values returns all registered values of T in registration order.
func Values[T comparable]() []T {
	e, ok := get[T]()
	if !ok {
		return nil
	}

	return append([]T(nil), e.values...)
}

func get[T comparable]() (*enum[T], bool) {
	managerLock.RLock()
	defer managerLock.RUnlock()

	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT)]
	if !ok {
		return nil, false
	}

	return e.(*enum[T]), true
}
