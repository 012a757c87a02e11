package types

import (
	"encoding/json"
	"fmt"
)

// enum is implemented by the closed enumerations of this module so they encode as their
// canonical names in packets, store records and genesis files.
type enum interface {
	~int32
	String() string
}

func marshalEnum[T enum](v T, names map[T]string) ([]byte, error) {
	name, ok := names[v]
	if !ok {
		return nil, fmt.Errorf("unknown enum value %d", int32(v))
	}
	return json.Marshal(name)
}

func unmarshalEnum[T enum](bz []byte, names map[T]string) (T, error) {
	var name string
	if err := json.Unmarshal(bz, &name); err != nil {
		return 0, err
	}
	for v, n := range names {
		if n == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown enum name %q", name)
}

func enumString[T enum](v T, names map[T]string) string {
	if name, ok := names[v]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int32(v))
}
