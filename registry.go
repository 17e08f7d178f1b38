package recordkit

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Codec converts between a raw value and a custom typed value.
//
// Decode and Encode must be inverses on the valid raw domain:
// Encode(Decode(x)) == x. Typed values should retain their raw form so that
// re-encoding never reconstructs it from derived state.
type Codec interface {
	ID() string
	// Type is the Go type produced by Decode. Struct fields of this type
	// resolve to a Codec shape.
	Type() reflect.Type
	Decode(raw any) (any, error)
	Encode(v any) (any, error)
}

// NewCodec adapts a pair of typed functions into a Codec.
func NewCodec[T any](id string, decode func(raw any) (T, error), encode func(T) (any, error)) Codec {
	return funcCodec[T]{id: id, dec: decode, enc: encode}
}

type funcCodec[T any] struct {
	id  string
	dec func(any) (T, error)
	enc func(T) (any, error)
}

func (c funcCodec[T]) ID() string         { return c.id }
func (c funcCodec[T]) Type() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

func (c funcCodec[T]) Decode(raw any) (any, error) {
	v, err := c.dec(raw)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c funcCodec[T]) Encode(v any) (any, error) {
	t, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("codec %s: cannot encode %T", c.id, v)
	}
	return c.enc(t)
}

var _codecs = struct {
	sync.RWMutex
	byID   map[string]Codec
	byType map[reflect.Type]Codec
}{
	byID:   map[string]Codec{},
	byType: map[reflect.Type]Codec{},
}

// RegisterCodec adds c to the process-wide registry. The registry is
// append-only: registering an id or a Go type twice is an error. Register
// codecs before resolving types that use them.
func RegisterCodec(c Codec) error {
	if c == nil || c.ID() == "" {
		return fmt.Errorf("recordkit: codec must have a non-empty id")
	}
	t := c.Type()
	_codecs.Lock()
	defer _codecs.Unlock()
	if _, dup := _codecs.byID[c.ID()]; dup {
		return fmt.Errorf("recordkit: codec %q already registered", c.ID())
	}
	if t != nil {
		if prev, dup := _codecs.byType[t]; dup {
			return fmt.Errorf("recordkit: type %s already handled by codec %q", t, prev.ID())
		}
		_codecs.byType[t] = c
	}
	_codecs.byID[c.ID()] = c
	log().Debug().Str("codec", c.ID()).Stringer("type", t).Msg("codec registered")
	return nil
}

// MustRegisterCodec is like RegisterCodec but panics on error. Intended for
// package init.
func MustRegisterCodec(c Codec) {
	if err := RegisterCodec(c); err != nil {
		panic(err)
	}
}

// LookupCodec returns the codec registered under id.
func LookupCodec(id string) (Codec, bool) {
	_codecs.RLock()
	defer _codecs.RUnlock()
	c, ok := _codecs.byID[id]
	return c, ok
}

// CodecIDs lists registered codec ids in lexical order.
func CodecIDs() []string {
	_codecs.RLock()
	ids := make([]string, 0, len(_codecs.byID))
	for id := range _codecs.byID {
		ids = append(ids, id)
	}
	_codecs.RUnlock()
	sort.Strings(ids)
	return ids
}

func codecByType(t reflect.Type) (Codec, bool) {
	_codecs.RLock()
	defer _codecs.RUnlock()
	c, ok := _codecs.byType[t]
	return c, ok
}
