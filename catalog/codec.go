package catalog

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrUnknownKind is returned when a kind has no registered constructor.
	// It signals a wiring mistake, never bad user input.
	ErrUnknownKind = errors.New("catalog: unknown entity kind")

	// ErrMalformedRecord is returned when a record lacks a required field
	// or cannot be parsed. Callers treat the record as absent.
	ErrMalformedRecord = errors.New("catalog: malformed record")
)

// constructors is the static kind registry used for decoding.
var constructors = map[Kind]func() Entity{
	KindFilm:   func() Entity { return &Film{} },
	KindGenre:  func() Entity { return &Genre{} },
	KindPerson: func() Entity { return &Person{} },
}

// New returns an empty entity of the given kind.
func New(kind Kind) (Entity, error) {
	ctor, ok := constructors[kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", string(kind))
	}
	return ctor(), nil
}

// DecodeSource decodes a raw index document (the JSON `_source` object).
func DecodeSource(kind Kind, raw []byte) (Entity, error) {
	return decode(kind, raw, json.Unmarshal, true)
}

// DecodeSources decodes a sequence of raw index documents, keeping their order.
// Malformed records are skipped and reported through the returned count.
func DecodeSources(kind Kind, raws [][]byte) ([]Entity, int, error) {
	out := make([]Entity, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		e, err := DecodeSource(kind, raw)
		if err != nil {
			if errors.Is(err, ErrMalformedRecord) {
				skipped++
				continue
			}
			return nil, skipped, err
		}
		out = append(out, e)
	}
	return out, skipped, nil
}

// EncodeCached serializes a single entity for the cache store.
func EncodeCached(e Entity) ([]byte, error) {
	data, err := msgpack.Marshal(e)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: encode %s", e.EntityKind())
	}
	return data, nil
}

// EncodeCachedList serializes an ordered list of entities for the cache store.
func EncodeCachedList[T Entity](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	data, err := msgpack.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, "catalog: encode list")
	}
	return data, nil
}

// DecodeCached decodes a payload written by EncodeCached.
func DecodeCached(kind Kind, data []byte) (Entity, error) {
	return decode(kind, data, msgpack.Unmarshal, false)
}

// DecodeCachedList decodes a payload written by EncodeCachedList.
// Unlike DecodeSources a single bad element fails the whole payload,
// since the cache only ever holds lists this package produced.
func DecodeCachedList(kind Kind, data []byte) ([]Entity, error) {
	if _, err := New(kind); err != nil {
		return nil, err
	}

	var raws []msgpack.RawMessage
	if err := msgpack.Unmarshal(data, &raws); err != nil {
		return nil, errors.Wrapf(ErrMalformedRecord, "%s list: %v", kind, err)
	}

	out := make([]Entity, 0, len(raws))
	for _, raw := range raws {
		e, err := DecodeCached(kind, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// As converts a decoded entity to its concrete type.
func As[T Entity](e Entity) (T, error) {
	typed, ok := e.(T)
	if !ok {
		var zero T
		return zero, errors.Wrapf(ErrUnknownKind, "cannot use %s as %T", e.EntityKind(), zero)
	}
	return typed, nil
}

// sourceChecker is implemented by entities whose index documents must
// carry fields that normalize would otherwise fill in.
type sourceChecker interface {
	checkSource() error
}

func decode(kind Kind, data []byte, unmarshal func([]byte, any) error, source bool) (Entity, error) {
	e, err := New(kind)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.Wrapf(ErrMalformedRecord, "%s: empty payload", kind)
	}
	if err := unmarshal(data, e); err != nil {
		return nil, errors.Wrapf(ErrMalformedRecord, "%s: %v", kind, err)
	}
	if sc, ok := e.(sourceChecker); ok && source {
		if err := sc.checkSource(); err != nil {
			return nil, err
		}
	}
	if err := e.normalize(); err != nil {
		return nil, err
	}
	return e, nil
}
