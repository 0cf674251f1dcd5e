// Package jsonconv transcodes JSON documents to CBOR.
// Arrays and objects are counted first so that every container
// is written with a definite length.
package jsonconv

import (
	"bytes"
	"math/big"

	"github.com/buger/jsonparser"
	"github.com/chaisql/borabora/internal/builder"
	"github.com/cockroachdb/errors"
)

// Encode writes the JSON document data with w.
func Encode(w *builder.ValueWriter, data []byte) error {
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return errors.Wrap(err, "invalid json")
	}

	return encodeValue(w, dataType, value)
}

func encodeValue(w *builder.ValueWriter, dataType jsonparser.ValueType, data []byte) error {
	switch dataType {
	case jsonparser.Null:
		return w.PutNull()
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(data)
		if err != nil {
			return err
		}
		return w.PutBool(b)
	case jsonparser.Number:
		return encodeNumber(w, data)
	case jsonparser.String:
		s, err := jsonparser.ParseString(data)
		if err != nil {
			return err
		}
		return w.PutText(s)
	case jsonparser.Array:
		return encodeArray(w, data)
	case jsonparser.Object:
		return encodeObject(w, data)
	}

	return errors.Errorf("unexpected json value %q", data)
}

func encodeNumber(w *builder.ValueWriter, data []byte) error {
	i, err := jsonparser.ParseInt(data)
	if err == nil {
		return w.PutInt(i)
	}

	// integers too big for an int64 become big numbers
	if !bytes.ContainsAny(data, ".eE") {
		x, ok := new(big.Int).SetString(string(data), 10)
		if ok {
			if x.IsUint64() {
				return w.PutUint(x.Uint64())
			}
			return w.PutBigInt(x)
		}
	}

	f, err := jsonparser.ParseFloat(data)
	if err != nil {
		return err
	}
	return w.PutFloat64(f)
}

func encodeArray(w *builder.ValueWriter, data []byte) error {
	var n int64
	_, err := jsonparser.ArrayEach(data, func(_ []byte, _ jsonparser.ValueType, _ int, err error) {
		n++
	})
	if err != nil {
		return err
	}

	seq, err := w.PutSequence(n)
	if err != nil {
		return err
	}

	var werr error
	_, err = jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if werr != nil {
			return
		}
		werr = encodeValue(&seq.ValueWriter, dataType, value)
	})
	if err != nil {
		return err
	}
	if werr != nil {
		return werr
	}

	return seq.End()
}

func encodeObject(w *builder.ValueWriter, data []byte) error {
	var n int64
	err := jsonparser.ObjectEach(data, func(_, _ []byte, _ jsonparser.ValueType, _ int) error {
		n++
		return nil
	})
	if err != nil {
		return err
	}

	dict, err := w.PutDictionary(n)
	if err != nil {
		return err
	}

	err = jsonparser.ObjectEach(data, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		entry, err := dict.PutEntry()
		if err != nil {
			return err
		}

		k, err := jsonparser.ParseString(key)
		if err != nil {
			return err
		}
		if err := entry.PutText(k); err != nil {
			return err
		}
		if err := encodeValue(&entry.ValueWriter, dataType, value); err != nil {
			return err
		}
		return entry.End()
	})
	if err != nil {
		return err
	}

	return dict.End()
}
