package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/topicscan/core"
)

// Field order: Id, Lang, Word, Vector (length + raw float32s), InsertedAt (unix micro).

func sizeWordVector(wv *core.WordVector) int {
	size := varint.Uint64.Size(uint64(wv.Id))
	size += ord.String.Size(string(wv.Lang))
	size += ord.String.Size(wv.Word)
	size += varint.Int.Size(len(wv.Vector))
	for _, f := range wv.Vector {
		size += raw.Float32.Size(f)
	}
	size += varint.Int64.Size(wv.InsertedAt.UnixMicro())
	return size
}

// MarshalWordVector encodes a WordVector with mus serializers.
func MarshalWordVector(wv *core.WordVector) []byte {
	buf := make([]byte, sizeWordVector(wv))
	n := varint.Uint64.Marshal(uint64(wv.Id), buf)
	n += ord.String.Marshal(string(wv.Lang), buf[n:])
	n += ord.String.Marshal(wv.Word, buf[n:])
	n += varint.Int.Marshal(len(wv.Vector), buf[n:])
	for _, f := range wv.Vector {
		n += raw.Float32.Marshal(f, buf[n:])
	}
	varint.Int64.Marshal(wv.InsertedAt.UnixMicro(), buf[n:])
	return buf
}

// UnmarshalWordVector decodes data produced by MarshalWordVector.
func UnmarshalWordVector(data []byte) (*core.WordVector, error) {
	var (
		wv  core.WordVector
		n   int
		err error
	)

	id, m, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrSerializationFailed, err)
	}
	wv.Id = core.ID(id)
	n += m

	lang, m, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: lang: %w", ErrSerializationFailed, err)
	}
	wv.Lang = core.Language(lang)
	n += m

	wv.Word, m, err = ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: word: %w", ErrSerializationFailed, err)
	}
	n += m

	length, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	n += m
	if length < 0 || length > (len(data)-n)/4 {
		return nil, fmt.Errorf("%w: vector of %d components", ErrTruncatedData, length)
	}

	wv.Vector = make([]float32, length)
	for i := range wv.Vector {
		wv.Vector[i], m, err = raw.Float32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: vector component %d: %w", ErrSerializationFailed, i, err)
		}
		n += m
	}

	micros, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: inserted at: %w", ErrSerializationFailed, err)
	}
	wv.InsertedAt = time.UnixMicro(micros).UTC()

	return &wv, nil
}
