package pagesort

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

var (
	_ Codec[[]byte] = new(BytesCodec)
	_ Codec[string] = new(StringCodec)
	_ Codec[uint64] = new(Uint64Codec)
	_ Codec[uint64] = new(DecimalCodec)
)

// Codec turns values into record bytes. The sorter orders records byte-wise,
// so a codec decides how its values end up ordered.
type Codec[T any] interface {
	Unmarshal(data []byte, v *T) error
	Marshal(v *T) ([]byte, error)
}

type BytesCodec struct{}

func (b BytesCodec) Unmarshal(data []byte, v *[]byte) error {
	*v = data
	return nil
}

func (b BytesCodec) Marshal(v *[]byte) ([]byte, error) {
	return *v, nil
}

// StringCodec stores a string as is and strips the NUL padding on the way back.
type StringCodec struct{}

func (s StringCodec) Unmarshal(data []byte, v *string) error {
	*v = Record(data).String()
	return nil
}

func (s StringCodec) Marshal(v *string) ([]byte, error) {
	return []byte(*v), nil
}

// Uint64Codec stores big endian integers, whose byte order is numeric order.
type Uint64Codec struct{}

func (u Uint64Codec) Unmarshal(data []byte, v *uint64) error {
	if len(data) < 8 {
		return fmt.Errorf("uint64 needs 8 bytes, got %d", len(data))
	}
	*v = binary.BigEndian.Uint64(data)
	return nil
}

func (u Uint64Codec) Marshal(v *uint64) (b []byte, err error) {
	b = binary.BigEndian.AppendUint64(b, *v)
	return
}

// DecimalCodec stores integers as decimal text zero padded to Width digits,
// so that they sort numerically while staying readable.
type DecimalCodec struct {
	Width int
}

func (d DecimalCodec) Unmarshal(data []byte, v *uint64) (err error) {
	*v, err = strconv.ParseUint(Record(data).String(), 10, 64)
	return
}

func (d DecimalCodec) Marshal(v *uint64) ([]byte, error) {
	s := strconv.FormatUint(*v, 10)
	if len(s) > d.Width && d.Width > 0 {
		return nil, fmt.Errorf("%d does not fit in %d digits", *v, d.Width)
	}
	return fmt.Appendf(nil, "%0*d", d.Width, *v), nil
}

// EncodeRecord marshals v into a record.
func EncodeRecord[T any](c Codec[T], v T) (Record, error) {
	b, err := c.Marshal(&v)
	if err != nil {
		return nil, err
	}
	return Record(b), nil
}

// DecodeRecord unmarshals a record produced by EncodeRecord.
func DecodeRecord[T any](c Codec[T], r Record) (v T, err error) {
	err = c.Unmarshal(r, &v)
	return
}
