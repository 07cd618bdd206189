package ps

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nickyhof/RowDB/core"
)

// Row payload layout:
//
//	uvarint value count
//	per value: tag byte, then
//	  0 Integer  zig-zag varint
//	  1 Text     uvarint length + UTF-8 bytes
//	  2 Real     8 bytes little-endian IEEE-754
//	  3 Null     nothing
const (
	tagInteger byte = 0
	tagText    byte = 1
	tagReal    byte = 2
	tagNull    byte = 3
)

func EncodeRow(row core.Row) ([]byte, error) {
	buf := make([]byte, 0, binary.MaxVarintLen64+len(row)*(1+binary.MaxVarintLen64))
	buf = binary.AppendUvarint(buf, uint64(len(row)))

	for i, value := range row {
		switch value.Kind {
		case core.IntegerValue:
			buf = append(buf, tagInteger)
			buf = binary.AppendVarint(buf, value.Int)
		case core.TextValue:
			buf = append(buf, tagText)
			buf = binary.AppendUvarint(buf, uint64(len(value.Text)))
			buf = append(buf, value.Text...)
		case core.RealValue:
			buf = append(buf, tagReal)
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(value.Real))
		case core.NullValue:
			buf = append(buf, tagNull)
		default:
			return nil, fmt.Errorf("cannot encode value %d: unknown kind %s", i, value.Kind)
		}
	}

	return buf, nil
}

func DecodeRow(data []byte) (core.Row, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad value count", ErrCorruptRow)
	}
	// every value takes at least its tag byte
	if count > uint64(len(data)-n) {
		return nil, fmt.Errorf("%w: value count %d exceeds payload", ErrCorruptRow, count)
	}

	row := make(core.Row, 0, count)
	offset := n
	for i := uint64(0); i < count; i++ {
		if offset >= len(data) {
			return nil, fmt.Errorf("%w: truncated at value %d", ErrCorruptRow, i)
		}
		tag := data[offset]
		offset++

		switch tag {
		case tagInteger:
			v, n := binary.Varint(data[offset:])
			if n <= 0 {
				return nil, fmt.Errorf("%w: bad integer at value %d", ErrCorruptRow, i)
			}
			offset += n
			row = append(row, core.Integer(v))
		case tagText:
			length, n := binary.Uvarint(data[offset:])
			if n <= 0 {
				return nil, fmt.Errorf("%w: bad text length at value %d", ErrCorruptRow, i)
			}
			offset += n
			if length > uint64(len(data)-offset) {
				return nil, fmt.Errorf("%w: truncated text at value %d", ErrCorruptRow, i)
			}
			row = append(row, core.Text(string(data[offset:offset+int(length)])))
			offset += int(length)
		case tagReal:
			if len(data)-offset < 8 {
				return nil, fmt.Errorf("%w: truncated real at value %d", ErrCorruptRow, i)
			}
			row = append(row, core.Real(math.Float64frombits(binary.LittleEndian.Uint64(data[offset:]))))
			offset += 8
		case tagNull:
			row = append(row, core.Null())
		default:
			return nil, fmt.Errorf("%w: unknown tag %d at value %d", ErrCorruptRow, tag, i)
		}
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptRow, len(data)-offset)
	}
	return row, nil
}
