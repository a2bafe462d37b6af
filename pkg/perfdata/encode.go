package perfdata

import (
	"encoding/binary"
	"time"
)

// Encode lays values out as a version 2.0 buffer in the given byte order.
// It produces the same layout a JVM publishes, so buffers can be written to
// disk and attached to like a live target.
func Encode(values []Value, order binary.ByteOrder) []byte {
	buf := make([]byte, prologueSize)
	binary.BigEndian.PutUint32(buf[0:4], Magic)
	if order == binary.LittleEndian {
		buf[4] = orderLittle
	} else {
		buf[4] = orderBig
	}
	buf[5] = 2
	buf[6] = 0
	buf[7] = 1
	order.PutUint64(buf[16:24], uint64(time.Now().UnixNano()))
	order.PutUint32(buf[24:28], prologueSize)
	order.PutUint32(buf[28:32], uint32(len(values)))

	for _, v := range values {
		buf = append(buf, encodeEntry(v, order)...)
	}
	order.PutUint32(buf[8:12], uint32(len(buf)))
	return buf
}

func encodeEntry(v Value, order binary.ByteOrder) []byte {
	nameOff := entryHeaderSize
	dataOff := align8(nameOff + len(v.Name) + 1)

	var data []byte
	vecLen := 0
	typ := v.Type
	if typ == 0 {
		typ = TypeLong
	}
	if typ == TypeByte {
		data = append([]byte(v.Str), 0)
		vecLen = len(data)
	} else {
		data = make([]byte, 8)
		order.PutUint64(data, uint64(v.Long))
	}
	entryLen := align8(dataOff + len(data))

	entry := make([]byte, entryLen)
	order.PutUint32(entry[0:], uint32(entryLen))
	order.PutUint32(entry[4:], uint32(nameOff))
	order.PutUint32(entry[8:], uint32(vecLen))
	entry[12] = typ
	entry[13] = 0
	units := v.Units
	if units == 0 {
		units = UnitsNone
		if typ == TypeByte {
			units = UnitsString
		}
	}
	entry[14] = byte(units)
	variability := v.Variability
	if variability == 0 {
		variability = Variable
	}
	entry[15] = byte(variability)
	order.PutUint32(entry[16:], uint32(dataOff))
	copy(entry[nameOff:], v.Name)
	copy(entry[dataOff:], data)
	return entry
}

func align8(n int) int {
	return (n + 7) &^ 7
}

// LongValue is a shorthand for a numeric counter.
func LongValue(name string, n int64) Value {
	return Value{Name: name, Type: TypeLong, Long: n}
}

// StringValue is a shorthand for a string counter.
func StringValue(name, s string) Value {
	return Value{Name: name, Type: TypeByte, Str: s, Units: UnitsString, Variability: Constant}
}
