// Package perfdata decodes the HotSpot instrumentation buffer that every
// JVM publishes under <tmpdir>/hsperfdata_<user>/<pid>.
package perfdata

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// Magic starts every buffer and is always stored big-endian.
	Magic uint32 = 0xcafec0c0

	prologueSize    = 32
	entryHeaderSize = 20

	orderBig    = 0
	orderLittle = 1
)

// Type tags of counter entries.
const (
	TypeLong byte = 'J'
	TypeByte byte = 'B'
)

// Units of a counter value.
type Units byte

const (
	UnitsNone Units = iota + 1
	UnitsBytes
	UnitsTicks
	UnitsEvents
	UnitsString
	UnitsHertz
)

// Variability of a counter value.
type Variability byte

const (
	Constant Variability = iota + 1
	Monotonic
	Variable
)

// ErrCorrupt is returned for buffers that cannot be decoded.
var ErrCorrupt = errors.New("perfdata: corrupt buffer")

// Prologue is the fixed header of a buffer.
type Prologue struct {
	ByteOrder    binary.ByteOrder
	Major        byte
	Minor        byte
	Accessible   bool
	Used         int32
	ModTimeStamp int64
	EntryOffset  int32
	NumEntries   int32
}

// Value is a decoded counter.
type Value struct {
	Name        string
	Type        byte
	Units       Units
	Variability Variability
	Long        int64
	Str         string
}

// IsString reports whether the counter holds a byte-vector string.
func (v Value) IsString() bool {
	return v.Type == TypeByte
}

// Counters maps counter names to values.
type Counters map[string]Value

// Long returns the numeric counter name, or def when it is absent or not numeric.
func (c Counters) Long(name string, def int64) int64 {
	v, ok := c[name]
	if !ok || v.IsString() {
		return def
	}
	return v.Long
}

// String returns the string counter name.
func (c Counters) String(name string) (string, bool) {
	v, ok := c[name]
	if !ok || !v.IsString() {
		return "", false
	}
	return v.Str, true
}

// ReadPrologue decodes the buffer header.
func ReadPrologue(buf []byte) (Prologue, error) {
	var p Prologue
	if len(buf) < prologueSize {
		return p, fmt.Errorf("%w: %d bytes is shorter than the prologue", ErrCorrupt, len(buf))
	}
	if magic := binary.BigEndian.Uint32(buf[0:4]); magic != Magic {
		return p, fmt.Errorf("%w: bad magic 0x%x", ErrCorrupt, magic)
	}
	switch buf[4] {
	case orderBig:
		p.ByteOrder = binary.BigEndian
	case orderLittle:
		p.ByteOrder = binary.LittleEndian
	default:
		return p, fmt.Errorf("%w: unknown byte order %d", ErrCorrupt, buf[4])
	}
	p.Major = buf[5]
	p.Minor = buf[6]
	p.Accessible = buf[7] != 0
	p.Used = int32(p.ByteOrder.Uint32(buf[8:12]))
	p.ModTimeStamp = int64(p.ByteOrder.Uint64(buf[16:24]))
	p.EntryOffset = int32(p.ByteOrder.Uint32(buf[24:28]))
	p.NumEntries = int32(p.ByteOrder.Uint32(buf[28:32]))
	if p.Major != 2 {
		return p, fmt.Errorf("%w: unsupported version %d.%d", ErrCorrupt, p.Major, p.Minor)
	}
	return p, nil
}

// Parse decodes every counter in buf. The returned values do not alias buf.
func Parse(buf []byte) (Counters, error) {
	p, err := ReadPrologue(buf)
	if err != nil {
		return nil, err
	}
	if p.NumEntries < 0 || p.EntryOffset < prologueSize {
		return nil, fmt.Errorf("%w: bad entry table (offset %d, entries %d)", ErrCorrupt, p.EntryOffset, p.NumEntries)
	}

	order := p.ByteOrder
	counters := make(Counters, p.NumEntries)
	off := int(p.EntryOffset)
	for i := 0; i < int(p.NumEntries); i++ {
		if off+entryHeaderSize > len(buf) {
			return nil, fmt.Errorf("%w: entry %d header out of range", ErrCorrupt, i)
		}
		entryLen := int(int32(order.Uint32(buf[off:])))
		nameOff := int(int32(order.Uint32(buf[off+4:])))
		vecLen := int(int32(order.Uint32(buf[off+8:])))
		dataOff := int(int32(order.Uint32(buf[off+16:])))
		if entryLen < entryHeaderSize || off+entryLen > len(buf) ||
			nameOff < entryHeaderSize || nameOff >= entryLen ||
			dataOff < entryHeaderSize || dataOff > entryLen || vecLen < 0 {
			return nil, fmt.Errorf("%w: entry %d malformed", ErrCorrupt, i)
		}
		entry := buf[off : off+entryLen]

		v := Value{
			Name:        cString(entry[nameOff:]),
			Type:        entry[12],
			Units:       Units(entry[14]),
			Variability: Variability(entry[15]),
		}
		data := entry[dataOff:]
		switch {
		case v.Type == TypeLong && vecLen == 0:
			if len(data) < 8 {
				return nil, fmt.Errorf("%w: counter %s truncated", ErrCorrupt, v.Name)
			}
			v.Long = int64(order.Uint64(data))
		case v.Type == TypeByte && vecLen > 0:
			if len(data) < vecLen {
				return nil, fmt.Errorf("%w: counter %s truncated", ErrCorrupt, v.Name)
			}
			v.Str = cString(data[:vecLen])
		default:
			// Vectors of longs are not published by any counter we read.
			off += entryLen
			continue
		}
		counters[v.Name] = v
		off += entryLen
	}
	return counters, nil
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
