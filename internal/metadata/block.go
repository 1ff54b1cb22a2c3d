// Package metadata models the EXIF container as a set of typed sub-blocks and
// rewrites the GPS sub-block of a photo.
package metadata

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/jengzang/geotag-backend-go/internal/coord"
)

// Entry is one field of a sub-block. Value holds the raw bytes in the block's
// byte order, exactly as read.
type Entry struct {
	Tag   Tag
	Type  DataType
	Count uint32
	Value []byte
}

// Equal reports whether two entries are byte-identical.
func (e Entry) Equal(o Entry) bool {
	return e.Tag == o.Tag && e.Type == o.Type && e.Count == o.Count && bytes.Equal(e.Value, o.Value)
}

func (e Entry) clone() Entry {
	e.Value = append([]byte(nil), e.Value...)
	return e
}

// ASCII returns the value up to the first NUL, trimmed.
func (e Entry) ASCII() string {
	v := e.Value
	if i := bytes.IndexByte(v, 0); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(string(v))
}

// Rationals decodes an unsigned RATIONAL entry.
func (e Entry) Rationals(order binary.ByteOrder) ([]coord.Rational, error) {
	if e.Type != TypeRational {
		return nil, fmt.Errorf("tag 0x%04x: type %d is not RATIONAL", uint16(e.Tag), e.Type)
	}
	if len(e.Value) < int(e.Count)*8 {
		return nil, fmt.Errorf("tag 0x%04x: %d bytes for %d rationals", uint16(e.Tag), len(e.Value), e.Count)
	}
	out := make([]coord.Rational, e.Count)
	for i := range out {
		off := i * 8
		out[i] = coord.Rational{
			Num: int64(order.Uint32(e.Value[off:])),
			Den: int64(order.Uint32(e.Value[off+4:])),
		}
	}
	return out, nil
}

// NewASCII builds a NUL-terminated ASCII entry.
func NewASCII(tag Tag, s string) Entry {
	v := append([]byte(s), 0)
	return Entry{Tag: tag, Type: TypeASCII, Count: uint32(len(v)), Value: v}
}

// NewBytes builds a BYTE or UNDEFINED entry.
func NewBytes(tag Tag, typ DataType, b []byte) Entry {
	return Entry{Tag: tag, Type: typ, Count: uint32(len(b)), Value: append([]byte(nil), b...)}
}

// NewRationals builds an unsigned RATIONAL entry. Values must be non-negative.
func NewRationals(order binary.ByteOrder, tag Tag, rs ...coord.Rational) Entry {
	v := make([]byte, 8*len(rs))
	for i, r := range rs {
		order.PutUint32(v[i*8:], uint32(r.Num))
		order.PutUint32(v[i*8+4:], uint32(r.Den))
	}
	return Entry{Tag: tag, Type: TypeRational, Count: uint32(len(rs)), Value: v}
}

// Block is a parsed metadata container: sub-blocks of raw entries, the byte
// order they are encoded in, and the IFD1 thumbnail if any.
type Block struct {
	ByteOrder binary.ByteOrder
	Thumbnail []byte

	ifds map[IFD][]Entry
}

// NewBlock returns an empty block using order.
func NewBlock(order binary.ByteOrder) *Block {
	if order == nil {
		order = binary.BigEndian
	}
	return &Block{ByteOrder: order, ifds: make(map[IFD][]Entry)}
}

// Has reports whether the sub-block exists.
func (b *Block) Has(ifd IFD) bool {
	_, ok := b.ifds[ifd]
	return ok
}

// IFDs lists the present sub-blocks in serialization order.
func (b *Block) IFDs() []IFD {
	var out []IFD
	for _, ifd := range AllIFDs {
		if b.Has(ifd) {
			out = append(out, ifd)
		}
	}
	return out
}

// Entries returns the entries of a sub-block in stored order.
func (b *Block) Entries(ifd IFD) []Entry {
	return b.ifds[ifd]
}

// Get returns the entry for tag in ifd.
func (b *Block) Get(ifd IFD, tag Tag) (Entry, bool) {
	for _, e := range b.ifds[ifd] {
		if e.Tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// Field returns a known field only if it is stored with its expected type.
func (b *Block) Field(ifd IFD, tag Tag) (Entry, bool) {
	f, ok := LookupField(ifd, tag)
	if !ok {
		return Entry{}, false
	}
	e, ok := b.Get(ifd, tag)
	if !ok || e.Type != f.Type {
		return Entry{}, false
	}
	return e, true
}

// Set replaces the entry with the same tag or appends it, creating the
// sub-block if needed.
func (b *Block) Set(ifd IFD, e Entry) {
	if b.ifds == nil {
		b.ifds = make(map[IFD][]Entry)
	}
	entries := b.ifds[ifd]
	for i := range entries {
		if entries[i].Tag == e.Tag {
			entries[i] = e
			return
		}
	}
	b.ifds[ifd] = append(entries, e)
}

// SetIFD replaces a whole sub-block.
func (b *Block) SetIFD(ifd IFD, entries []Entry) {
	if b.ifds == nil {
		b.ifds = make(map[IFD][]Entry)
	}
	b.ifds[ifd] = entries
}

// DeleteIFD removes a sub-block.
func (b *Block) DeleteIFD(ifd IFD) {
	delete(b.ifds, ifd)
}

// Clone returns a deep copy.
func (b *Block) Clone() *Block {
	out := NewBlock(b.ByteOrder)
	if b.Thumbnail != nil {
		out.Thumbnail = append([]byte(nil), b.Thumbnail...)
	}
	for ifd, entries := range b.ifds {
		cp := make([]Entry, len(entries))
		for i, e := range entries {
			cp[i] = e.clone()
		}
		out.ifds[ifd] = cp
	}
	return out
}
