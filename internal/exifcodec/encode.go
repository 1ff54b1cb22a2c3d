package exifcodec

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/jengzang/geotag-backend-go/internal/metadata"
)

type ifdLayout struct {
	ifd     metadata.IFD
	entries []metadata.Entry
	offset  uint32
}

func (l *ifdLayout) size() uint32 {
	n := uint32(2 + len(l.entries)*ifdEntrySize + 4)
	for _, e := range l.entries {
		if len(e.Value) > 4 {
			n += padded(len(e.Value))
		}
	}
	return n
}

func (l *ifdLayout) setPointer(order binary.ByteOrder, tag metadata.Tag, v uint32) {
	for i := range l.entries {
		if l.entries[i].Tag == tag {
			order.PutUint32(l.entries[i].Value, v)
			return
		}
	}
}

func padded(n int) uint32 {
	return uint32(n + n%2)
}

func pointerEntry(tag metadata.Tag) metadata.Entry {
	return metadata.Entry{Tag: tag, Type: metadata.TypeLong, Count: 1, Value: make([]byte, 4)}
}

// Encode serializes a Block into a TIFF structure, regenerating the pointer
// tags. IFDs are written in the order IFD0, Exif, GPS, Interop, IFD1, followed
// by the thumbnail.
func Encode(b *metadata.Block) ([]byte, error) {
	order := b.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}

	layouts := make(map[metadata.IFD]*ifdLayout)
	add := func(ifd metadata.IFD, extra ...metadata.Entry) {
		entries := make([]metadata.Entry, 0, len(b.Entries(ifd))+len(extra))
		for _, e := range b.Entries(ifd) {
			if e.Tag.IsPointer(ifd) {
				continue
			}
			entries = append(entries, e)
		}
		entries = append(entries, extra...)
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Tag < entries[j].Tag })
		layouts[ifd] = &ifdLayout{ifd: ifd, entries: entries}
	}

	hasExif := b.Has(metadata.IFDExif) || b.Has(metadata.IFDInterop)
	hasIFD1 := b.Has(metadata.IFD1) || len(b.Thumbnail) > 0

	var ifd0Extra []metadata.Entry
	if hasExif {
		ifd0Extra = append(ifd0Extra, pointerEntry(metadata.TagExifIFDPointer))
	}
	if b.Has(metadata.IFDGPS) {
		ifd0Extra = append(ifd0Extra, pointerEntry(metadata.TagGPSIFDPointer))
	}
	add(metadata.IFD0, ifd0Extra...)

	if hasExif {
		var extra []metadata.Entry
		if b.Has(metadata.IFDInterop) {
			extra = append(extra, pointerEntry(metadata.TagInteropIFDPointer))
		}
		add(metadata.IFDExif, extra...)
	}
	if b.Has(metadata.IFDGPS) {
		add(metadata.IFDGPS)
	}
	if b.Has(metadata.IFDInterop) {
		add(metadata.IFDInterop)
	}
	if hasIFD1 {
		var extra []metadata.Entry
		if len(b.Thumbnail) > 0 {
			length := pointerEntry(metadata.TagThumbnailLength)
			order.PutUint32(length.Value, uint32(len(b.Thumbnail)))
			extra = append(extra, pointerEntry(metadata.TagThumbnailOffset), length)
		}
		add(metadata.IFD1, extra...)
	}

	for _, l := range layouts {
		if len(l.entries) > 0xFFFF {
			return nil, fmt.Errorf("%s: too many entries (%d)", l.ifd, len(l.entries))
		}
	}

	off := uint32(tiffHeaderSize)
	var ordered []*ifdLayout
	for _, ifd := range metadata.AllIFDs {
		l, ok := layouts[ifd]
		if !ok {
			continue
		}
		l.offset = off
		off += l.size()
		ordered = append(ordered, l)
	}
	thumbOffset := off
	total := off + uint32(len(b.Thumbnail))

	if l, ok := layouts[metadata.IFDExif]; ok {
		layouts[metadata.IFD0].setPointer(order, metadata.TagExifIFDPointer, l.offset)
	}
	if l, ok := layouts[metadata.IFDGPS]; ok {
		layouts[metadata.IFD0].setPointer(order, metadata.TagGPSIFDPointer, l.offset)
	}
	if l, ok := layouts[metadata.IFDInterop]; ok {
		layouts[metadata.IFDExif].setPointer(order, metadata.TagInteropIFDPointer, l.offset)
	}
	if l, ok := layouts[metadata.IFD1]; ok && len(b.Thumbnail) > 0 {
		l.setPointer(order, metadata.TagThumbnailOffset, thumbOffset)
	}

	buf := make([]byte, total)
	if order == binary.LittleEndian {
		copy(buf, "II")
	} else {
		copy(buf, "MM")
	}
	order.PutUint16(buf[2:], tiffMagic)
	order.PutUint32(buf[4:], tiffHeaderSize)

	for _, l := range ordered {
		var next uint32
		if l.ifd == metadata.IFD0 {
			if ifd1, ok := layouts[metadata.IFD1]; ok {
				next = ifd1.offset
			}
		}
		writeIFD(buf, order, l, next)
	}
	copy(buf[thumbOffset:], b.Thumbnail)
	return buf, nil
}

func writeIFD(buf []byte, order binary.ByteOrder, l *ifdLayout, next uint32) {
	p := l.offset
	order.PutUint16(buf[p:], uint16(len(l.entries)))
	p += 2

	data := l.offset + uint32(2+len(l.entries)*ifdEntrySize+4)
	for _, e := range l.entries {
		order.PutUint16(buf[p:], uint16(e.Tag))
		order.PutUint16(buf[p+2:], uint16(e.Type))
		order.PutUint32(buf[p+4:], e.Count)
		if len(e.Value) <= 4 {
			copy(buf[p+8:p+12], e.Value)
		} else {
			order.PutUint32(buf[p+8:], data)
			copy(buf[data:], e.Value)
			data += padded(len(e.Value))
		}
		p += ifdEntrySize
	}
	order.PutUint32(buf[p:], next)
}
