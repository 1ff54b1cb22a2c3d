package exifcodec

import (
	"encoding/binary"
	"fmt"

	"github.com/jengzang/geotag-backend-go/internal/metadata"
)

const (
	tiffHeaderSize = 8
	ifdEntrySize   = 12
	tiffMagic      = 42
)

type reader struct {
	data  []byte
	order binary.ByteOrder
	seen  map[uint32]bool
}

// Decode parses a TIFF structure into a Block. Pointer tags are followed and
// dropped; every other entry is kept with its raw value bytes.
func Decode(tiff []byte) (*metadata.Block, error) {
	if len(tiff) < tiffHeaderSize {
		return nil, fmt.Errorf("%w: short TIFF header", ErrMalformed)
	}

	var order binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil, fmt.Errorf("%w: unknown byte order %q", ErrMalformed, tiff[:2])
	}
	if order.Uint16(tiff[2:]) != tiffMagic {
		return nil, fmt.Errorf("%w: bad TIFF magic", ErrMalformed)
	}

	r := &reader{data: tiff, order: order, seen: make(map[uint32]bool)}
	b := metadata.NewBlock(order)

	next, err := r.load(b, metadata.IFD0, order.Uint32(tiff[4:]))
	if err != nil {
		return nil, err
	}
	if next != 0 {
		if _, err := r.load(b, metadata.IFD1, next); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// load reads one IFD into b, follows its pointer tags and returns the offset
// of the next IFD in the chain.
func (r *reader) load(b *metadata.Block, ifd metadata.IFD, off uint32) (uint32, error) {
	entries, next, err := r.readIFD(off)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ifd, err)
	}

	kept := make([]metadata.Entry, 0, len(entries))
	pointers := make(map[metadata.Tag]uint32)
	for _, e := range entries {
		if e.Tag.IsPointer(ifd) {
			pointers[e.Tag] = r.scalar(e)
			continue
		}
		kept = append(kept, e)
	}
	b.SetIFD(ifd, kept)

	switch ifd {
	case metadata.IFD0:
		if p, ok := pointers[metadata.TagExifIFDPointer]; ok {
			if _, err := r.load(b, metadata.IFDExif, p); err != nil {
				return 0, err
			}
		}
		if p, ok := pointers[metadata.TagGPSIFDPointer]; ok {
			if _, err := r.load(b, metadata.IFDGPS, p); err != nil {
				return 0, err
			}
		}
	case metadata.IFDExif:
		if p, ok := pointers[metadata.TagInteropIFDPointer]; ok {
			if _, err := r.load(b, metadata.IFDInterop, p); err != nil {
				return 0, err
			}
		}
	case metadata.IFD1:
		off, okOff := pointers[metadata.TagThumbnailOffset]
		n, okLen := pointers[metadata.TagThumbnailLength]
		if okOff && okLen {
			end := uint64(off) + uint64(n)
			if end > uint64(len(r.data)) {
				return 0, fmt.Errorf("%w: thumbnail out of range", ErrMalformed)
			}
			b.Thumbnail = append([]byte(nil), r.data[off:end]...)
		}
	}
	return next, nil
}

func (r *reader) readIFD(off uint32) ([]metadata.Entry, uint32, error) {
	if r.seen[off] {
		return nil, 0, fmt.Errorf("%w: IFD loop at offset %d", ErrMalformed, off)
	}
	r.seen[off] = true

	start := uint64(off)
	if start+2 > uint64(len(r.data)) {
		return nil, 0, fmt.Errorf("%w: IFD offset %d out of range", ErrMalformed, off)
	}
	n := uint64(r.order.Uint16(r.data[start:]))
	tableEnd := start + 2 + n*ifdEntrySize
	if tableEnd > uint64(len(r.data)) {
		return nil, 0, fmt.Errorf("%w: IFD at %d declares %d entries past end of data", ErrMalformed, off, n)
	}

	entries := make([]metadata.Entry, 0, n)
	for i := uint64(0); i < n; i++ {
		p := start + 2 + i*ifdEntrySize
		e, err := r.readEntry(r.data[p : p+ifdEntrySize])
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}

	var next uint32
	if tableEnd+4 <= uint64(len(r.data)) {
		next = r.order.Uint32(r.data[tableEnd:])
	}
	return entries, next, nil
}

func (r *reader) readEntry(raw []byte) (metadata.Entry, error) {
	e := metadata.Entry{
		Tag:   metadata.Tag(r.order.Uint16(raw[0:])),
		Type:  metadata.DataType(r.order.Uint16(raw[2:])),
		Count: r.order.Uint32(raw[4:]),
	}
	field := raw[8:12]

	size := e.Type.Size()
	if size == 0 {
		// Unknown type: the length is unknowable, keep the field verbatim.
		e.Value = append([]byte(nil), field...)
		return e, nil
	}

	total := uint64(size) * uint64(e.Count)
	if total <= 4 {
		e.Value = append([]byte(nil), field[:total]...)
		return e, nil
	}
	vo := uint64(r.order.Uint32(field))
	if vo+total > uint64(len(r.data)) {
		return metadata.Entry{}, fmt.Errorf("%w: tag 0x%04x value out of range", ErrMalformed, uint16(e.Tag))
	}
	e.Value = append([]byte(nil), r.data[vo:vo+total]...)
	return e, nil
}

func (r *reader) scalar(e metadata.Entry) uint32 {
	switch {
	case e.Type == metadata.TypeShort && len(e.Value) >= 2:
		return uint32(r.order.Uint16(e.Value))
	case len(e.Value) >= 4:
		return r.order.Uint32(e.Value)
	}
	return 0
}
