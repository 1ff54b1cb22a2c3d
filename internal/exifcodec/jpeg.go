// Package exifcodec moves EXIF data between JPEG files and metadata.Block.
package exifcodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrNoExif is returned when a JPEG carries no EXIF APP1 segment.
	ErrNoExif = errors.New("no EXIF segment")
	// ErrNotJPEG is returned for data that does not start with SOI.
	ErrNotJPEG = errors.New("not a JPEG file")
	// ErrMalformed wraps structural errors in JPEG or TIFF data.
	ErrMalformed = errors.New("malformed EXIF data")
)

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1

	// maxSegmentPayload is the largest payload a 16-bit segment length allows.
	maxSegmentPayload = 0xFFFF - 2
)

var exifHeader = []byte("Exif\x00\x00")

type segment struct {
	marker byte
	start  int // offset of the first 0xFF byte
	body   int // offset of the payload, past the length field
	end    int // offset just past the payload
}

func (s segment) payload(data []byte) []byte { return data[s.body:s.end] }

// segments lists the marker segments before the scan data.
func segments(data []byte) ([]segment, error) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, ErrNotJPEG
	}

	var out []segment
	i := 2
	for i < len(data) {
		if data[i] != 0xFF {
			return nil, fmt.Errorf("%w: expected marker at offset %d", ErrMalformed, i)
		}
		start := i
		for i < len(data) && data[i] == 0xFF {
			i++
		}
		if i >= len(data) {
			break
		}
		marker := data[i]
		i++

		if marker == markerSOS || marker == markerEOI {
			break
		}
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			continue
		}
		if i+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated segment at offset %d", ErrMalformed, start)
		}
		length := int(binary.BigEndian.Uint16(data[i:]))
		if length < 2 || i+length > len(data) {
			return nil, fmt.Errorf("%w: bad segment length %d at offset %d", ErrMalformed, length, start)
		}
		out = append(out, segment{marker: marker, start: start, body: i + 2, end: i + length})
		i += length
	}
	return out, nil
}

func findExif(data []byte) (segment, bool, error) {
	segs, err := segments(data)
	if err != nil {
		return segment{}, false, err
	}
	for _, s := range segs {
		if s.marker == markerAPP1 && bytes.HasPrefix(s.payload(data), exifHeader) {
			return s, true, nil
		}
	}
	return segment{}, false, nil
}

// ExtractTIFF returns the TIFF structure stored in the EXIF APP1 segment.
func ExtractTIFF(jpeg []byte) ([]byte, error) {
	s, ok, err := findExif(jpeg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoExif
	}
	return s.payload(jpeg)[len(exifHeader):], nil
}

// ReplaceTIFF returns a copy of jpeg whose EXIF APP1 segment holds tiff. A
// missing segment is inserted after SOI, or after a leading APP0 (JFIF).
func ReplaceTIFF(jpeg, tiff []byte) ([]byte, error) {
	payloadLen := len(exifHeader) + len(tiff)
	if payloadLen > maxSegmentPayload {
		return nil, fmt.Errorf("EXIF data too large for one segment: %d bytes", payloadLen)
	}

	segs, err := segments(jpeg)
	if err != nil {
		return nil, err
	}

	start, end := 2, 2
	found := false
	for _, s := range segs {
		if s.marker == markerAPP1 && bytes.HasPrefix(s.payload(jpeg), exifHeader) {
			start, end = s.start, s.end
			found = true
			break
		}
	}
	if !found && len(segs) > 0 && segs[0].marker == markerAPP0 {
		start, end = segs[0].end, segs[0].end
	}

	app1 := make([]byte, 0, 4+payloadLen)
	app1 = append(app1, 0xFF, markerAPP1)
	app1 = binary.BigEndian.AppendUint16(app1, uint16(payloadLen+2))
	app1 = append(app1, exifHeader...)
	app1 = append(app1, tiff...)

	out := make([]byte, 0, len(jpeg)-(end-start)+len(app1))
	out = append(out, jpeg[:start]...)
	out = append(out, app1...)
	out = append(out, jpeg[end:]...)
	return out, nil
}
