package metadata

import (
	"encoding/binary"

	"github.com/jengzang/geotag-backend-go/internal/coord"
	"github.com/jengzang/geotag-backend-go/internal/models"
)

var gpsVersion = []byte{2, 0, 0, 0}

const (
	// altitudeRef is written unconditionally.
	altitudeRef byte = 1

	// sceneTypeSentinel is forced into Exif SceneType on every write. Some phones
	// store a SceneType that breaks re-encoding of the Exif sub-block.
	sceneTypeSentinel byte = '1'
)

// WriteFix returns a copy of b with the GPS sub-block replaced by fix and the
// Exif SceneType set to the sentinel. All other sub-blocks are copied unchanged.
// b itself is not modified.
func WriteFix(b *Block, fix models.Fix) *Block {
	out := b.Clone()
	out.SetIFD(IFDGPS, GPSEntries(out.ByteOrder, fix))
	out.Set(IFDExif, NewBytes(TagSceneType, TypeUndefined, []byte{sceneTypeSentinel}))
	return out
}

// GPSEntries encodes fix as a GPS sub-block, in ascending tag order.
func GPSEntries(order binary.ByteOrder, fix models.Fix) []Entry {
	lat := coord.ToDMS(fix.Latitude, coord.Latitude)
	lon := coord.ToDMS(fix.Longitude, coord.Longitude)
	latR := lat.Rationals()
	lonR := lon.Rationals()

	// RATIONAL is unsigned; the magnitude is stored.
	alt := coord.AltitudeRational(fix.Elevation)
	if alt.Num < 0 {
		alt.Num = -alt.Num
	}

	return []Entry{
		NewBytes(TagGPSVersionID, TypeByte, gpsVersion),
		NewASCII(TagGPSLatitudeRef, lat.Ref),
		NewRationals(order, TagGPSLatitude, latR[:]...),
		NewASCII(TagGPSLongitudeRef, lon.Ref),
		NewRationals(order, TagGPSLongitude, lonR[:]...),
		NewBytes(TagGPSAltitudeRef, TypeByte, []byte{altitudeRef}),
		NewRationals(order, TagGPSAltitude, alt),
	}
}
