package metadata

import "fmt"

// IFD names a sub-block of the metadata container. The set is closed; the
// codec drops anything that does not map onto one of these.
type IFD int

const (
	IFD0 IFD = iota
	IFDExif
	IFDGPS
	IFDInterop
	IFD1
)

// AllIFDs lists the sub-blocks in the order they are serialized.
var AllIFDs = []IFD{IFD0, IFDExif, IFDGPS, IFDInterop, IFD1}

func (i IFD) String() string {
	switch i {
	case IFD0:
		return "IFD0"
	case IFDExif:
		return "Exif"
	case IFDGPS:
		return "GPS"
	case IFDInterop:
		return "Interop"
	case IFD1:
		return "IFD1"
	default:
		return fmt.Sprintf("IFD(%d)", int(i))
	}
}

// DataType is a TIFF field type.
type DataType uint16

const (
	TypeByte      DataType = 1
	TypeASCII     DataType = 2
	TypeShort     DataType = 3
	TypeLong      DataType = 4
	TypeRational  DataType = 5
	TypeSByte     DataType = 6
	TypeUndefined DataType = 7
	TypeSShort    DataType = 8
	TypeSLong     DataType = 9
	TypeSRational DataType = 10
	TypeFloat     DataType = 11
	TypeDouble    DataType = 12
)

// Size returns the byte size of one value of the type, or 0 if unknown.
func (t DataType) Size() int {
	switch t {
	case TypeByte, TypeASCII, TypeSByte, TypeUndefined:
		return 1
	case TypeShort, TypeSShort:
		return 2
	case TypeLong, TypeSLong, TypeFloat:
		return 4
	case TypeRational, TypeSRational, TypeDouble:
		return 8
	default:
		return 0
	}
}

// Tag is a TIFF/EXIF tag id. Only tags the geotagger reads or writes are named;
// everything else travels through untouched as raw entries.
type Tag uint16

// Structural tags. The codec resolves them on read and regenerates them on write,
// so they never appear in a Block.
const (
	TagThumbnailOffset   Tag = 0x0201
	TagThumbnailLength   Tag = 0x0202
	TagExifIFDPointer    Tag = 0x8769
	TagGPSIFDPointer     Tag = 0x8825
	TagInteropIFDPointer Tag = 0xA005
)

const (
	TagDateTime          Tag = 0x0132
	TagDateTimeOriginal  Tag = 0x9003
	TagDateTimeDigitized Tag = 0x9004
	TagSceneType         Tag = 0xA301

	TagGPSVersionID    Tag = 0x0000
	TagGPSLatitudeRef  Tag = 0x0001
	TagGPSLatitude     Tag = 0x0002
	TagGPSLongitudeRef Tag = 0x0003
	TagGPSLongitude    Tag = 0x0004
	TagGPSAltitudeRef  Tag = 0x0005
	TagGPSAltitude     Tag = 0x0006
)

// IsPointer reports whether t is a structural tag owned by the codec.
func (t Tag) IsPointer(ifd IFD) bool {
	switch ifd {
	case IFD0:
		return t == TagExifIFDPointer || t == TagGPSIFDPointer
	case IFDExif:
		return t == TagInteropIFDPointer
	case IFD1:
		return t == TagThumbnailOffset || t == TagThumbnailLength
	}
	return false
}

// Field describes a known tag: where it lives and how it is typed.
type Field struct {
	IFD  IFD
	Tag  Tag
	Name string
	Type DataType
}

var knownFields = []Field{
	{IFD0, TagDateTime, "DateTime", TypeASCII},
	{IFDExif, TagDateTimeOriginal, "DateTimeOriginal", TypeASCII},
	{IFDExif, TagDateTimeDigitized, "DateTimeDigitized", TypeASCII},
	{IFDExif, TagSceneType, "SceneType", TypeUndefined},
	{IFDGPS, TagGPSVersionID, "GPSVersionID", TypeByte},
	{IFDGPS, TagGPSLatitudeRef, "GPSLatitudeRef", TypeASCII},
	{IFDGPS, TagGPSLatitude, "GPSLatitude", TypeRational},
	{IFDGPS, TagGPSLongitudeRef, "GPSLongitudeRef", TypeASCII},
	{IFDGPS, TagGPSLongitude, "GPSLongitude", TypeRational},
	{IFDGPS, TagGPSAltitudeRef, "GPSAltitudeRef", TypeByte},
	{IFDGPS, TagGPSAltitude, "GPSAltitude", TypeRational},
}

// LookupField returns the description of a known tag. Unknown tags report false
// and are never interpreted.
func LookupField(ifd IFD, tag Tag) (Field, bool) {
	for _, f := range knownFields {
		if f.IFD == ifd && f.Tag == tag {
			return f, true
		}
	}
	return Field{}, false
}
