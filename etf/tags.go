package etf

// Version is the single leading byte that prefixes every encoded ETF term.
const Version byte = 131

// Tag identifies the payload shape that follows a term's leading byte.
// Values match the external term format used by the gateway when ETF
// encoding is negotiated (spec §4.1).
type Tag byte

const (
	TagNewFloat    Tag = 70
	TagSmallInt    Tag = 97
	TagInt         Tag = 98
	TagAtom        Tag = 100
	TagSmallTuple  Tag = 104
	TagLargeTuple  Tag = 105
	TagNil         Tag = 106
	TagString      Tag = 107
	TagList        Tag = 108
	TagBinary      Tag = 109
	TagSmallBig    Tag = 110
	TagLargeBig    Tag = 111
	TagSmallAtom   Tag = 115
	TagMap         Tag = 116
	TagAtomUTF8    Tag = 118
	TagSmallAtomU8 Tag = 119
)
