package machine

import "github.com/okian/calibra/internal/domain/session"

// vectorOffsets are the fixed per-dimension offsets applied to the
// transcript checksum. Distinct values keep the derivation auditable per
// dimension; the same transcript always yields the same vector.
var vectorOffsets = [session.VectorDimensions]uint32{5, 11, 17, 23, 31, 41}

// EncodeVector folds the transcript into a position-weighted unsigned
// 32-bit checksum and derives each dimension as (checksum+offset) mod 3.
func EncodeVector(transcript string) session.Vector {
	var sum uint32
	for i, r := range []rune(transcript) {
		sum += uint32(r) * uint32(i+1)
	}

	var v session.Vector
	for i, off := range vectorOffsets {
		v[i] = int((sum + off) % 3)
	}
	return v
}
