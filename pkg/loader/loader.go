// Package loader unpacks a little-endian byte stream into a QCPU memory
// image, the contract spec.md §4.5/§6 describes: word i of the input
// equals (bytes[2i+1]<<8) | bytes[2i], the same little-endian 16-bit word
// layout the eBPF-VM reference repo in the example pack uses for its own
// instruction stream, here read with encoding/binary instead of by hand.
package loader

import (
	"encoding/binary"
	"fmt"
)

// ErrOddLength is returned when the input byte stream has odd length.
var ErrOddLength = fmt.Errorf("loader: program length must be a multiple of 2")

// Load decodes data into mem, starting at address 0. Cells past the
// decoded words are left untouched (NewMachine already zeroes them).
// Returns ErrOddLength for an odd-length input, matching spec.md §4.5's
// MalformedProgram condition.
func Load(mem []uint16, data []byte) error {
	if len(data)%2 != 0 {
		return ErrOddLength
	}
	words := len(data) / 2
	if words > len(mem) {
		return fmt.Errorf("loader: program has %d words, memory holds %d", words, len(mem))
	}
	for i := 0; i < words; i++ {
		mem[i] = binary.LittleEndian.Uint16(data[i*2 : i*2+2])
	}
	return nil
}

// Encode is the inverse of Load: it packs words into a little-endian byte
// stream matching the layout Load expects, used by cmd/qcpu's assemble
// command to write pkg/asm's output as a binary file.
func Encode(words []uint16) []byte {
	out := make([]byte, len(words)*2)
	for i, w := range words {
		binary.LittleEndian.PutUint16(out[i*2:i*2+2], w)
	}
	return out
}
