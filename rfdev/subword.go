package rfdev

import (
	"regfile"
	"regfile/log"
)

// SubwordWriteFunc stores size bytes at addr. value carries the full
// register word: the callee selects the addressed byte lanes, the way a bus
// with byte-enable strobes does.
type SubwordWriteFunc func(addr uint64, value uint64, size int) error

// Subword adapts a word read plus a subword write into a masked-write
// capable device. Partial writes are narrowed to the smallest aligned
// subword that covers every written bit without clobbering bits that must
// be kept; when no such subword exists it falls back to a full
// read-modify-write.
type Subword struct {
	read      regfile.ReadFunc
	write     SubwordWriteFunc
	wordBytes int
}

func NewSubword(read regfile.ReadFunc, write SubwordWriteFunc, wordBytes int) *Subword {
	return &Subword{read: read, write: write, wordBytes: wordBytes}
}

func (d *Subword) WordBytes() int { return d.wordBytes }

func (d *Subword) Read(addr uint64) (uint64, error) {
	return d.read(addr)
}

func (d *Subword) Write(addr, value uint64) error {
	return d.write(addr, value, d.wordBytes)
}

// WriteMasked implements regfile.MaskedWriter. mask marks the bits being
// written; bits outside writeMask are don't-care and never force a wider
// access.
func (d *Subword) WriteMasked(addr, value, mask, writeMask uint64) error {
	keep := ^mask & writeMask

	// narrow from the full word down to single bytes
	sub := d.wordBytes
	subMask := byteMask(sub)
	for sub > 0 {
		for i := 0; i < d.wordBytes/sub; i++ {
			laneMask := subMask << uint(i*sub*8)
			// no keep bit inside the lane, and every written bit covered?
			if keep&laneMask == 0 && mask&^laneMask == 0 {
				log.ModDevice.DebugZ("subword write").
					Hex64("addr", addr+uint64(i*sub)).
					Hex64("val", value).
					Int("size", int64(sub)).
					End()
				return d.write(addr+uint64(i*sub), value, sub)
			}
		}
		sub /= 2
		subMask >>= uint(sub * 8)
	}

	// no aligned subword fits: full read-modify-write
	cur, err := d.read(addr)
	if err != nil {
		return err
	}
	cur = cur&^mask | value&mask
	return d.write(addr, cur, d.wordBytes)
}

func byteMask(n int) uint64 {
	if n >= 8 {
		return ^uint64(0)
	}
	return 1<<(8*uint(n)) - 1
}
