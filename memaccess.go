package regfile

import (
	"fmt"

	"regfile/log"
)

// MemAccess is a word-indexed window over a memory region behind a Device.
// Indexing is word-wise: element i lives at base + i*WordBytes.
type MemAccess struct {
	dev       Device
	base      uint64
	wordBytes int
	size      int // bound in bytes, 0 means unbounded
	words     int
}

type MemOption func(*MemAccess)

// WithWordBytes sets the addressing unit in bytes (default 4).
func WithWordBytes(n int) MemOption {
	return func(m *MemAccess) { m.wordBytes = n }
}

// WithSize bounds the window to size bytes; out-of-range indices fail with
// ErrOutOfBounds instead of reaching the device.
func WithSize(size int) MemOption {
	return func(m *MemAccess) { m.size = size }
}

func NewMemAccess(dev Device, base uint64, opts ...MemOption) *MemAccess {
	m := &MemAccess{dev: dev, base: base, wordBytes: 4}
	for _, opt := range opts {
		opt(m)
	}
	// derive the word bound only once every option has been applied, so
	// WithSize and WithWordBytes compose in any order
	m.words = m.size / m.wordBytes
	return m
}

func (m *MemAccess) Base() uint64   { return m.base }
func (m *MemAccess) WordBytes() int { return m.wordBytes }

func (m *MemAccess) Device() Device       { return m.dev }
func (m *MemAccess) SetDevice(dev Device) { m.dev = dev }

func (m *MemAccess) checkIndex(index, n int) error {
	if index < 0 || (m.words != 0 && index+n > m.words) {
		return fmt.Errorf("%w: index %d (+%d words)", ErrOutOfBounds, index, n-1)
	}
	return nil
}

func (m *MemAccess) addr(index int) uint64 {
	return m.base + uint64(index*m.wordBytes)
}

// ReadWord reads the word at the given index.
func (m *MemAccess) ReadWord(index int) (uint64, error) {
	if err := m.checkIndex(index, 1); err != nil {
		return 0, err
	}
	return m.dev.Read(m.addr(index))
}

// WriteWord writes the word at the given index.
func (m *MemAccess) WriteWord(index int, value uint64) error {
	if err := m.checkIndex(index, 1); err != nil {
		return err
	}
	return m.dev.Write(m.addr(index), value)
}

// ReadBlock reads n consecutive words starting at index, using the device's
// block capability when it has one and word-sized reads otherwise.
func (m *MemAccess) ReadBlock(index, n int) ([]uint64, error) {
	if err := m.checkIndex(index, n); err != nil {
		return nil, err
	}
	log.ModMem.DebugZ("block read").
		Hex64("addr", m.addr(index)).
		Int("words", int64(n)).
		End()
	if br, ok := m.dev.(BlockReader); ok {
		return br.ReadBlock(m.addr(index), n)
	}
	values := make([]uint64, n)
	for i := range values {
		v, err := m.dev.Read(m.addr(index + i))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// WriteBlock writes consecutive words starting at index, using the device's
// block capability when it has one and word-sized writes otherwise.
func (m *MemAccess) WriteBlock(index int, values []uint64) error {
	if err := m.checkIndex(index, len(values)); err != nil {
		return err
	}
	log.ModMem.DebugZ("block write").
		Hex64("addr", m.addr(index)).
		Int("words", int64(len(values))).
		End()
	if bw, ok := m.dev.(BlockWriter); ok {
		return bw.WriteBlock(m.addr(index), values)
	}
	for i, v := range values {
		if err := m.dev.Write(m.addr(index+i), v); err != nil {
			return err
		}
	}
	return nil
}
