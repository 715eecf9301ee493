// Package rfdev provides ready-made transport implementations for regfile:
// an in-memory word store, subword-capable adapters and string-command
// bridges to external debuggers or simulator consoles.
package rfdev

// Mem is a map-backed word device. It is the simulation endpoint used in
// examples and doubles as the counting mock transport in tests.
type Mem struct {
	Cells map[uint64]uint64

	// Fill is returned for addresses that were never written.
	Fill uint64

	// WordBytes is the block-transfer stride (default 4).
	WordBytes int

	ReadCount  int
	WriteCount int

	// FailReads and FailWrites, when non-nil, fail the corresponding
	// operation without touching state or counters. Used to exercise
	// transport error propagation.
	FailReads  error
	FailWrites error
}

func NewMem() *Mem {
	return &Mem{Cells: make(map[uint64]uint64)}
}

func (m *Mem) wordBytes() int {
	if m.WordBytes == 0 {
		return 4
	}
	return m.WordBytes
}

func (m *Mem) Read(addr uint64) (uint64, error) {
	if m.FailReads != nil {
		return 0, m.FailReads
	}
	m.ReadCount++
	if v, ok := m.Cells[addr]; ok {
		return v, nil
	}
	return m.Fill, nil
}

func (m *Mem) Write(addr, value uint64) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.WriteCount++
	m.Cells[addr] = value
	return nil
}

func (m *Mem) ReadBlock(addr uint64, n int) ([]uint64, error) {
	values := make([]uint64, n)
	for i := range values {
		v, err := m.Read(addr + uint64(i*m.wordBytes()))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (m *Mem) WriteBlock(addr uint64, values []uint64) error {
	for i, v := range values {
		if err := m.Write(addr+uint64(i*m.wordBytes()), v); err != nil {
			return err
		}
	}
	return nil
}
