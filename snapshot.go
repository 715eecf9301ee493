package regfile

// Snapshot is a frozen register word captured by Entry.Read. It shares the
// register definition but never touches the transport: all accessors work
// on the captured value.
type Snapshot struct {
	reg   *Register
	value uint64
}

func (s *Snapshot) Name() string { return s.reg.name }

// Value returns the captured register word.
func (s *Snapshot) Value() uint64 { return s.value }

// IsZero reports whether the captured word is zero.
func (s *Snapshot) IsZero() bool { return s.value == 0 }

// Field extracts the named field from the captured word.
func (s *Snapshot) Field(name string) (uint64, error) {
	f, err := s.reg.Field(name)
	if err != nil {
		return 0, err
	}
	return f.Extract(s.value), nil
}

// Values returns every field's value, keyed by name.
func (s *Snapshot) Values() map[string]uint64 {
	return s.reg.Decompose(s.value)
}

// String renders the canonical dump format, fields in declaration order:
//
//	Register <name>: {'<field>': 0x<value>, ...} = 0x<word>
func (s *Snapshot) String() string {
	return s.reg.format(s.value)
}
