package regfile

import "fmt"

// Constraint restricts the values a field accepts, on top of the implicit
// width check. The zero Constraint (nil) accepts any in-width value.
type Constraint interface {
	Check(v uint64) error
}

// Range accepts values in [Min, Max].
type Range struct {
	Min, Max uint64
}

func (r Range) Check(v uint64) error {
	if v < r.Min || v > r.Max {
		return fmt.Errorf("%w: 0x%x not in [0x%x, 0x%x]", ErrValueRange, v, r.Min, r.Max)
	}
	return nil
}

// Enum accepts only the listed values.
type Enum []uint64

func (e Enum) Check(v uint64) error {
	for _, allowed := range e {
		if v == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: 0x%x not an allowed value", ErrValueRange, v)
}

// Field describes one named bit span within a register word. Fields are
// declared as part of a RegisterDef and are immutable once the Regfile is
// built.
type Field struct {
	Name   string
	Offset uint // bit position of the lsb within the register word
	Width  uint // in bits, > 0

	// Reset is the field's value after hardware reset. It contributes to
	// the register reset word.
	Reset uint64

	// Constraint, when non-nil, is checked on every write to the field.
	Constraint Constraint
}

// Mask returns the field's bit span as a mask over the register word.
func (f *Field) Mask() uint64 {
	return maskBits(f.Width, f.Offset)
}

// Extract returns the field's value from a full register word.
func (f *Field) Extract(word uint64) uint64 {
	return word >> f.Offset & maskBits(f.Width, 0)
}

// Insert returns word with the field's bit span replaced by value. Bits
// outside the span are untouched.
func (f *Field) Insert(word, value uint64) (uint64, error) {
	if err := f.Validate(value); err != nil {
		return word, err
	}
	return word&^f.Mask() | value<<f.Offset, nil
}

// Validate checks value against the field width and declared constraint.
func (f *Field) Validate(value uint64) error {
	if max := maskBits(f.Width, 0); value > max {
		return fmt.Errorf("%w: field %s: 0x%x exceeds %d bits", ErrValueRange, f.Name, value, f.Width)
	}
	if f.Constraint != nil {
		if err := f.Constraint.Check(value); err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return nil
}

func (f *Field) String() string {
	return f.Name
}

// maskBits builds a mask of width bits starting at offset. width must be in
// [1, 64] and offset+width must not exceed 64.
func maskBits(width, offset uint) uint64 {
	return ^uint64(0) >> (64 - width) << offset
}
