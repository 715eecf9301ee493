package regfile

import (
	"fmt"
	"strings"
)

// RegisterDef declares one addressable register word: its location, width,
// write mask and ordered field layout. Declaration order of Fields is
// significant: it drives display and dict ordering.
type RegisterDef struct {
	Name string
	Addr uint64

	// Width in bits, at most 64. Zero means DefaultWidth.
	Width uint

	// WriteMask marks the writable bits. Zero means "all bits writable".
	// Bits outside the mask are read-only from this layer's perspective:
	// writing a field that touches them is logged, not rejected.
	WriteMask uint64

	// Volatile disables caching for this register: every access issues a
	// fresh transport read.
	Volatile bool

	Fields []Field
}

// DefaultWidth applies to RegisterDefs that leave Width at zero.
const DefaultWidth = 32

// Register is the runtime form of a RegisterDef, owned by a Regfile. It
// carries the register's last known device value (the cache), which entries
// keep in sync on every read and write.
type Register struct {
	name      string
	addr      uint64
	width     uint
	writeMask uint64
	volatile  bool
	reset     uint64

	fields []Field
	index  map[string]int

	// cache state: EMPTY (cached == false) or CACHED.
	cached bool
	value  uint64
}

func newRegister(def RegisterDef) (*Register, error) {
	width := def.Width
	if width == 0 {
		width = DefaultWidth
	}
	if width > 64 {
		return nil, fmt.Errorf("%w: register %s: width %d exceeds 64 bits", ErrDefinition, def.Name, width)
	}
	full := maskBits(width, 0)

	writeMask := def.WriteMask & full
	if def.WriteMask == 0 {
		writeMask = full
	}

	reg := &Register{
		name:      def.Name,
		addr:      def.Addr,
		width:     width,
		writeMask: writeMask,
		volatile:  def.Volatile,
		fields:    make([]Field, len(def.Fields)),
		index:     make(map[string]int, len(def.Fields)),
	}

	var occupied uint64
	for i, f := range def.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: register %s: unnamed field", ErrDefinition, def.Name)
		}
		if f.Width == 0 {
			return nil, fmt.Errorf("%w: register %s: field %s has zero width", ErrDefinition, def.Name, f.Name)
		}
		if f.Offset+f.Width > width {
			return nil, fmt.Errorf("%w: register %s: field %s spans [%d, %d), register is %d bits wide",
				ErrDefinition, def.Name, f.Name, f.Offset, f.Offset+f.Width, width)
		}
		if _, dup := reg.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: register %s: duplicate field %s", ErrDefinition, def.Name, f.Name)
		}
		mask := f.Mask()
		if occupied&mask != 0 {
			return nil, fmt.Errorf("%w: register %s: field %s overlaps a previous field", ErrDefinition, def.Name, f.Name)
		}
		occupied |= mask

		if f.Reset > maskBits(f.Width, 0) {
			return nil, fmt.Errorf("%w: register %s: field %s reset 0x%x exceeds %d bits",
				ErrDefinition, def.Name, f.Name, f.Reset, f.Width)
		}
		reg.reset |= f.Reset << f.Offset

		reg.fields[i] = f
		reg.index[f.Name] = i
	}
	return reg, nil
}

func (r *Register) Name() string      { return r.name }
func (r *Register) Addr() uint64      { return r.addr }
func (r *Register) Width() uint       { return r.width }
func (r *Register) WriteMask() uint64 { return r.writeMask }
func (r *Register) ResetValue() uint64 {
	return r.reset
}

// Fields returns the register's fields in declaration order.
func (r *Register) Fields() []Field {
	return r.fields
}

// Field looks up a field by name.
func (r *Register) Field(name string) (*Field, error) {
	i, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no field %s (fields: %s)",
			ErrUnknownField, r.name, name, strings.Join(r.fieldNames(), ", "))
	}
	return &r.fields[i], nil
}

// FieldNames returns the field names in declaration order.
func (r *Register) FieldNames() []string {
	return r.fieldNames()
}

func (r *Register) fieldNames() []string {
	names := make([]string, len(r.fields))
	for i := range r.fields {
		names[i] = r.fields[i].Name
	}
	return names
}

// WritableFieldNames returns the names of fields fully covered by the
// register write mask, in declaration order.
func (r *Register) WritableFieldNames() []string {
	var names []string
	for i := range r.fields {
		if mask := r.fields[i].Mask(); mask&r.writeMask == mask {
			names = append(names, r.fields[i].Name)
		}
	}
	return names
}

func (r *Register) fullMask() uint64 {
	return maskBits(r.width, 0)
}

// Compose builds a register word from field values, with every unnamed bit
// at zero. Unknown names and out-of-range values are rejected before any
// bit is placed.
func (r *Register) Compose(fields map[string]uint64) (uint64, error) {
	var word uint64
	for name, value := range fields {
		f, err := r.Field(name)
		if err != nil {
			return 0, err
		}
		word, err = f.Insert(word, value)
		if err != nil {
			return 0, err
		}
	}
	return word, nil
}

// Decompose extracts every field value from a register word.
func (r *Register) Decompose(word uint64) map[string]uint64 {
	values := make(map[string]uint64, len(r.fields))
	for i := range r.fields {
		values[r.fields[i].Name] = r.fields[i].Extract(word)
	}
	return values
}

// format renders a register value in the canonical dump format, with fields
// in declaration order:
//
//	Register <name>: {'<field>': 0x<value>, ...} = 0x<word>
//
// Tooling parses this output, so the format must not change.
func (r *Register) format(word uint64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Register %s: {", r.name)
	for i := range r.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "'%s': 0x%x", r.fields[i].Name, r.fields[i].Extract(word))
	}
	fmt.Fprintf(&sb, "} = 0x%x", word)
	return sb.String()
}

// Cache state transitions. Entries call these; they are not part of the
// public surface.

func (r *Register) setCache(v uint64) {
	if r.volatile {
		return
	}
	r.value = v
	r.cached = true
}

func (r *Register) invalidate() {
	r.cached = false
}
