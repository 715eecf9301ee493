package regfile

import (
	"fmt"

	"regfile/log"
)

// Entry is the live access handle for one register, bound to the owning
// Regfile's device. Entries are created fresh on every lookup and are cheap;
// retain one across calls to keep its staged (desired) value around.
//
// Transport cost of each operation, when the register is not cached:
// GetField is one read; SetField and WriteUpdate are one read plus one
// write; Overwrite, WriteValue and Update are a single write, never
// preceded by a read. A cached register drops the read from all of these.
// Read always issues a fresh transport read and re-arms the cache.
type Entry struct {
	rf  *Regfile
	reg *Register

	// desired is the staged value for the UVM-style surface (FieldAccess.Set
	// followed by Update). It starts at the cached value when one exists,
	// else at the register reset value.
	desired uint64
}

func (e *Entry) Name() string        { return e.reg.name }
func (e *Entry) Register() *Register { return e.reg }

// Addr returns the register address relative to the regfile base.
func (e *Entry) Addr() uint64 { return e.reg.addr }

// AbsAddr returns the absolute device address of the register.
func (e *Entry) AbsAddr() uint64 { return e.rf.base + e.reg.addr }

// readWord issues exactly one transport read and refreshes the cache.
func (e *Entry) readWord() (uint64, error) {
	value, err := e.rf.dev.Read(e.AbsAddr())
	if err != nil {
		return 0, err
	}
	if trunc := value & e.reg.fullMask(); trunc != value {
		log.ModRegfile.WarnZ("read value wider than register").
			String("reg", e.reg.name).
			Hex64("val", value).
			Int("width", int64(e.reg.width)).
			End()
		value = trunc
	}
	log.ModRegfile.DebugZ("read entry").
		String("reg", e.reg.name).
		Hex64("addr", e.AbsAddr()).
		Hex64("val", value).
		End()
	e.reg.setCache(value)
	e.desired = value
	return value, nil
}

// currentWord returns the cached word when the register is CACHED, else
// performs one transport read.
func (e *Entry) currentWord() (uint64, error) {
	if e.reg.cached {
		return e.reg.value, nil
	}
	return e.readWord()
}

func (e *Entry) logWrite(value, mask uint64) {
	log.ModRegfile.DebugZ("write entry").
		String("reg", e.reg.name).
		Hex64("addr", e.AbsAddr()).
		Hex64("val", value).
		Hex64("mask", mask).
		End()
}

// writeThrough commits value under mask without any preceding read: the
// overwrite paths, where bits outside the given fields are deliberately
// zero. A MaskedWriter device takes the mask as-is.
func (e *Entry) writeThrough(value, mask uint64) error {
	mask &= e.reg.fullMask()
	value &= mask
	e.logWrite(value, mask)

	if mw, ok := e.rf.dev.(MaskedWriter); ok {
		if err := mw.WriteMasked(e.AbsAddr(), value, mask, e.reg.writeMask); err != nil {
			return err
		}
		e.settle(value, mask, false)
		return nil
	}
	if err := e.rf.dev.Write(e.AbsAddr(), value); err != nil {
		return err
	}
	e.settle(value, mask, false)
	return nil
}

// writeRMW merges value under mask into the current word: exactly one read
// (or cache reuse) followed by exactly one write. A MaskedWriter device
// takes over the merge instead, and no read is issued at all.
func (e *Entry) writeRMW(value, mask uint64) error {
	mask &= e.reg.fullMask()
	value &= mask
	e.logWrite(value, mask)

	if mw, ok := e.rf.dev.(MaskedWriter); ok {
		if err := mw.WriteMasked(e.AbsAddr(), value, mask, e.reg.writeMask); err != nil {
			return err
		}
		e.settle(value, mask, false)
		return nil
	}
	cur, err := e.currentWord()
	if err != nil {
		return err
	}
	word := cur&^mask | value
	if err := e.rf.dev.Write(e.AbsAddr(), word); err != nil {
		return err
	}
	e.settle(word, mask, true)
	return nil
}

// settle reconciles cache and desired state after a successful write of
// value under mask. merged tells whether value already carries the rest of
// the word (built from a known current value).
func (e *Entry) settle(value, mask uint64, merged bool) {
	switch {
	case merged || mask == e.reg.fullMask():
		e.reg.setCache(value)
		e.desired = value
	case e.reg.cached:
		word := e.reg.value&^mask | value&mask
		e.reg.setCache(word)
		e.desired = word
	default:
		// bits outside the mask are unknown on the device side
		e.reg.invalidate()
	}
}

func (e *Entry) warnReadonly(f *Field) {
	if mask := f.Mask(); mask&e.reg.writeMask != mask {
		log.ModRegfile.WarnZ("writing read-only field").
			String("reg", e.reg.name).
			String("field", f.Name).
			Hex64("write_mask", e.reg.writeMask).
			End()
	}
}

// GetField returns the named field's value, reusing the cached word when the
// register is CACHED and issuing exactly one transport read otherwise.
func (e *Entry) GetField(name string) (uint64, error) {
	f, err := e.reg.Field(name)
	if err != nil {
		return 0, err
	}
	word, err := e.currentWord()
	if err != nil {
		return 0, err
	}
	return f.Extract(word), nil
}

// SetField writes one field, preserving every other: a read-modify-write
// pair, or a single write when the register is CACHED. The value is
// validated before any transport operation.
func (e *Entry) SetField(name string, value uint64) error {
	f, err := e.reg.Field(name)
	if err != nil {
		return err
	}
	if err := f.Validate(value); err != nil {
		return err
	}
	e.warnReadonly(f)
	return e.writeRMW(value<<f.Offset, f.Mask())
}

// WriteUpdate batches several field writes into a single read-modify-write
// pair: one read (or cache reuse) and one write, for any number of fields.
// It is all-or-nothing: every name and value is validated before the first
// transport operation, so a failure leaves device and cache untouched.
// An empty map is a no-op.
func (e *Entry) WriteUpdate(fields map[string]uint64) error {
	if len(fields) == 0 {
		return nil
	}
	var mask, value uint64
	for name, v := range fields {
		f, err := e.reg.Field(name)
		if err != nil {
			return err
		}
		if err := f.Validate(v); err != nil {
			return err
		}
		e.warnReadonly(f)
		mask |= f.Mask()
		value |= v << f.Offset
	}
	return e.writeRMW(value, mask)
}

// Overwrite writes the register from the given field values alone: a single
// transport write, no read. Writable fields that are not named are written
// as zero (and warned about); read-only fields are ignored. Use WriteUpdate
// to preserve unnamed fields instead. The choice between the two is always
// the caller's, never inferred from how many fields the map covers.
func (e *Entry) Overwrite(fields map[string]uint64) error {
	var value uint64
	named := make(map[string]bool, len(fields))
	for name, v := range fields {
		f, err := e.reg.Field(name)
		if err != nil {
			return err
		}
		if err := f.Validate(v); err != nil {
			return err
		}
		named[name] = true
		if mask := f.Mask(); mask&e.reg.writeMask != mask {
			log.ModRegfile.WarnZ("ignoring read-only field in overwrite").
				String("reg", e.reg.name).
				String("field", name).
				End()
			continue
		}
		value |= v << f.Offset
	}
	for _, name := range e.reg.WritableFieldNames() {
		if !named[name] {
			log.ModRegfile.WarnZ("field not set in overwrite, writing zero").
				String("reg", e.reg.name).
				String("field", name).
				End()
		}
	}
	return e.writeThrough(value, e.reg.writeMask)
}

// Read issues one transport read and returns a frozen snapshot of the word.
// Field accesses on the snapshot never touch the transport again.
func (e *Entry) Read() (*Snapshot, error) {
	word, err := e.readWord()
	if err != nil {
		return nil, err
	}
	return &Snapshot{reg: e.reg, value: word}, nil
}

// ReadValue returns the whole register word, reusing the cache when valid.
func (e *Entry) ReadValue() (uint64, error) {
	return e.currentWord()
}

// WriteValue writes the full register word in a single transport write.
// Values wider than the register are truncated with a warning.
func (e *Entry) WriteValue(value uint64) error {
	full := e.reg.fullMask()
	if trunc := value & full; trunc != value {
		log.ModRegfile.WarnZ("value truncated to register width").
			String("reg", e.reg.name).
			Hex64("val", value).
			Hex64("mask", full).
			End()
		value = trunc
	}
	return e.writeThrough(value, full)
}

// Dict returns every field's value, keyed by name. Like GetField it reuses
// the cached word when one is held.
func (e *Entry) Dict() (map[string]uint64, error) {
	word, err := e.currentWord()
	if err != nil {
		return nil, err
	}
	return e.reg.Decompose(word), nil
}

// IsZero reports whether the whole register reads as zero.
func (e *Entry) IsZero() (bool, error) {
	word, err := e.currentWord()
	if err != nil {
		return false, err
	}
	return word == 0, nil
}

// Invalidate drops the register cache; the next access re-reads the device.
func (e *Entry) Invalidate() {
	e.reg.invalidate()
}

// String reads the register (cache-aware) and renders the canonical dump
// format. Prefer Snapshot.String when a frozen value is wanted.
func (e *Entry) String() string {
	word, err := e.currentWord()
	if err != nil {
		return fmt.Sprintf("Register %s: <read failed: %v>", e.reg.name, err)
	}
	return e.reg.format(word)
}

// UVM-style surface. Set and FieldAccess.Set stage bits into the entry's
// desired value; Update pushes it to the device in one write.

// Set stages a desired value for the whole register.
func (e *Entry) Set(value uint64) {
	e.desired = value & e.reg.fullMask()
}

// Get returns the staged desired value.
func (e *Entry) Get() uint64 {
	return e.desired
}

// Mirrored returns the register's cached value, when the register is CACHED.
func (e *Entry) Mirrored() (uint64, bool) {
	if !e.reg.cached {
		return 0, false
	}
	return e.reg.value, true
}

// NeedsUpdate reports whether the desired value differs from the mirrored
// one (or the mirror is unknown).
func (e *Entry) NeedsUpdate() bool {
	return !e.reg.cached || e.reg.value != e.desired
}

// Update writes the desired value to the device in a single write.
func (e *Entry) Update() error {
	return e.writeThrough(e.desired&e.reg.writeMask, e.reg.writeMask)
}

// Reset restores the declared reset value as both desired and mirrored
// state. No transport operation happens: the caller asserts the device
// itself has been reset.
func (e *Entry) Reset() {
	e.desired = e.reg.reset
	e.reg.setCache(e.reg.reset)
}

// Field returns the UVM-style handle for one field.
func (e *Entry) Field(name string) (*FieldAccess, error) {
	f, err := e.reg.Field(name)
	if err != nil {
		return nil, err
	}
	return &FieldAccess{entry: e, field: f}, nil
}

// FieldAccess is the per-field view over an Entry: Get reads the live field
// value, Set stages it into the entry's desired value for a later Update.
type FieldAccess struct {
	entry *Entry
	field *Field
}

func (fa *FieldAccess) Name() string { return fa.field.Name }

func (fa *FieldAccess) Get() (uint64, error) {
	return fa.entry.GetField(fa.field.Name)
}

func (fa *FieldAccess) Set(value uint64) error {
	if err := fa.field.Validate(value); err != nil {
		return err
	}
	fa.entry.warnReadonly(fa.field)
	fa.entry.desired = fa.entry.desired&^fa.field.Mask() | value<<fa.field.Offset
	return nil
}
