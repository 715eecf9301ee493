package regfile_test

import (
	"errors"
	"testing"

	"regfile"
)

func TestFieldExtractInsert(t *testing.T) {
	fields := []regfile.Field{
		{Name: "lo", Offset: 0, Width: 1},
		{Name: "mid", Offset: 4, Width: 8},
		{Name: "hi", Offset: 28, Width: 4},
		{Name: "wide", Offset: 0, Width: 64},
	}
	words := []uint64{0, 0xFFFFFFFFFFFFFFFF, 0xA5A5A5A5, 0x123456789ABCDEF0}

	for _, f := range fields {
		for _, word := range words {
			for _, v := range []uint64{0, 1, f.Mask() >> f.Offset} {
				got, err := f.Insert(word, v)
				if err != nil {
					t.Fatalf("%s: Insert(%#x, %#x): %v", f.Name, word, v, err)
				}
				if f.Extract(got) != v {
					t.Errorf("%s: Extract(Insert(%#x, %#x)) = %#x, want %#x",
						f.Name, word, v, f.Extract(got), v)
				}
				if outside := got &^ f.Mask(); outside != word&^f.Mask() {
					t.Errorf("%s: Insert(%#x, %#x) disturbed bits outside the field: %#x",
						f.Name, word, v, outside)
				}
			}
		}
	}
}

func TestFieldInsertRange(t *testing.T) {
	f := regfile.Field{Name: "nibble", Offset: 8, Width: 4}

	word, err := f.Insert(0xFFFF, 16)
	if !errors.Is(err, regfile.ErrValueRange) {
		t.Fatalf("Insert(0xFFFF, 16): err = %v, want ErrValueRange", err)
	}
	if word != 0xFFFF {
		t.Fatalf("failed Insert must return the word unchanged, got %#x", word)
	}
}

func TestFieldConstraints(t *testing.T) {
	t.Run("range", func(t *testing.T) {
		f := regfile.Field{Name: "count", Offset: 0, Width: 8, Constraint: regfile.Range{Min: 1, Max: 100}}
		if err := f.Validate(50); err != nil {
			t.Fatalf("Validate(50): %v", err)
		}
		if err := f.Validate(0); !errors.Is(err, regfile.ErrValueRange) {
			t.Fatalf("Validate(0): err = %v, want ErrValueRange", err)
		}
		if err := f.Validate(101); !errors.Is(err, regfile.ErrValueRange) {
			t.Fatalf("Validate(101): err = %v, want ErrValueRange", err)
		}
	})

	t.Run("enum", func(t *testing.T) {
		f := regfile.Field{Name: "mode", Offset: 0, Width: 4, Constraint: regfile.Enum{0, 2, 7}}
		if err := f.Validate(7); err != nil {
			t.Fatalf("Validate(7): %v", err)
		}
		if err := f.Validate(3); !errors.Is(err, regfile.ErrValueRange) {
			t.Fatalf("Validate(3): err = %v, want ErrValueRange", err)
		}
	})

	t.Run("width check precedes constraint", func(t *testing.T) {
		f := regfile.Field{Name: "mode", Offset: 0, Width: 2, Constraint: regfile.Enum{0, 1}}
		if err := f.Validate(9); !errors.Is(err, regfile.ErrValueRange) {
			t.Fatalf("Validate(9): err = %v, want ErrValueRange", err)
		}
	})
}
