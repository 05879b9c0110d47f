// Package bitfield packs and unpacks struct fields into integers.
// This is a simplified version based on golang.org/x/text/internal/gen/bitfield
//
// Fields are laid out from bit 0 upward in declaration order. Only fields
// with a `bitfield:",N"` tag take part; N is the width in bits.
package bitfield

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

var (
	ErrNotStruct   = errors.New("bitfield: expected struct")
	ErrBadTag      = errors.New("bitfield: invalid bitfield tag")
	ErrOverflow    = errors.New("bitfield: value does not fit")
	ErrUnsupported = errors.New("bitfield: unsupported field type")
)

// Config determines settings for packing.
type Config struct {
	// NumBits fixes the maximum allowed bits for the integer representation.
	NumBits uint
}

type field struct {
	index int
	name  string
	bits  uint
}

// fields returns the tagged fields of t in layout order.
func fields(t reflect.Type) ([]field, error) {
	var out []field
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup("bitfield")
		if !ok {
			continue
		}
		// "name,bits" or ",bits"; the name part is ignored
		_, width, found := strings.Cut(tag, ",")
		if !found {
			return nil, fmt.Errorf("%w %q on field %s", ErrBadTag, tag, f.Name)
		}
		bits, err := strconv.ParseUint(width, 10, 7)
		if err != nil || bits > 64 {
			return nil, fmt.Errorf("%w %q on field %s", ErrBadTag, tag, f.Name)
		}
		if bits == 0 {
			continue
		}
		out = append(out, field{index: i, name: f.Name, bits: uint(bits)})
	}
	return out, nil
}

func structValue(x interface{}) (reflect.Value, error) {
	v := reflect.ValueOf(x)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w, got %v", ErrNotStruct, v.Kind())
	}
	return v, nil
}

func mask(bits uint) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return 1<<bits - 1
}

// Pack packs annotated bit ranges of struct x into an integer.
func Pack(x interface{}, c *Config) (packed uint64, err error) {
	if c == nil {
		c = &Config{NumBits: 64}
	}
	v, err := structValue(x)
	if err != nil {
		return 0, err
	}
	fs, err := fields(v.Type())
	if err != nil {
		return 0, err
	}

	var bitOffset uint
	for _, f := range fs {
		fv := v.Field(f.index)
		var fieldBits uint64
		switch fv.Kind() {
		case reflect.Bool:
			if fv.Bool() {
				fieldBits = 1
			}
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			fieldBits = fv.Uint()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			val := fv.Int()
			if val < 0 {
				return 0, fmt.Errorf("negative value %d for field %s: %w", val, f.name, ErrOverflow)
			}
			fieldBits = uint64(val)
		default:
			return 0, fmt.Errorf("%w %v for field %s", ErrUnsupported, fv.Kind(), f.name)
		}

		if fieldBits > mask(f.bits) {
			return 0, fmt.Errorf("value %d exceeds %d bits for field %s: %w", fieldBits, f.bits, f.name, ErrOverflow)
		}
		packed |= fieldBits << bitOffset
		bitOffset += f.bits
	}

	if c.NumBits > 0 && bitOffset > c.NumBits {
		return 0, fmt.Errorf("total bits %d exceeds NumBits %d: %w", bitOffset, c.NumBits, ErrOverflow)
	}
	return packed, nil
}

// Unpack is the inverse of Pack. x must be a pointer to a struct.
func Unpack(packed uint64, x interface{}) error {
	v := reflect.ValueOf(x)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w pointer, got %T", ErrNotStruct, x)
	}
	v = v.Elem()
	fs, err := fields(v.Type())
	if err != nil {
		return err
	}

	var bitOffset uint
	for _, f := range fs {
		var bits uint64
		if bitOffset < 64 {
			bits = (packed >> bitOffset) & mask(f.bits)
		}
		bitOffset += f.bits

		fv := v.Field(f.index)
		switch fv.Kind() {
		case reflect.Bool:
			fv.SetBool(bits != 0)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if fv.OverflowUint(bits) {
				return fmt.Errorf("field %s cannot hold %d: %w", f.name, bits, ErrOverflow)
			}
			fv.SetUint(bits)
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if bits > uint64(1<<63-1) || fv.OverflowInt(int64(bits)) {
				return fmt.Errorf("field %s cannot hold %d: %w", f.name, bits, ErrOverflow)
			}
			fv.SetInt(int64(bits))
		default:
			return fmt.Errorf("%w %v for field %s", ErrUnsupported, fv.Kind(), f.name)
		}
	}
	return nil
}
