// Package elfref resolves a payload reference stored in a named ELF section.
//
// The embedding side cannot place an arbitrarily sized blob directly into a
// custom section, so the section holds a (virtual address, length) pair of the
// target architecture's native pointer width and endianness. Locating the
// payload therefore needs two steps: find the named section, then translate
// the referenced virtual address back to a file offset through the PT_LOAD
// program headers.
//
// This is deliberately not a general ELF parser; stdlib debug/elf does the
// header work and this package only walks sections and load segments.
package elfref

import (
	"bytes"
	"debug/elf"
	"errors"
	"fmt"
)

var (
	// ErrNoSection reports that the buffer has no section of the requested
	// name, or is not an ELF image at all. Callers treat this as a signal to
	// fall back to marker scanning, not as a hard failure.
	ErrNoSection = errors.New("elfref: section not found")

	// ErrMalformedRef reports that the section exists but its contents are
	// not a resolvable (address, length) reference.
	ErrMalformedRef = errors.New("elfref: malformed section reference")
)

// Locate finds the named section in data, decodes its (address, length)
// reference and returns the referenced file range [start, end).
//
// The reference width follows the image's ELF class (8 bytes per field for
// ELFCLASS64, 4 for ELFCLASS32) and its endianness follows the image header.
func Locate(data []byte, section string) (start, end int, err error) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: not an ELF image: %v", ErrNoSection, err)
	}
	defer f.Close()

	sec := f.Section(section)
	if sec == nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrNoSection, section)
	}

	raw, err := sec.Data()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: unreadable section: %v", ErrMalformedRef, err)
	}

	var width int
	switch f.Class {
	case elf.ELFCLASS64:
		width = 8
	case elf.ELFCLASS32:
		width = 4
	default:
		return 0, 0, fmt.Errorf("%w: unknown ELF class", ErrMalformedRef)
	}
	if len(raw) != 2*width {
		return 0, 0, fmt.Errorf("%w: section size %d, want %d", ErrMalformedRef, len(raw), 2*width)
	}

	var addr, length uint64
	if width == 8 {
		addr = f.ByteOrder.Uint64(raw[:8])
		length = f.ByteOrder.Uint64(raw[8:])
	} else {
		addr = uint64(f.ByteOrder.Uint32(raw[:4]))
		length = uint64(f.ByteOrder.Uint32(raw[4:]))
	}

	off, err := fileOffset(f.Progs, addr, length)
	if err != nil {
		return 0, 0, err
	}
	if off+length > uint64(len(data)) {
		return 0, 0, fmt.Errorf("%w: reference past end of file", ErrMalformedRef)
	}
	return int(off), int(off + length), nil
}

// fileOffset maps a referenced virtual range onto a file offset using the
// load segments. The whole range must fall within the file-backed part of a
// single PT_LOAD segment.
func fileOffset(progs []*elf.Prog, addr, length uint64) (uint64, error) {
	if addr+length < addr {
		return 0, fmt.Errorf("%w: address overflow", ErrMalformedRef)
	}
	for _, p := range progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		if addr >= p.Vaddr && addr+length <= p.Vaddr+p.Filesz {
			return p.Off + (addr - p.Vaddr), nil
		}
	}
	return 0, fmt.Errorf("%w: address %#x not in any loadable segment", ErrMalformedRef, addr)
}
