// Package elftest builds minimal ELF64 images for tests: one PT_LOAD segment
// carrying a payload blob and an optional named section holding an
// (address, length) reference into that segment. The output parses with
// stdlib debug/elf.
package elftest

import "encoding/binary"

// Image describes the fixture to build.
type Image struct {
	// Blob is placed in the single load segment.
	Blob []byte

	// Vaddr is the virtual address of Blob[0]. Zero means 0x1000.
	Vaddr uint64

	// RefAddr and RefLen are encoded into the section as the little-endian
	// 64-bit (address, length) pair.
	RefAddr uint64
	RefLen  uint64

	// RawRef, when non-nil, replaces the encoded pair verbatim. Used to
	// build malformed references (wrong size, garbage contents).
	RawRef []byte

	// NoSection omits the reference section entirely.
	NoSection bool

	// SectionName overrides the reference section name. Empty means
	// ".security.txt".
	SectionName string
}

const (
	ehdrSize = 64
	phdrSize = 56
	shdrSize = 64
	blobOff  = 0x80
)

// Build assembles the image.
func Build(img Image) []byte {
	vaddr := img.Vaddr
	if vaddr == 0 {
		vaddr = 0x1000
	}
	secName := img.SectionName
	if secName == "" {
		secName = ".security.txt"
	}

	ref := img.RawRef
	if ref == nil && !img.NoSection {
		ref = make([]byte, 16)
		binary.LittleEndian.PutUint64(ref[:8], img.RefAddr)
		binary.LittleEndian.PutUint64(ref[8:], img.RefLen)
	}

	refOff := align8(blobOff + uint64(len(img.Blob)))
	strtabOff := refOff + uint64(len(ref))

	// Index 0 is the mandatory NULL name.
	strtab := []byte{0}
	secNameOff := uint32(len(strtab))
	if !img.NoSection {
		strtab = append(strtab, secName...)
		strtab = append(strtab, 0)
	}
	shstrNameOff := uint32(len(strtab))
	strtab = append(strtab, ".shstrtab"...)
	strtab = append(strtab, 0)

	shoff := align8(strtabOff + uint64(len(strtab)))
	shnum := uint16(2) // NULL + .shstrtab
	if !img.NoSection {
		shnum = 3
	}
	shstrndx := shnum - 1

	out := make([]byte, shoff+uint64(shnum)*shdrSize)
	le := binary.LittleEndian

	// ELF header.
	copy(out[0:4], []byte{0x7f, 'E', 'L', 'F'})
	out[4] = 2 // ELFCLASS64
	out[5] = 1 // little-endian
	out[6] = 1 // EV_CURRENT
	le.PutUint16(out[16:], 3)   // ET_DYN
	le.PutUint16(out[18:], 247) // EM_BPF
	le.PutUint32(out[20:], 1)
	le.PutUint64(out[24:], vaddr)    // e_entry
	le.PutUint64(out[32:], ehdrSize) // e_phoff
	le.PutUint64(out[40:], shoff)
	le.PutUint16(out[52:], ehdrSize)
	le.PutUint16(out[54:], phdrSize)
	le.PutUint16(out[56:], 1) // e_phnum
	le.PutUint16(out[58:], shdrSize)
	le.PutUint16(out[60:], shnum)
	le.PutUint16(out[62:], shstrndx)

	// Program header: one read-only PT_LOAD covering the blob.
	ph := out[ehdrSize:]
	le.PutUint32(ph[0:], 1) // PT_LOAD
	le.PutUint32(ph[4:], 4) // PF_R
	le.PutUint64(ph[8:], blobOff)
	le.PutUint64(ph[16:], vaddr)
	le.PutUint64(ph[24:], vaddr)
	le.PutUint64(ph[32:], uint64(len(img.Blob))) // p_filesz
	le.PutUint64(ph[40:], uint64(len(img.Blob))) // p_memsz
	le.PutUint64(ph[48:], 8)                     // p_align

	copy(out[blobOff:], img.Blob)
	copy(out[refOff:], ref)
	copy(out[strtabOff:], strtab)

	shdr := func(i uint16) []byte { return out[shoff+uint64(i)*shdrSize:] }

	next := uint16(1)
	if !img.NoSection {
		sh := shdr(next)
		le.PutUint32(sh[0:], secNameOff)
		le.PutUint32(sh[4:], 1)  // SHT_PROGBITS
		le.PutUint64(sh[8:], 2)  // SHF_ALLOC
		le.PutUint64(sh[16:], 0) // sh_addr
		le.PutUint64(sh[24:], refOff)
		le.PutUint64(sh[32:], uint64(len(ref)))
		le.PutUint64(sh[48:], 8) // sh_addralign
		next++
	}

	sh := shdr(next)
	le.PutUint32(sh[0:], shstrNameOff)
	le.PutUint32(sh[4:], 3) // SHT_STRTAB
	le.PutUint64(sh[24:], strtabOff)
	le.PutUint64(sh[32:], uint64(len(strtab)))
	le.PutUint64(sh[48:], 1)

	return out
}

// BlobVaddr returns the virtual address a byte at blob offset off is loaded
// at, for an image built with the given Vaddr (zero means the default).
func BlobVaddr(img Image, off int) uint64 {
	vaddr := img.Vaddr
	if vaddr == 0 {
		vaddr = 0x1000
	}
	return vaddr + uint64(off)
}

// BlobFileOffset returns the file offset of a byte at blob offset off.
func BlobFileOffset(off int) int { return blobOff + off }

func align8(v uint64) uint64 { return (v + 7) &^ 7 }
