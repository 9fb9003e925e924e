// Package pex implements the PEX container format: a small versioned binary
// envelope wrapping one or more sections of encoded bytecode, written by an
// external container writer and consumed by cmd/pexdump. Byte layout is
// taken directly from spec §6; field ordering is grounded on
// original_source/pex-compile/pex_compile/build_pex.py and __main__.py.
package pex

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pexlang/pexc/code"
)

// magic is the fixed 3-byte file signature.
var magic = [3]byte{'P', 'E', 'X'}

// sectionMagic prefixes every section's payload.
var sectionMagic = [4]byte{'c', 'o', 'd', 'e'}

// Type discriminates what kind of artifact a PEX file holds.
type Type byte

const (
	TypeOther Type = 0
	TypeExec  Type = 1
	TypeLib   Type = 2
)

func (t Type) String() string {
	switch t {
	case TypeOther:
		return "other"
	case TypeExec:
		return "exec"
	case TypeLib:
		return "lib"
	default:
		return fmt.Sprintf("Type(%d)", byte(t))
	}
}

// Version is the fixed format version this package writes and expects.
const Version uint32 = 0x00000000

// Section is one decoded section of a PEX file: its raw encoded
// instruction words, still packed, ready for code.Decode.
type Section struct {
	Words []uint32
}

// File is a parsed PEX container.
type File struct {
	Type     Type
	Version  uint32
	Sections []Section
}

// Write serializes linked as a single-section PEX file of kind typ.
//
// Layout: magic "PEX" (3 bytes), type (1 byte), version (4 bytes BE),
// section count (8 bytes BE, always 1 here), then for the one section:
// length (8 bytes BE) followed by a payload beginning with "code" (4
// bytes) and continuing with the linked instructions encoded 4 bytes
// each, little-endian. The 16-byte header ends exactly before the first
// section's length field.
func Write(w io.Writer, linked *code.Linked, typ Type) error {
	payload, err := encodePayload(linked)
	if err != nil {
		return err
	}

	var header bytes.Buffer
	header.Write(magic[:])
	header.WriteByte(byte(typ))
	if err := binary.Write(&header, binary.BigEndian, Version); err != nil {
		return err
	}
	if err := binary.Write(&header, binary.BigEndian, uint64(1)); err != nil {
		return err
	}
	if _, err := w.Write(header.Bytes()); err != nil {
		return err
	}

	if err := binary.Write(w, binary.BigEndian, uint64(len(payload))); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

func encodePayload(linked *code.Linked) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(sectionMagic[:])
	for _, in := range linked.Instructions {
		word, err := code.Encode(in)
		if err != nil {
			return nil, err
		}
		var wordBytes [4]byte
		binary.LittleEndian.PutUint32(wordBytes[:], word)
		buf.Write(wordBytes[:])
	}
	return buf.Bytes(), nil
}

// Read parses a PEX file from r.
func Read(r io.Reader) (*File, error) {
	var gotMagic [3]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("pex: reading magic: %w", err)
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("pex: bad magic %q, want %q", gotMagic, magic)
	}

	var typByte [1]byte
	if _, err := io.ReadFull(r, typByte[:]); err != nil {
		return nil, fmt.Errorf("pex: reading type: %w", err)
	}

	var version uint32
	if err := binary.Read(r, binary.BigEndian, &version); err != nil {
		return nil, fmt.Errorf("pex: reading version: %w", err)
	}

	var sectionCount uint64
	if err := binary.Read(r, binary.BigEndian, &sectionCount); err != nil {
		return nil, fmt.Errorf("pex: reading section count: %w", err)
	}

	f := &File{Type: Type(typByte[0]), Version: version}
	for i := uint64(0); i < sectionCount; i++ {
		var length uint64
		if err := binary.Read(r, binary.BigEndian, &length); err != nil {
			return nil, fmt.Errorf("pex: reading section %d length: %w", i, err)
		}
		payload := make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("pex: reading section %d payload: %w", i, err)
		}
		section, err := decodeSection(payload)
		if err != nil {
			return nil, fmt.Errorf("pex: section %d: %w", i, err)
		}
		f.Sections = append(f.Sections, section)
	}
	return f, nil
}

func decodeSection(payload []byte) (Section, error) {
	if len(payload) < 4 || !bytes.Equal(payload[:4], sectionMagic[:]) {
		return Section{}, fmt.Errorf("missing %q section magic", sectionMagic)
	}
	body := payload[4:]
	if len(body)%4 != 0 {
		return Section{}, fmt.Errorf("section payload length %d is not a multiple of 4", len(body))
	}
	words := make([]uint32, 0, len(body)/4)
	for i := 0; i < len(body); i += 4 {
		words = append(words, binary.LittleEndian.Uint32(body[i:i+4]))
	}
	return Section{Words: words}, nil
}
