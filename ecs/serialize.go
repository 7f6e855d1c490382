package ecs

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// Serialization format: an archetype is (bitset identifier, length L,
// component ID list, L entity identifiers, column[0][0..L],
// column[1][0..L], ...) in canonical order, each component value prefixed
// by its encoded byte length; a World is a header (magic, registry size,
// archetype count), one block per archetype, then an allocator snapshot. The wire
// format is binary, not human-readable, and compatibility is only
// guaranteed across runs of the same Registry.

const serializeMagic uint32 = 0x45_43_53_31 // "ECS1"

// Save writes w's full state — every archetype plus the allocator — to out.
// Component values are encoded with enc; each encoded value is written with
// its own length prefix, so encodings of one component type may differ in
// length. The caller is responsible for providing an encoder for every
// registered component type it wants persisted.
func (w *World) Save(out io.Writer, enc ComponentEncoder) error {
	bw := bufio.NewWriter(out)

	if err := binary.Write(bw, binary.LittleEndian, serializeMagic); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(w.registry.Len())); err != nil {
		return err
	}

	archetypes := w.archetypes.archetypes()
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(archetypes))); err != nil {
		return err
	}

	for _, a := range archetypes {
		if err := writeArchetype(bw, a, enc); err != nil {
			return err
		}
	}

	if err := writeAllocatorSnapshot(bw, w.alloc); err != nil {
		return err
	}

	return bw.Flush()
}

func writeArchetype(bw *bufio.Writer, a *Archetype, enc ComponentEncoder) error {
	idBytes := a.id.key()
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(idBytes))); err != nil {
		return err
	}
	if _, err := bw.WriteString(idBytes); err != nil {
		return err
	}

	l := uint32(a.Len())
	if err := binary.Write(bw, binary.LittleEndian, l); err != nil {
		return err
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(a.componentIDs))); err != nil {
		return err
	}
	for _, cid := range a.componentIDs {
		if err := binary.Write(bw, binary.LittleEndian, uint32(cid)); err != nil {
			return err
		}
	}

	for row := uint32(0); row < l; row++ {
		id := a.entityAt(row)
		if err := writeEntityID(bw, id); err != nil {
			return err
		}
	}

	for i, cid := range a.componentIDs {
		for row := uint32(0); row < l; row++ {
			value := a.columns[i].Get(int(row))
			data, err := enc.Encode(cid, value)
			if err != nil {
				return fmt.Errorf("ecs: encode component %d row %d: %w", cid, row, err)
			}
			if err := binary.Write(bw, binary.LittleEndian, uint32(len(data))); err != nil {
				return err
			}
			if _, err := bw.Write(data); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeEntityID encodes an identifier as (u64 index, u64 generation),
// little-endian.
func writeEntityID(bw *bufio.Writer, id EntityID) error {
	if err := binary.Write(bw, binary.LittleEndian, uint64(id.index)); err != nil {
		return err
	}
	return binary.Write(bw, binary.LittleEndian, id.generation)
}

func readEntityID(r io.Reader) (EntityID, error) {
	var index, generation uint64
	if err := binary.Read(r, binary.LittleEndian, &index); err != nil {
		return EntityID{}, err
	}
	if err := binary.Read(r, binary.LittleEndian, &generation); err != nil {
		return EntityID{}, err
	}
	return EntityID{index: uint32(index), generation: generation}, nil
}

func writeAllocatorSnapshot(bw *bufio.Writer, a *allocator) error {
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(a.slots))); err != nil {
		return err
	}
	for _, s := range a.slots {
		if err := binary.Write(bw, binary.LittleEndian, s.generation); err != nil {
			return err
		}
		hasLocation := uint8(0)
		if s.hasLocation {
			hasLocation = 1
		}
		if err := binary.Write(bw, binary.LittleEndian, hasLocation); err != nil {
			return err
		}
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(a.freeList))); err != nil {
		return err
	}
	for _, idx := range a.freeList {
		if err := binary.Write(bw, binary.LittleEndian, idx); err != nil {
			return err
		}
	}
	return nil
}

// ComponentEncoder turns a registered component's row pointer into its wire
// bytes (Encode) and wire bytes into a component value, not a pointer
// (Decode). Callers implement it per Registry (one case per
// component type they want to persist); components with no case are
// skipped only if never present in a serialized World.
type ComponentEncoder interface {
	Encode(id ComponentID, value any) ([]byte, error)
	Decode(id ComponentID, data []byte) (any, error)
}

// Load reads a World previously written by Save, rebuilding every archetype
// and the allocator against reg — which must be the same Registry (same
// component types, same registration order) used to create the World that
// was saved.
func Load(in io.Reader, reg *Registry, dec ComponentEncoder) (*World, error) {
	br := bufio.NewReader(in)

	var magic uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != serializeMagic {
		return nil, fmt.Errorf("ecs: not an archecs snapshot (bad magic %#x)", magic)
	}

	var n uint32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if int(n) != reg.Len() {
		return nil, fmt.Errorf("ecs: snapshot has %d component types, registry has %d", n, reg.Len())
	}

	var archetypeCount uint32
	if err := binary.Read(br, binary.LittleEndian, &archetypeCount); err != nil {
		return nil, err
	}

	w := NewWorld(reg)
	locs := make(map[uint32]location)

	for i := uint32(0); i < archetypeCount; i++ {
		if err := readArchetype(br, w, dec, locs); err != nil {
			return nil, err
		}
	}

	if err := readAllocatorSnapshot(br, w.alloc, locs); err != nil {
		return nil, err
	}

	return w, nil
}

func readArchetype(br *bufio.Reader, w *World, dec ComponentEncoder, locs map[uint32]location) error {
	var idLen uint32
	if err := binary.Read(br, binary.LittleEndian, &idLen); err != nil {
		return err
	}
	idBytes := make([]byte, idLen)
	if _, err := io.ReadFull(br, idBytes); err != nil {
		return err
	}

	var l uint32
	if err := binary.Read(br, binary.LittleEndian, &l); err != nil {
		return err
	}

	var numComponents uint32
	if err := binary.Read(br, binary.LittleEndian, &numComponents); err != nil {
		return err
	}
	componentIDs := make([]ComponentID, numComponents)
	for i := range componentIDs {
		var cid uint32
		if err := binary.Read(br, binary.LittleEndian, &cid); err != nil {
			return err
		}
		componentIDs[i] = ComponentID(cid)
	}

	arche := w.archetypes.getOrCreate(w.registry, componentIDs)

	ids := make([]EntityID, l)
	for row := range ids {
		id, err := readEntityID(br)
		if err != nil {
			return err
		}
		ids[row] = id
	}

	columnValues := make([][]any, len(componentIDs))
	for i, cid := range componentIDs {
		columnValues[i] = make([]any, l)
		for row := uint32(0); row < l; row++ {
			var dataLen uint32
			if err := binary.Read(br, binary.LittleEndian, &dataLen); err != nil {
				return err
			}
			data := make([]byte, dataLen)
			if _, err := io.ReadFull(br, data); err != nil {
				return err
			}
			value, err := dec.Decode(cid, data)
			if err != nil {
				return fmt.Errorf("ecs: decode component %d row %d: %w", cid, row, err)
			}
			columnValues[i][row] = value
		}
	}

	for row := uint32(0); row < l; row++ {
		values := make(map[ComponentID]any, len(componentIDs))
		for i, cid := range componentIDs {
			values[cid] = columnValues[i][row]
		}
		arche.push(ids[row], values)
		locs[ids[row].index] = location{archetype: arche.ID(), row: row}
	}

	return nil
}

// readAllocatorSnapshot rebuilds the allocator's slot table from the
// snapshot's generation/hasLocation list, then fills in each active slot's
// location from locs — the archetype/row positions readArchetype recorded
// as it replayed every archetype block.
func readAllocatorSnapshot(br *bufio.Reader, a *allocator, locs map[uint32]location) error {
	var n uint32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return err
	}

	a.slots = a.slots[:0]
	for i := uint32(0); i < n; i++ {
		var generation uint64
		if err := binary.Read(br, binary.LittleEndian, &generation); err != nil {
			return err
		}
		var hasLocation uint8
		if err := binary.Read(br, binary.LittleEndian, &hasLocation); err != nil {
			return err
		}
		s := slot{generation: generation, hasLocation: hasLocation != 0}
		if s.hasLocation {
			s.loc = locs[i]
		}
		a.slots = append(a.slots, s)
	}

	var freeLen uint32
	if err := binary.Read(br, binary.LittleEndian, &freeLen); err != nil {
		return err
	}
	a.freeList = a.freeList[:0]
	for i := uint32(0); i < freeLen; i++ {
		var idx uint32
		if err := binary.Read(br, binary.LittleEndian, &idx); err != nil {
			return err
		}
		a.freeList = append(a.freeList, idx)
	}

	return nil
}
