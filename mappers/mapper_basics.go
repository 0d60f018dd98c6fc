// Package mappers names the cartridge boards that are referenced
// numerically by iNES and NES2.0 ROM files.
package mappers

import "fmt"

// A global registry of mappers, keyed by mapper id
var AllMappers map[uint8]Mapper = map[uint8]Mapper{}

type Mapper interface {
	ID() uint8
	Name() string
}

type baseMapper struct {
	id   uint8
	name string
}

func newBaseMapper(id uint8, name string) *baseMapper {
	return &baseMapper{id: id, name: name}
}

func (bm *baseMapper) ID() uint8 {
	return bm.id
}

func (bm *baseMapper) Name() string {
	return bm.name
}

func (bm *baseMapper) String() string {
	return fmt.Sprintf("%s (%d)", bm.name, bm.id)
}

// RegisterMapper adds m to the registry under id. Registering the same
// id twice is a programming error.
func RegisterMapper(id uint8, m Mapper) {
	if _, ok := AllMappers[id]; ok {
		panic(fmt.Sprintf("mapper %d registered twice", id))
	}
	AllMappers[id] = m
}

// Lookup returns the mapper registered under id, if any.
func Lookup(id uint8) (Mapper, bool) {
	m, ok := AllMappers[id]
	return m, ok
}

// Describe returns a printable name for mapper id, falling back to the
// bare number for boards we don't know.
func Describe(id uint8) string {
	if m, ok := Lookup(id); ok {
		return fmt.Sprintf("%s (%d)", m.Name(), id)
	}
	return fmt.Sprintf("unknown (%d)", id)
}
