package model

// indexer interface is design to give a unique index to a (day, slot, room) cell and vice versa
type indexer interface {
	// Returns a unique index in [0, Size()) to a combination of day, slot and room
	Index(day, slot, room uint64) uint64
	// Returns the day, slot and room of a unique index
	Attributes(index uint64) (day, slot, room uint64)
	// Returns the amount of distinct cells
	Size() uint64
}

func newIndexer(days, slots, rooms uint64) indexer {
	return &indexerImplementation{
		days:  days,
		slots: slots,
		rooms: rooms,
	}
}
