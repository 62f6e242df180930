package model

type indexerImplementation struct {
	days  uint64
	slots uint64
	rooms uint64
}

func (indexer *indexerImplementation) Index(day, slot, room uint64) uint64 {
	return room + indexer.rooms*slot + indexer.rooms*indexer.slots*day
}

func (indexer *indexerImplementation) Attributes(index uint64) (day, slot, room uint64) {
	room = index % indexer.rooms
	index = index / indexer.rooms

	slot = index % indexer.slots
	index = index / indexer.slots

	day = index % indexer.days

	return day, slot, room
}

func (indexer *indexerImplementation) Size() uint64 {
	return indexer.days * indexer.slots * indexer.rooms
}
