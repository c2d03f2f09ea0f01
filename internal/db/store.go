package db

// Store composes the region and history repositories into the single
// datasource view the simulation service depends on.
type Store struct {
	*RegionRepository
	*HistoryRepository
}

// NewStore creates a Store backed by the given connection or pool.
func NewStore(db DBTX) *Store {
	return &Store{
		RegionRepository:  NewRegionRepository(db),
		HistoryRepository: NewHistoryRepository(db),
	}
}
