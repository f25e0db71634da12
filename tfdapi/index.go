package tfdapi

// Keyed is implemented by every metadata record.
type Keyed interface {
	Key() ID
}

// Index resolves catalog IDs to records. Catalogs hold a few hundred
// records, so Lookup is a linear scan; duplicates resolve to the first
// record in catalog order.
type Index[T Keyed] struct {
	records []T
}

func NewIndex[T Keyed](records []T) Index[T] {
	return Index[T]{records: records}
}

func (ix Index[T]) Lookup(id ID) (T, bool) {
	var zero T
	if id == "" {
		return zero, false
	}
	for _, r := range ix.records {
		if r.Key() == id {
			return r, true
		}
	}
	return zero, false
}

func (ix Index[T]) Len() int {
	return len(ix.records)
}
