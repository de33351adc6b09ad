package domain

import "github.com/samber/lo"

// ResultSet is an ordered snapshot of channel records keyed by channel id.
// Iteration order is the order in which channels were first resolved, which
// is the configured channel order.
type ResultSet struct {
	order   []string
	records map[string]Record
}

// NewResultSet builds a snapshot from records. A repeated id keeps its first
// position and takes the latest record.
func NewResultSet(records ...Record) ResultSet {
	rs := ResultSet{
		order:   make([]string, 0, len(records)),
		records: make(map[string]Record, len(records)),
	}
	for _, r := range records {
		if _, ok := rs.records[r.ID]; !ok {
			rs.order = append(rs.order, r.ID)
		}
		rs.records[r.ID] = r
	}
	return rs
}

// Len returns the number of records
func (rs ResultSet) Len() int {
	return len(rs.order)
}

// IDs returns channel ids in order
func (rs ResultSet) IDs() []string {
	ids := make([]string, len(rs.order))
	copy(ids, rs.order)
	return ids
}

// Get returns the record for id
func (rs ResultSet) Get(id string) (Record, bool) {
	r, ok := rs.records[id]
	return r, ok
}

// Records returns all records in order
func (rs ResultSet) Records() []Record {
	return lo.Map(rs.order, func(id string, _ int) Record {
		return rs.records[id]
	})
}

// Existent returns the records of channels that resolved as existent, in order
func (rs ResultSet) Existent() []Record {
	return lo.Filter(rs.Records(), func(r Record, _ int) bool {
		return r.Existent()
	})
}
