package core

// Record is the unit entity managed by recordkeep.
type Record struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RecordList is an ordered sequence of records. Insertion order is preserved
// and lookups are linear scans by id.
type RecordList []Record

// IndexOf returns the index of the first record with the given id, or -1.
func (l RecordList) IndexOf(id string) int {
	for i, r := range l {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the list that never aliases the receiver.
// A nil list clones to an empty, non-nil list.
func (l RecordList) Clone() RecordList {
	out := make(RecordList, len(l))
	copy(out, l)
	return out
}

// Without returns a new list with every record matching id removed.
func (l RecordList) Without(id string) RecordList {
	out := make(RecordList, 0, len(l))
	for _, r := range l {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// IDs returns the ids of all records in list order.
func (l RecordList) IDs() []string {
	ids := make([]string, len(l))
	for i, r := range l {
		ids[i] = r.ID
	}
	return ids
}
