// Package records provides the browser UI for listing and editing records.
package records

import (
	"github.com/leapstack-labs/recordkeep/internal/coordinator"
	"github.com/leapstack-labs/recordkeep/internal/ui/features/records/components"
)

// CreateSignals are the create form's datastar signals.
type CreateSignals struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EditSignals are the edit form's datastar signals.
type EditSignals struct {
	EditID    string `json:"editId"`
	EditName  string `json:"editName"`
	EditEmail string `json:"editEmail"`
}

// buildView turns a snapshot into render state. active selects the store
// whose list carries the edit controls; an unknown key falls back to the
// first store.
func buildView(snap coordinator.Snapshot, active string, isDev bool) components.View {
	v := components.View{
		Title:  "Records",
		IsDev:  isDev,
		Stores: make([]components.StoreView, 0, len(snap.Stores)),
	}
	if !hasKey(snap, active) && len(snap.Stores) > 0 {
		active = snap.Stores[0].Key
	}
	v.Active = active
	for _, s := range snap.Stores {
		v.Stores = append(v.Stores, components.StoreView{
			Key:     s.Key,
			Status:  s.Load.Status.String(),
			Records: s.Load.Records,
			Active:  s.Key == active,
		})
	}
	return v
}

func hasKey(snap coordinator.Snapshot, key string) bool {
	for _, k := range snap.Keys() {
		if k == key {
			return true
		}
	}
	return false
}
