package coordinator

import (
	"context"
	"sort"

	"github.com/leapstack-labs/recordkeep/pkg/core"
)

// DriftStore summarizes one store in a DriftReport.
type DriftStore struct {
	Key    string `json:"key"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DriftPair holds the two versions of a record whose fields disagree.
type DriftPair struct {
	ID        string      `json:"id"`
	Primary   core.Record `json:"primary"`
	Secondary core.Record `json:"secondary"`
}

// DriftReport lists every way the two stores disagree.
type DriftReport struct {
	Stores          []DriftStore        `json:"stores"`
	OnlyInPrimary   []string            `json:"only_in_primary"`
	OnlyInSecondary []string            `json:"only_in_secondary"`
	Differing       []DriftPair         `json:"differing"`
	Duplicates      map[string][]string `json:"duplicates"`
}

// Clean reports whether the stores agree completely.
func (r DriftReport) Clean() bool {
	return len(r.OnlyInPrimary) == 0 &&
		len(r.OnlyInSecondary) == 0 &&
		len(r.Differing) == 0 &&
		len(r.Duplicates) == 0
}

// Drift compares both stores by id. Records are compared on the first
// occurrence of each id; repeated ids are reported as duplicates.
func (c *Coordinator) Drift(ctx context.Context) DriftReport {
	snap := c.ListAll(ctx)
	primary, secondary := snap.Stores[0], snap.Stores[1]

	report := DriftReport{
		Stores:          make([]DriftStore, 0, len(snap.Stores)),
		OnlyInPrimary:   []string{},
		OnlyInSecondary: []string{},
		Differing:       []DriftPair{},
		Duplicates:      map[string][]string{},
	}
	for _, s := range snap.Stores {
		report.Stores = append(report.Stores, DriftStore{
			Key:    s.Key,
			Status: s.Load.Status.String(),
			Count:  len(s.Load.Records),
		})
		if dups := duplicateIDs(s.Load.Records); len(dups) > 0 {
			report.Duplicates[s.Key] = dups
		}
	}

	pIndex := firstByID(primary.Load.Records)
	sIndex := firstByID(secondary.Load.Records)

	for _, id := range orderedIDs(primary.Load.Records) {
		p := pIndex[id]
		s, ok := sIndex[id]
		switch {
		case !ok:
			report.OnlyInPrimary = append(report.OnlyInPrimary, id)
		case p != s:
			report.Differing = append(report.Differing, DriftPair{ID: id, Primary: p, Secondary: s})
		}
	}
	for _, id := range orderedIDs(secondary.Load.Records) {
		if _, ok := pIndex[id]; !ok {
			report.OnlyInSecondary = append(report.OnlyInSecondary, id)
		}
	}

	if !report.Clean() {
		c.logger.InfoContext(ctx, "store drift detected",
			"only_in_"+primary.Key, len(report.OnlyInPrimary),
			"only_in_"+secondary.Key, len(report.OnlyInSecondary),
			"differing", len(report.Differing),
		)
	}
	return report
}

func firstByID(list core.RecordList) map[string]core.Record {
	m := make(map[string]core.Record, len(list))
	for _, r := range list {
		if _, ok := m[r.ID]; !ok {
			m[r.ID] = r
		}
	}
	return m
}

// orderedIDs returns distinct ids in first-seen order.
func orderedIDs(list core.RecordList) []string {
	seen := make(map[string]struct{}, len(list))
	ids := make([]string, 0, len(list))
	for _, r := range list {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		ids = append(ids, r.ID)
	}
	return ids
}

func duplicateIDs(list core.RecordList) []string {
	counts := make(map[string]int, len(list))
	for _, r := range list {
		counts[r.ID]++
	}
	var dups []string
	for id, n := range counts {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}
