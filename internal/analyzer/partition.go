package analyzer

import "github.com/FranksOps/titlecraft/internal/serp"

// Partition splits organic records by ownership of the caller's domain.
type Partition struct {
	// Owned is the caller's best-ranked listing, nil when none matched.
	Owned *serp.OrganicRecord
	// Duplicates holds the caller's other listings in source order.
	Duplicates  []serp.OrganicRecord
	Competitors []serp.OrganicRecord
}

// PartitionByDomain walks records once. A record whose URL host equals the
// normalised caller domain replaces the current best only on a strictly lower
// position, so ties keep the earlier record; displaced bests become
// duplicates. An empty caller domain makes every record a competitor.
func PartitionByDomain(records []serp.OrganicRecord, callerDomain string) Partition {
	var p Partition
	domain := NormalizeDomain(callerDomain)

	for i := range records {
		rec := records[i]
		if domain == "" || DomainFromURL(rec.URL) != domain {
			p.Competitors = append(p.Competitors, rec)
			continue
		}
		switch {
		case p.Owned == nil:
			p.Owned = &rec
		case rec.Position < p.Owned.Position:
			p.Duplicates = append(p.Duplicates, *p.Owned)
			p.Owned = &rec
		default:
			p.Duplicates = append(p.Duplicates, rec)
		}
	}
	return p
}

// CompetitorTitles returns the non-empty competitor titles in order.
func (p Partition) CompetitorTitles() []string {
	titles := make([]string, 0, len(p.Competitors))
	for _, c := range p.Competitors {
		if c.Title != "" {
			titles = append(titles, c.Title)
		}
	}
	return titles
}

// OwnedPosition returns the owned listing's position, or nil.
func (p Partition) OwnedPosition() *int {
	if p.Owned == nil {
		return nil
	}
	pos := p.Owned.Position
	return &pos
}
