package stockreport

import (
	"sort"
	"time"

	"bookstock/internal/core/apperror"
	"bookstock/internal/core/itemkey"
)

// Build aggregates the two ledgers into a balance report.
//
// Quantities are matched by normalized item name. Rows where every column is
// zero are dropped. Item metadata fills display attributes and the standard
// grouping; an item with no metadata still appears, ungrouped.
func Build(purchases, issues []LedgerEntry, meta map[itemkey.Key]ItemMeta, f Filter) (*Report, error) {
	if f.Mode == "" {
		f.Mode = ModeOverall
	}

	if f.Mode == ModeDateWise {
		if f.From.IsZero() || f.To.IsZero() {
			return nil, apperror.NewInvalidDateRange("both start and end dates are required")
		}
		if dateOnly(f.From).After(dateOnly(f.To)) {
			return nil, apperror.NewInvalidDateRange("start date is after end date")
		}
	}

	type bucket struct {
		name                       string
		opening, purchased, issued int
	}
	buckets := make(map[itemkey.Key]*bucket)

	get := func(key itemkey.Key, name string) *bucket {
		b, ok := buckets[key]
		if !ok {
			b = &bucket{name: name}
			buckets[key] = b
		}
		return b
	}

	from, to := dateOnly(f.From), dateOnly(f.To)

	accumulate := func(entries []LedgerEntry, receipt bool) {
		for _, e := range entries {
			key := itemkey.Normalize(e.ItemName)
			if !f.ItemKey.IsEmpty() && key != f.ItemKey {
				continue
			}

			b := get(key, e.ItemName)
			d := dateOnly(e.Date)

			switch {
			case f.Mode == ModeOverall:
				if receipt {
					b.purchased += e.Quantity
				} else {
					b.issued += e.Quantity
				}
			case d.Before(from):
				if receipt {
					b.opening += e.Quantity
				} else {
					b.opening -= e.Quantity
				}
			case !d.After(to):
				if receipt {
					b.purchased += e.Quantity
				} else {
					b.issued += e.Quantity
				}
			}
		}
	}

	accumulate(purchases, true)
	accumulate(issues, false)

	rows := make([]StockRow, 0, len(buckets))
	for key, b := range buckets {
		row := StockRow{
			Key:         key,
			Description: b.name,
			Opening:     b.opening,
			Purchased:   b.purchased,
			Issued:      b.issued,
			Balance:     b.purchased - b.issued,
		}
		row.Closing = row.Opening + row.Balance

		if row.Opening == 0 && row.Purchased == 0 && row.Issued == 0 {
			continue
		}

		if m, ok := meta[key]; ok {
			row.ItemID = m.ItemID
			row.Description = m.Description
			row.Unit = m.Unit
			row.Category = m.Category
			row.Standard = m.Standard
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Standard != rows[j].Standard {
			return naturalLess(rows[i].Standard, rows[j].Standard)
		}
		return rows[i].Description < rows[j].Description
	})

	rep := &Report{
		Mode:   f.Mode,
		Groups: buildGroups(rows),
		Flat:   rows,
	}
	for _, r := range rows {
		rep.Totals.add(r)
	}

	if f.Mode == ModeDateWise {
		fromCopy, toCopy := f.From, f.To
		rep.From, rep.To = &fromCopy, &toCopy
	}

	return rep, nil
}

func buildGroups(rows []StockRow) []Group {
	groups := make([]Group, 0)
	for _, r := range rows {
		if len(groups) == 0 || groups[len(groups)-1].Standard != r.Standard {
			groups = append(groups, Group{Standard: r.Standard})
		}
		g := &groups[len(groups)-1]
		g.Rows = append(g.Rows, r)
		g.Totals.add(r)
	}
	return groups
}

// dateOnly drops the time-of-day component in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// naturalLess compares strings with embedded numbers by value, so standard
// "2" sorts before "10".
func naturalLess(a, b string) bool {
	for len(a) > 0 && len(b) > 0 {
		if isDigit(a[0]) && isDigit(b[0]) {
			an, arest := leadingInt(a)
			bn, brest := leadingInt(b)
			if an != bn {
				return an < bn
			}
			a, b = arest, brest
			continue
		}
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func leadingInt(s string) (int, string) {
	n := 0
	i := 0
	for i < len(s) && isDigit(s[i]) {
		n = n*10 + int(s[i]-'0')
		i++
	}
	return n, s[i:]
}
