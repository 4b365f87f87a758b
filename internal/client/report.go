package client

import (
	"sort"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"dvd-rental-backend/internal/rentals"
)

type TitleCount struct {
	Title string
	Count int
}

type StaffTotal struct {
	StaffID string
	Total   float64
	Rentals int
}

// PopularTitles: 件数の多い順，同数ならタイトル昇順
func PopularTitles(rs []rentals.RentalResponse) []TitleCount {
	counts := make(map[string]int)
	for _, r := range rs {
		counts[r.Title]++
	}
	out := make([]TitleCount, 0, len(counts))
	for title, n := range counts {
		out = append(out, TitleCount{Title: title, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// StaffRevenue: staffId ごとの cost 合計（返却済みかどうかは問わない）
func StaffRevenue(rs []rentals.RentalResponse) []StaffTotal {
	totals := make(map[string]*StaffTotal)
	for _, r := range rs {
		st, ok := totals[r.StaffID]
		if !ok {
			st = &StaffTotal{StaffID: r.StaffID}
			totals[r.StaffID] = st
		}
		st.Total += r.Cost
		st.Rentals++
	}
	out := make([]StaffTotal, 0, len(totals))
	for _, st := range totals {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out
}

// FormatRevenue は金額を通貨記号付きで整形する
func FormatRevenue(tag language.Tag, unit currency.Unit, amount float64) string {
	p := message.NewPrinter(tag)
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}
