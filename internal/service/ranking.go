package service

import (
	"math"
	"sort"

	"github.com/godilite/collab-dashboard/internal/survey"
)

type teamKey struct {
	period, division string
}

// TeamRanking ranks departments within each period and division by their mean
// composite score, rounded to one decimal. Groups follow first appearance in
// records; ties keep first appearance too.
func TeamRanking(records []survey.EvaluationRecord) []RankingGroup {
	type acc struct {
		sum   float64
		count int
	}

	var groups []teamKey
	depts := make(map[teamKey][]string)
	sums := make(map[teamKey]map[string]*acc)

	for _, r := range records {
		if r.Division == "" || r.Division == survey.NotAvailable || r.Department == "" {
			continue
		}
		k := teamKey{period: r.Period, division: r.Division}
		if _, ok := sums[k]; !ok {
			groups = append(groups, k)
			sums[k] = make(map[string]*acc)
		}
		a, ok := sums[k][r.Department]
		if !ok {
			a = &acc{}
			sums[k][r.Department] = a
			depts[k] = append(depts[k], r.Department)
		}
		a.sum += r.Composite
		a.count++
	}

	out := make([]RankingGroup, 0, len(groups))
	for _, k := range groups {
		teams := make([]TeamScore, 0, len(depts[k]))
		for _, dept := range depts[k] {
			a := sums[k][dept]
			teams = append(teams, TeamScore{
				Department: dept,
				Division:   k.division,
				Score:      roundTo(a.sum/float64(a.count), 1),
				Count:      a.count,
			})
		}
		sort.SliceStable(teams, func(i, j int) bool {
			return teams[i].Score > teams[j].Score
		})
		for i := range teams {
			teams[i].Rank = i + 1
		}
		out = append(out, RankingGroup{Period: k.period, Division: k.division, Teams: teams})
	}
	return out
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
