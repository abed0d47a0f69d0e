// Package stats computes the multi-facet statistics report over the
// women record set. Each facet is an independent pure reduction; the
// engine recomputes the whole report from the current store state on
// every request.
package stats

import (
	"sort"

	"github.com/womencount/womencount/internal/model"
)

// Age bucket boundaries. Half-open [lower, upper) except the terminal
// bucket, which is closed below and open to infinity.
var ageBuckets = []struct {
	label string
	lower int
	upper int // exclusive; -1 marks the open-ended terminal bucket
}{
	{"0-17", 0, 18},
	{"18-24", 18, 25},
	{"25-34", 25, 35},
	{"35-44", 35, 45},
	{"45-54", 45, 55},
	{"55-64", 55, 65},
	{"65+", 65, -1},
}

// AgeRange returns the bucket label for an age.
func AgeRange(age int) string {
	for _, b := range ageBuckets {
		if b.upper < 0 || age < b.upper {
			return b.label
		}
	}
	return ageBuckets[len(ageBuckets)-1].label
}

// ByRegion groups records by region with count, mean age and distinct
// activities. Sorted by count descending, region name ascending on ties.
func ByRegion(women []*model.Woman) []model.RegionStats {
	type acc struct {
		count      int
		ageSum     int
		activities map[string]struct{}
	}

	groups := make(map[string]*acc)
	for _, w := range women {
		g, ok := groups[w.Region]
		if !ok {
			g = &acc{activities: make(map[string]struct{})}
			groups[w.Region] = g
		}
		g.count++
		g.ageSum += w.Age
		g.activities[w.Activity] = struct{}{}
	}

	out := make([]model.RegionStats, 0, len(groups))
	for region, g := range groups {
		out = append(out, model.RegionStats{
			Region:     region,
			Count:      g.count,
			AverageAge: float64(g.ageSum) / float64(g.count),
			Activities: sortedKeys(g.activities),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Region < out[j].Region
	})

	return out
}

// AgeDistribution buckets every record into the fixed age boundaries.
// Only non-empty buckets are emitted, in boundary order.
func AgeDistribution(women []*model.Woman) []model.AgeBucket {
	members := make(map[string][]model.BucketMember)
	for _, w := range women {
		label := AgeRange(w.Age)
		members[label] = append(members[label], model.BucketMember{
			Name: w.FullName(),
			Age:  w.Age,
		})
	}

	out := make([]model.AgeBucket, 0, len(members))
	for _, b := range ageBuckets {
		women, ok := members[b.label]
		if !ok {
			continue
		}
		out = append(out, model.AgeBucket{
			Range: b.label,
			Count: len(women),
			Women: women,
		})
	}

	return out
}

// ByActivity groups records by activity with count, mean age and
// distinct regions. Sorted by count descending, activity ascending.
func ByActivity(women []*model.Woman) []model.ActivityStats {
	type acc struct {
		count   int
		ageSum  int
		regions map[string]struct{}
	}

	groups := make(map[string]*acc)
	for _, w := range women {
		g, ok := groups[w.Activity]
		if !ok {
			g = &acc{regions: make(map[string]struct{})}
			groups[w.Activity] = g
		}
		g.count++
		g.ageSum += w.Age
		g.regions[w.Region] = struct{}{}
	}

	out := make([]model.ActivityStats, 0, len(groups))
	for activity, g := range groups {
		out = append(out, model.ActivityStats{
			Activity:   activity,
			Count:      g.count,
			AverageAge: float64(g.ageSum) / float64(g.count),
			Regions:    sortedKeys(g.regions),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Activity < out[j].Activity
	})

	return out
}

// ByDepartment groups records by department with count, distinct
// activities and distinct communes. Sorted by count descending,
// department ascending.
func ByDepartment(women []*model.Woman) []model.DepartmentStats {
	type acc struct {
		count      int
		activities map[string]struct{}
		communes   map[string]struct{}
	}

	groups := make(map[string]*acc)
	for _, w := range women {
		g, ok := groups[w.Department]
		if !ok {
			g = &acc{
				activities: make(map[string]struct{}),
				communes:   make(map[string]struct{}),
			}
			groups[w.Department] = g
		}
		g.count++
		g.activities[w.Activity] = struct{}{}
		g.communes[w.Commune] = struct{}{}
	}

	out := make([]model.DepartmentStats, 0, len(groups))
	for department, g := range groups {
		out = append(out, model.DepartmentStats{
			Department: department,
			Count:      g.count,
			Activities: sortedKeys(g.activities),
			Communes:   sortedKeys(g.communes),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Department < out[j].Department
	})

	return out
}

// MonthlyTrends counts records by (year, month) of creation, sorted
// chronologically. Months are taken in UTC.
func MonthlyTrends(women []*model.Woman) []model.MonthlyTrend {
	type ym struct {
		year  int
		month int
	}

	counts := make(map[ym]int)
	for _, w := range women {
		created := w.CreatedAt.UTC()
		counts[ym{created.Year(), int(created.Month())}]++
	}

	out := make([]model.MonthlyTrend, 0, len(counts))
	for key, count := range counts {
		out = append(out, model.MonthlyTrend{
			Year:  key.year,
			Month: key.month,
			Count: count,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})

	return out
}

// ByCommune groups records by commune with count, distinct activities
// and mean age. Sorted by count descending, commune ascending.
func ByCommune(women []*model.Woman) []model.CommuneStats {
	type acc struct {
		count      int
		ageSum     int
		activities map[string]struct{}
	}

	groups := make(map[string]*acc)
	for _, w := range women {
		g, ok := groups[w.Commune]
		if !ok {
			g = &acc{activities: make(map[string]struct{})}
			groups[w.Commune] = g
		}
		g.count++
		g.ageSum += w.Age
		g.activities[w.Activity] = struct{}{}
	}

	out := make([]model.CommuneStats, 0, len(groups))
	for commune, g := range groups {
		out = append(out, model.CommuneStats{
			Commune:    commune,
			Count:      g.count,
			Activities: sortedKeys(g.activities),
			AverageAge: float64(g.ageSum) / float64(g.count),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Commune < out[j].Commune
	})

	return out
}

// ActivityByRegion builds the two-level matrix: per-(region, activity)
// counts regrouped under each region. Regions are sorted
// alphabetically; entries within a region by count descending, then
// activity ascending.
func ActivityByRegion(women []*model.Woman) []model.RegionActivityMatrix {
	counts := make(map[string]map[string]int)
	for _, w := range women {
		if counts[w.Region] == nil {
			counts[w.Region] = make(map[string]int)
		}
		counts[w.Region][w.Activity]++
	}

	regions := make([]string, 0, len(counts))
	for region := range counts {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	out := make([]model.RegionActivityMatrix, 0, len(regions))
	for _, region := range regions {
		entries := make([]model.ActivityCount, 0, len(counts[region]))
		for activity, count := range counts[region] {
			entries = append(entries, model.ActivityCount{
				Activity: activity,
				Count:    count,
			})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Count != entries[j].Count {
				return entries[i].Count > entries[j].Count
			}
			return entries[i].Activity < entries[j].Activity
		})
		out = append(out, model.RegionActivityMatrix{
			Region:     region,
			Activities: entries,
		})
	}

	return out
}

// AgeGroupByActivity lists, per activity, every member's bucket label
// with a constant count of 1. This facet is deliberately a per-member
// list, not a pre-aggregated count; consumers do the counting.
// Activities are sorted alphabetically; members keep record order.
func AgeGroupByActivity(women []*model.Woman) []model.ActivityAgeGroups {
	groups := make(map[string][]model.AgeGroupEntry)
	for _, w := range women {
		groups[w.Activity] = append(groups[w.Activity], model.AgeGroupEntry{
			Range: AgeRange(w.Age),
			Count: 1,
		})
	}

	activities := make([]string, 0, len(groups))
	for activity := range groups {
		activities = append(activities, activity)
	}
	sort.Strings(activities)

	out := make([]model.ActivityAgeGroups, 0, len(activities))
	for _, activity := range activities {
		out = append(out, model.ActivityAgeGroups{
			Activity:  activity,
			AgeGroups: groups[activity],
		})
	}

	return out
}

// sortedKeys returns the keys of a string set in ascending order.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
