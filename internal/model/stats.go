package model

// RegionStats is the per-region breakdown: count, mean age and the
// distinct activities observed in the region.
type RegionStats struct {
	Region     string   `json:"region"`
	Count      int      `json:"count"`
	AverageAge float64  `json:"average_age"`
	Activities []string `json:"activities"`
}

// BucketMember is one record inside an age-distribution bucket.
type BucketMember struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// AgeBucket is one age-distribution bucket with its members.
type AgeBucket struct {
	Range string         `json:"range"`
	Count int            `json:"count"`
	Women []BucketMember `json:"women"`
}

// ActivityStats is the per-activity breakdown.
type ActivityStats struct {
	Activity   string   `json:"activity"`
	Count      int      `json:"count"`
	AverageAge float64  `json:"average_age"`
	Regions    []string `json:"regions"`
}

// DepartmentStats is the per-department breakdown.
type DepartmentStats struct {
	Department string   `json:"department"`
	Count      int      `json:"count"`
	Activities []string `json:"activities"`
	Communes   []string `json:"communes"`
}

// MonthlyTrend is the record count for one (year, month) of creation.
type MonthlyTrend struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

// CommuneStats is the per-commune breakdown.
type CommuneStats struct {
	Commune    string   `json:"commune"`
	Count      int      `json:"count"`
	Activities []string `json:"activities"`
	AverageAge float64  `json:"average_age"`
}

// ActivityCount is one entry of the activity-by-region matrix.
type ActivityCount struct {
	Activity string `json:"activity"`
	Count    int    `json:"count"`
}

// RegionActivityMatrix groups per-activity counts under one region.
type RegionActivityMatrix struct {
	Region     string          `json:"region"`
	Activities []ActivityCount `json:"activities"`
}

// AgeGroupEntry is one member's bucket label. Count is always 1: the
// facet is a per-member list, not a pre-aggregated count.
type AgeGroupEntry struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// ActivityAgeGroups lists every member's age-range label for one activity.
type ActivityAgeGroups struct {
	Activity  string          `json:"activity"`
	AgeGroups []AgeGroupEntry `json:"age_groups"`
}

// StatsSummary is the headline digest of the full report.
//
// AverageAgeOverall is the unweighted mean of the per-region average
// ages, not a record-weighted global mean. The upstream system computes
// it that way and consumers depend on it; do not "fix" it. It is 0 when
// there are no region groups.
type StatsSummary struct {
	TotalWomen        int            `json:"total_women"`
	TopRegion         string         `json:"top_region"`
	TopActivity       string         `json:"top_activity"`
	AverageAgeOverall float64        `json:"average_age_overall"`
	TotalDepartments  int            `json:"total_departments"`
	TotalCommunes     int            `json:"total_communes"`
	RecentTrend       []MonthlyTrend `json:"recent_trend"`
}

// StatsReport is a full statistics snapshot, recomputed from the
// current record set on every request. It has no identity or lifecycle
// and is never persisted.
type StatsReport struct {
	TotalCount         int                    `json:"total_count"`
	ByRegion           []RegionStats          `json:"by_region"`
	AgeDistribution    []AgeBucket            `json:"age_distribution"`
	ActivityStats      []ActivityStats        `json:"activity_stats"`
	DepartmentStats    []DepartmentStats      `json:"department_stats"`
	MonthlyTrends      []MonthlyTrend         `json:"monthly_trends"`
	CommuneStats       []CommuneStats         `json:"commune_stats"`
	ActivityByRegion   []RegionActivityMatrix `json:"activity_by_region"`
	AgeGroupByActivity []ActivityAgeGroups    `json:"age_group_by_activity"`
	Summary            StatsSummary           `json:"summary"`
}
