package listing

import "sort"

// RegistrationStats counts catalog events by registration state.
type RegistrationStats struct {
	Total  int `json:"total"`
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

// GetRegistrationStats tallies open vs closed registration across events.
func GetRegistrationStats(events []Event) RegistrationStats {
	if len(events) == 0 {
		return RegistrationStats{}
	}

	open := 0
	for _, e := range events {
		if e.RegistrationOpen {
			open++
		}
	}

	closed := len(events) - open
	if closed < 0 {
		closed = 0
	}

	return RegistrationStats{Total: len(events), Open: open, Closed: closed}
}

// CountsByCategory counts events per category. An event tagged with
// several categories contributes to each.
func CountsByCategory(events []Event) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		for _, category := range e.Categories {
			counts[category]++
		}
	}
	return counts
}

// CountsByDateTag counts events per date tag, seeding every known tag at
// zero so the result always covers the full fest schedule.
func CountsByDateTag(events []Event, dateTags []string) map[string]int {
	counts := make(map[string]int, len(dateTags))
	for _, tag := range dateTags {
		counts[tag] = 0
	}
	for _, e := range events {
		counts[e.DateTag]++
	}
	return counts
}

// DepartmentCount pairs a department with its event count.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

// TopDepartments returns the most represented departments, count
// descending, truncated to limit. Events without a department are skipped.
func TopDepartments(events []Event, limit int) []DepartmentCount {
	counts := make(map[string]int)
	var order []string
	for _, e := range events {
		if e.Department == "" {
			continue
		}
		if _, seen := counts[e.Department]; !seen {
			order = append(order, e.Department)
		}
		counts[e.Department]++
	}

	result := make([]DepartmentCount, 0, len(order))
	for _, dept := range order {
		result = append(result, DepartmentCount{Department: dept, Count: counts[dept]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// MostCommonCategory returns the category with the highest count, or ""
// when there are no categorized events. Ties keep the earliest-seen
// category.
func MostCommonCategory(events []Event) string {
	counts := make(map[string]int)
	var order []string
	for _, e := range events {
		for _, category := range e.Categories {
			if _, seen := counts[category]; !seen {
				order = append(order, category)
			}
			counts[category]++
		}
	}

	top := ""
	topCount := 0
	for _, category := range order {
		if counts[category] > topCount {
			top = category
			topCount = counts[category]
		}
	}
	return top
}
