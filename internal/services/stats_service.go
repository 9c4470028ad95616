package services

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/complianceguard/regdash/internal/models"
)

// Effective dates are free text (YYYY-MM-DD, YYYY.MM, "None", ...), so all
// date classification here is substring matching, never date parsing. A
// value that does not contain the current year, or does not match
// "<year>-MM", is excluded from the due counts but still counted in the
// department's total. This tolerance is deliberate: strict parsing would
// reject rows the legal team considers valid.

// yearMonthPattern returns the compiled "<year>-(MM)" matcher.
func yearMonthPattern(year int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`%d-(\d{2})`, year))
}

// effectiveInYear reports whether the effective-date text names the year.
func effectiveInYear(effectiveDate string, year int) bool {
	if effectiveDate == "" || effectiveDate == models.NoneValue {
		return false
	}
	return strings.Contains(effectiveDate, strconv.Itoa(year))
}

// effectiveMonth extracts the two-digit month from a "<year>-MM" shaped
// date, or 0 when the text does not match.
func effectiveMonth(effectiveDate string, pattern *regexp.Regexp) int {
	m := pattern.FindStringSubmatch(effectiveDate)
	if m == nil {
		return 0
	}
	month, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return month
}

// ComputeDepartmentStats derives the per-department progress aggregates for
// the year and month of now. Departments are every distinct non-empty,
// non-"None" department name present in regs.
//
// Result order: priority departments first, in the given fixed order, then
// everything else by total-regulations descending.
func ComputeDepartmentStats(regs []models.Regulation, now time.Time, priority []string) []models.DepartmentStat {
	year := now.Year()
	month := int(now.Month())
	pattern := yearMonthPattern(year)

	byDept := make(map[string][]models.Regulation)
	for _, r := range regs {
		if r.Department == "" || r.Department == models.NoneValue {
			continue
		}
		byDept[r.Department] = append(byDept[r.Department], r)
	}

	stats := make([]models.DepartmentStat, 0, len(byDept))
	for name, deptRegs := range byDept {
		stat := models.DepartmentStat{
			Name:             name,
			TotalRegulations: len(deptRegs),
		}

		for _, r := range deptRegs {
			if !effectiveInYear(r.EffectiveDate, year) {
				continue
			}
			stat.YearlyDue++

			m := effectiveMonth(r.EffectiveDate, pattern)
			if m == month {
				stat.CurrentMonthDue++
			}
			if m >= 1 && m < month {
				stat.CompletedToDate++
			}
		}

		// Guard: a department with no due entries this year reports 0%,
		// it never divides by zero.
		if stat.YearlyDue > 0 {
			stat.ProgressPercentage = int(math.Round(100 * float64(stat.CompletedToDate) / float64(stat.YearlyDue)))
		}

		stats = append(stats, stat)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalRegulations > stats[j].TotalRegulations
	})
	return promotePriority(stats, priority)
}

// promotePriority stably moves the named departments, in the given order,
// to the front of the list. Everything else keeps its relative order.
func promotePriority(stats []models.DepartmentStat, priority []string) []models.DepartmentStat {
	rank := func(name string) int {
		for i, p := range priority {
			if name == p {
				return i
			}
		}
		return -1
	}
	sort.SliceStable(stats, func(i, j int) bool {
		ri, rj := rank(stats[i].Name), rank(stats[j].Name)
		if ri != -1 && rj != -1 {
			return ri < rj
		}
		if ri != -1 {
			return true
		}
		return false
	})
	return stats
}

// ComputeDashboardStats derives the top-level dashboard summary.
func ComputeDashboardStats(regs []models.Regulation, departments []string, now time.Time) models.DashboardStats {
	year := now.Year()

	stats := models.DashboardStats{
		TotalRegulations: len(regs),
		TotalDepartments: len(departments),
	}
	for _, r := range regs {
		if r.HasFollowUp() {
			stats.RiskItems++
		}
		if effectiveInYear(r.EffectiveDate, year) {
			stats.YearlyAmendments++
		}
	}
	return stats
}

// MonthlyAmendments lists the regulations taking effect in the current
// month of the current year.
func MonthlyAmendments(regs []models.Regulation, now time.Time) []models.AmendmentSummaryItem {
	year := now.Year()
	month := int(now.Month())
	pattern := yearMonthPattern(year)

	out := make([]models.AmendmentSummaryItem, 0)
	for _, r := range regs {
		if !effectiveInYear(r.EffectiveDate, year) {
			continue
		}
		if effectiveMonth(r.EffectiveDate, pattern) != month {
			continue
		}
		out = append(out, amendmentItem(r))
	}
	return out
}

// YearlyAmendments lists every regulation taking effect in the current year.
func YearlyAmendments(regs []models.Regulation, now time.Time) []models.AmendmentSummaryItem {
	year := now.Year()

	out := make([]models.AmendmentSummaryItem, 0)
	for _, r := range regs {
		if !effectiveInYear(r.EffectiveDate, year) {
			continue
		}
		out = append(out, amendmentItem(r))
	}
	return out
}

// RegulationsForMonth returns a department's regulations due in the current
// month, full records rather than the dashboard summary shape.
func RegulationsForMonth(regs []models.Regulation, department string, now time.Time) []models.Regulation {
	year := now.Year()
	month := int(now.Month())
	pattern := yearMonthPattern(year)

	out := make([]models.Regulation, 0)
	for _, r := range regs {
		if r.Department != department {
			continue
		}
		if !effectiveInYear(r.EffectiveDate, year) {
			continue
		}
		if effectiveMonth(r.EffectiveDate, pattern) != month {
			continue
		}
		out = append(out, r)
	}
	return out
}

func amendmentItem(r models.Regulation) models.AmendmentSummaryItem {
	return models.AmendmentSummaryItem{
		Name:          r.LawName,
		Type:          r.LawType,
		EffectiveDate: r.EffectiveDate,
		Department:    r.Department,
	}
}
