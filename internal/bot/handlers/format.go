package handlers

import (
	"fmt"
	"strings"

	"github.com/edgard/counsellor/internal/counsellor"
	"github.com/edgard/counsellor/internal/university"
)

// FormatCareers renders career options as a numbered plain-text list.
func FormatCareers(careers []counsellor.CareerOption) string {
	var sb strings.Builder
	for i, c := range careers {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c.CareerTitle)
		writeLine(&sb, "", c.Description)
		writeLine(&sb, "Salary: ", c.AverageSalaryRange)
		writeLine(&sb, "Outlook: ", c.GrowthOutlook)
		writeList(&sb, "Education: ", c.RequiredEducation)
		writeList(&sb, "Key skills: ", c.KeySkills)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatCourses renders course recommendations as a numbered list.
func FormatCourses(courses []counsellor.CourseRecommendation) string {
	var sb strings.Builder
	for i, c := range courses {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. %s\n", i+1, c.CourseName)
		writeLine(&sb, "", c.Description)
		writeLine(&sb, "Where: ", c.InstitutionType)
		writeLine(&sb, "Duration: ", c.Duration)
		writeList(&sb, "Prerequisites: ", c.Prerequisites)
		writeList(&sb, "Leads to: ", c.CareerOutcomes)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatUniversities renders directory entries with their first web page.
func FormatUniversities(country string, unis []university.University) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Universities in %s:\n", country)
	for i, u := range unis {
		fmt.Fprintf(&sb, "%d. %s", i+1, u.Name)
		if len(u.WebPages) > 0 {
			fmt.Fprintf(&sb, " (%s)", u.WebPages[0])
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func writeLine(sb *strings.Builder, label, value string) {
	if value = strings.TrimSpace(value); value != "" {
		sb.WriteString("   " + label + value + "\n")
	}
}

func writeList(sb *strings.Builder, label string, values []string) {
	if len(values) > 0 {
		writeLine(sb, label, strings.Join(values, ", "))
	}
}
