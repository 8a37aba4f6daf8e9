// Package generate produces synthetic employee datasets seeded with
// the defects the cleaning pipeline exists to fix: missing values,
// duplicate rows, inconsistent casing and spacing, mixed date formats,
// outliers, and sparsely populated columns.
package generate

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Manju4599/data-cleaner-app/internal/table"
)

// Options controls dataset generation. A zero Seed means a time-based
// seed; any other value makes output reproducible.
type Options struct {
	Records int
	Seed    int64
}

// Defect injection rates.
const (
	missingRate    = 0.10
	duplicateRate  = 0.05
	outlierRate    = 0.03
	extraSpaceRate = 0.15
	mixedCaseRate  = 0.25
	dateFormatRate = 0.30
	specialRate    = 0.10
	sparseFillRate = 0.30
)

var firstNames = []string{
	"John", "Jane", "Bob", "Alice", "Carol", "David", "Emma", "Frank", "Grace", "Henry",
	"Ivy", "Jack", "Kate", "Leo", "Mia", "Noah", "Olivia", "Peter", "Quinn", "Ryan",
	"Sara", "Tom", "Ursula", "Victor", "Wendy", "Xavier", "Yvonne", "Zachary",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
	"Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

var departments = []string{"IT", "HR", "Sales", "Marketing", "Finance", "Management", "Operations", "R&D"}

var cities = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia", "San Antonio",
	"San Diego", "Dallas", "San Jose", "Austin", "Jacksonville", "Fort Worth", "Columbus",
	"Charlotte", "San Francisco", "Indianapolis", "Seattle", "Denver", "Washington",
}

var commentPool = []string{
	"Good employee", "Needs improvement", "Hard working", "Team player",
	"Excellent performance", "Average performance", "New hire", "Experienced",
}

var specialComments = []string{
	"Special@characters#here",
	"Multiple  spaces",
	"Emoji 😊 included",
	"UTF-8: café, naïve, résumé",
}

var activeValues = []string{"Yes", "No", "TRUE", "FALSE", "1", "0", "Y", "N"}

var managers = []string{"John Smith", "Jane Doe", "Robert Johnson", "", "Not Assigned", "TBD"}

// columns is the generated header, defects and all: spaces, mixed
// naming conventions, and units baked into names.
var columns = []string{
	"Employee_ID", "First Name", "Last Name", "Full Name", "Age", "Email Address",
	"salary", "Annual Salary (USD)", "Join Date", "Department", "City/Location",
	"Phone Number", "Rating (1-5)", "Comments", "Active", "Manager",
	"Empty_Column", "Another Empty Column", "Rarely_Used_Column",
}

// Dataset builds a synthetic table with the configured record count,
// plus a tail of duplicated rows.
func Dataset(opts Options) *table.Table {
	n := opts.Records
	if n <= 0 {
		n = 100
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	t := table.New(append([]string(nil), columns...))
	for i := 1; i <= n; i++ {
		t.Rows = append(t.Rows, record(r, i))
	}

	// Duplicate a sample of rows, then renumber IDs so the duplicates
	// differ only outside the identifier column.
	dupes := int(float64(n) * duplicateRate)
	for i := 0; i < dupes; i++ {
		src := t.Rows[r.Intn(len(t.Rows))]
		t.Rows = append(t.Rows, append([]string(nil), src...))
	}
	for i, row := range t.Rows {
		row[0] = fmt.Sprintf("%d", i+1)
	}
	return t
}

func record(r *rand.Rand, id int) []string {
	first := pick(r, firstNames)
	last := pick(r, lastNames)
	age := fmt.Sprintf("%d", 22+r.Intn(44))
	salary := 40000 + r.Intn(80001)
	joined := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, r.Intn(1461))
	rating := fmt.Sprintf("%.1f", 2.0+r.Float64()*3.0)
	phone := fmt.Sprintf("%d-%d-%d", 200+r.Intn(800), 100+r.Intn(900), 1000+r.Intn(9000))

	if r.Float64() < missingRate {
		if r.Float64() < 0.5 {
			age = ""
		} else {
			phone = ""
		}
	}
	if r.Float64() < extraSpaceRate {
		first = "  " + first + "  "
		last = last + "  "
	}
	if r.Float64() < mixedCaseRate {
		if r.Float64() < 0.5 {
			first = strings.ToUpper(first)
			last = strings.ToLower(last)
		} else {
			last = strings.ToUpper(last)
		}
	}

	email := fmt.Sprintf("%s.%s@example.com",
		strings.ToLower(strings.TrimSpace(first)),
		strings.ToLower(strings.TrimSpace(last)))
	switch v := r.Float64(); {
	case v < 0.05:
		email = fmt.Sprintf("%s@%s.com",
			strings.ToLower(strings.TrimSpace(first)),
			strings.ToLower(strings.TrimSpace(last)))
	case v < 0.07:
		email = ""
	}

	joinDate := joined.Format("2006-01-02")
	if r.Float64() < dateFormatRate {
		joinDate = joined.Format(pick(r, []string{
			"02/01/2006", "01/02/2006", "02-01-2006", "01-02-2006", "20060102", "January 2, 2006",
		}))
	}

	if r.Float64() < outlierRate {
		salary = pick(r, []int{1000, 5000, 10000, 500000, 1000000})
	}

	var comments []string
	if r.Float64() < 0.7 {
		comments = append(comments, pick(r, commentPool))
	}
	if r.Float64() < specialRate {
		comments = append(comments, pick(r, specialComments))
	}

	sparse := ""
	if r.Float64() < sparseFillRate {
		sparse = pick(r, []string{"A", "B", "C"})
	}

	salaryStr := fmt.Sprintf("%d", salary)
	return []string{
		fmt.Sprintf("%d", id),
		first,
		last,
		first + " " + last,
		age,
		email,
		salaryStr,
		salaryStr,
		joinDate,
		pick(r, departments),
		pick(r, cities),
		phone,
		rating,
		strings.Join(comments, ", "),
		pick(r, activeValues),
		pick(r, managers),
		"", // Empty_Column
		"", // Another Empty Column
		sparse,
	}
}

func pick[T any](r *rand.Rand, from []T) T {
	return from[r.Intn(len(from))]
}
