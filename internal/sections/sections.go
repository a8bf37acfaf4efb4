// Package sections holds the built-in store section briefs: curated
// per-department stats and optimization suggestions shown outside the live
// board. The data is static; live zone numbers come from the backend.
package sections

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Suggestion is one optimization idea with its expected impact.
type Suggestion struct {
	Title  string
	Impact string
}

// Section is a curated department brief.
type Section struct {
	Slug        string
	Name        string
	Description string
	Items       []string
	Efficiency  int    // percent
	Revenue     int    // expected revenue impact, percent
	FootTraffic int    // daily visitors
	AvgDwell    string // e.g. "2.3 min"
	Conversion  int    // percent
	Suggestions []Suggestion
}

var sections = map[string]Section{
	"produce": {
		Slug:        "produce",
		Name:        "Produce",
		Description: "Fresh fruits and vegetables section optimization",
		Items:       []string{"Apples", "Bananas", "Lettuce", "Tomatoes", "Carrots", "Onions"},
		Efficiency:  82,
		Revenue:     12,
		FootTraffic: 145,
		AvgDwell:    "2.3 min",
		Conversion:  68,
		Suggestions: []Suggestion{
			{Title: "Move seasonal fruits to eye level", Impact: "+8% sales"},
			{Title: "Create organic produce endcap", Impact: "+15% margin"},
			{Title: "Optimize refrigeration layout", Impact: "+5% efficiency"},
		},
	},
	"dairy": {
		Slug:        "dairy",
		Name:        "Dairy",
		Description: "Milk, cheese, and dairy products section optimization",
		Items:       []string{"Milk", "Cheese", "Yogurt", "Butter", "Eggs", "Cream"},
		Efficiency:  89,
		Revenue:     18,
		FootTraffic: 198,
		AvgDwell:    "1.8 min",
		Conversion:  74,
		Suggestions: []Suggestion{
			{Title: "Expand plant-based alternatives", Impact: "+22% sales"},
			{Title: "Optimize cold chain efficiency", Impact: "+12% cost saving"},
			{Title: "Create family-size bundles", Impact: "+9% basket size"},
		},
	},
	"meat": {
		Slug:        "meat",
		Name:        "Meat & Seafood",
		Description: "Fresh meat and seafood section optimization",
		Items:       []string{"Beef", "Chicken", "Pork", "Fish", "Shrimp", "Deli Meats"},
		Efficiency:  76,
		Revenue:     25,
		FootTraffic: 167,
		AvgDwell:    "3.1 min",
		Conversion:  61,
		Suggestions: []Suggestion{
			{Title: "Implement dynamic pricing", Impact: "+19% margin"},
			{Title: "Create value-pack promotions", Impact: "+14% volume"},
			{Title: "Optimize display temperature", Impact: "+8% freshness"},
		},
	},
	"grocery": {
		Slug:        "grocery",
		Name:        "Grocery",
		Description: "Packaged and canned goods section optimization",
		Items:       []string{"Canned Goods", "Pasta", "Rice", "Snacks", "Beverages", "Condiments"},
		Efficiency:  91,
		Revenue:     16,
		FootTraffic: 234,
		AvgDwell:    "4.2 min",
		Conversion:  79,
		Suggestions: []Suggestion{
			{Title: "Reorganize by meal occasions", Impact: "+11% basket size"},
			{Title: "Create cross-category displays", Impact: "+7% discovery"},
			{Title: "Optimize shelf height allocation", Impact: "+13% visibility"},
		},
	},
}

// Get looks up a section brief by slug.
func Get(slug string) (Section, bool) {
	s, ok := sections[strings.ToLower(strings.TrimSpace(slug))]
	return s, ok
}

// Slugs returns the known section slugs in stable order.
func Slugs() []string {
	out := make([]string, 0, len(sections))
	for slug := range sections {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// Markdown renders the section brief as a markdown document.
func (s Section) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", s.Name, s.Description)

	b.WriteString("## Metrics\n\n")
	fmt.Fprintf(&b, "| Efficiency | Daily Traffic | Avg. Dwell | Conversion | Revenue Impact |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d%% | %d | %s | %d%% | +%d%% |\n\n",
		s.Efficiency, s.FootTraffic, s.AvgDwell, s.Conversion, s.Revenue)

	b.WriteString("## Top Products\n\n")
	for i, item := range s.Items {
		// Relative strength falls off down the ranking.
		fmt.Fprintf(&b, "%d. %s (%d%%)\n", i+1, item, 100-i*12)
	}
	b.WriteString("\n## Optimization Suggestions\n\n")
	for _, sug := range s.Suggestions {
		fmt.Fprintf(&b, "- **%s** (expected impact: %s)\n", sug.Title, sug.Impact)
	}
	return b.String()
}

// Render renders the brief for a terminal. Falls back to raw markdown when
// the renderer cannot be built (e.g. no TTY style detection).
func (s Section) Render(width int) string {
	if width <= 0 {
		width = 80
	}
	md := s.Markdown()
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}
