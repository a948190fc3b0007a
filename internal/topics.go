package internal

import "strings"

// TopicRule maps a topic label to case-insensitive keyword substrings
type TopicRule struct {
	Label    string   `yaml:"label" json:"label"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// TopicTable is an ordered set of rules. Order breaks ties between topics
// with equal counts.
type TopicTable []TopicRule

// DefaultTopics returns the portfolio assistant's topic table
func DefaultTopics() TopicTable {
	return TopicTable{
		{Label: "Skills & Technologies", Keywords: []string{"skill", "technology", "tech", "react", "vue", "typescript", "python", "stencil"}},
		{Label: "Availability & Hiring", Keywords: []string{"available", "hire", "freelance", "work", "project", "rate", "cost"}},
		{Label: "Experience", Keywords: []string{"experience", "years", "worked", "built", "background"}},
		{Label: "Projects", Keywords: []string{"project", "portfolio", "built", "created", "example"}},
		{Label: "Contact", Keywords: []string{"contact", "email", "reach", "get in touch", "phone"}},
	}
}

// Classify returns the labels of every rule matching question. A question
// can fall under several topics, or none.
func (t TopicTable) Classify(question string) []string {
	q := strings.ToLower(question)
	var labels []string
	for _, rule := range t {
		if rule.matches(q) {
			labels = append(labels, rule.Label)
		}
	}
	return labels
}

func (r TopicRule) matches(lowered string) bool {
	for _, kw := range r.Keywords {
		kw = strings.ToLower(kw)
		if kw != "" && strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
