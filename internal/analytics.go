package internal

import (
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// TopQuestionLimit caps Snapshot.TopQuestions
const TopQuestionLimit = 5

// QuestionCount is a normalized question and how often it was asked
type QuestionCount struct {
	Question string `json:"question" yaml:"question"`
	Count    int    `json:"count" yaml:"count"`
}

// DateLayout formats the calendar date of a DateCount
const DateLayout = "2006-01-02"

// DateCount is the number of questions asked on one calendar date
type DateCount struct {
	Date  time.Time // midnight in the grouping location
	Count int
}

// dateCountDoc is the serialized form of a DateCount
type dateCountDoc struct {
	Date  string `json:"date" yaml:"date"`
	Count int    `json:"count" yaml:"count"`
}

// MarshalJSON writes the date as YYYY-MM-DD
func (d DateCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(dateCountDoc{Date: d.Date.Format(DateLayout), Count: d.Count})
}

// UnmarshalJSON reads a YYYY-MM-DD date as midnight UTC
func (d *DateCount) UnmarshalJSON(data []byte) error {
	var doc dateCountDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	date, err := time.Parse(DateLayout, doc.Date)
	if err != nil {
		return err
	}
	d.Date, d.Count = date, doc.Count
	return nil
}

// MarshalYAML writes the date as YYYY-MM-DD
func (d DateCount) MarshalYAML() (interface{}, error) {
	return dateCountDoc{Date: d.Date.Format(DateLayout), Count: d.Count}, nil
}

// TopicCount is the number of questions matching one topic
type TopicCount struct {
	Topic string `json:"topic" yaml:"topic"`
	Count int    `json:"count" yaml:"count"`
}

// Snapshot is a derived summary of the whole log. It is never stored.
type Snapshot struct {
	TotalQuestions        int             `json:"totalQuestions" yaml:"totalQuestions"`
	TopQuestions          []QuestionCount `json:"topQuestions" yaml:"topQuestions"`
	QuestionsOverTime     []DateCount     `json:"questionsOverTime" yaml:"questionsOverTime"`
	AverageQuestionLength int             `json:"averageQuestionLength" yaml:"averageQuestionLength"`
	Topics                []TopicCount    `json:"topics" yaml:"topics"`
	LastUpdated           time.Time       `json:"lastUpdated" yaml:"lastUpdated"`
}

// ActiveDays is the number of distinct calendar dates with questions
func (s *Snapshot) ActiveDays() int {
	return len(s.QuestionsOverTime)
}

// Share returns count as a rounded percentage of all questions
func (s *Snapshot) Share(count int) int {
	if s.TotalQuestions == 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(s.TotalQuestions)))
}

// NormalizeQuestion case-folds and trims a question for frequency counting
func NormalizeQuestion(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// DeriveSnapshot computes statistics over entries. It reports false when
// entries is empty, so "no data" is distinct from a snapshot of zeros.
// Dates are grouped in loc (time.Local when nil).
func DeriveSnapshot(entries []QuestionLogEntry, topics TopicTable, loc *time.Location) (*Snapshot, bool) {
	if len(entries) == 0 {
		return nil, false
	}
	if loc == nil {
		loc = time.Local
	}

	snap := &Snapshot{
		TotalQuestions:    len(entries),
		TopQuestions:      topQuestions(entries),
		QuestionsOverTime: questionsOverTime(entries, loc),
		Topics:            topicCounts(entries, topics),
		LastUpdated:       entries[len(entries)-1].Timestamp,
	}

	totalLength := 0
	for _, e := range entries {
		totalLength += utf8.RuneCountInString(e.Question)
	}
	snap.AverageQuestionLength = int(math.Round(float64(totalLength) / float64(len(entries))))

	return snap, true
}

func topQuestions(entries []QuestionLogEntry) []QuestionCount {
	counts := make(map[string]int)
	var order []string
	for _, e := range entries {
		q := NormalizeQuestion(e.Question)
		if _, seen := counts[q]; !seen {
			order = append(order, q)
		}
		counts[q]++
	}

	result := make([]QuestionCount, 0, len(order))
	for _, q := range order {
		result = append(result, QuestionCount{Question: q, Count: counts[q]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	if len(result) > TopQuestionLimit {
		result = result[:TopQuestionLimit]
	}
	return result
}

func questionsOverTime(entries []QuestionLogEntry, loc *time.Location) []DateCount {
	type day struct {
		y int
		m time.Month
		d int
	}
	counts := make(map[day]int)
	for _, e := range entries {
		y, m, d := e.Timestamp.In(loc).Date()
		counts[day{y, m, d}]++
	}

	result := make([]DateCount, 0, len(counts))
	for k, n := range counts {
		result = append(result, DateCount{Date: time.Date(k.y, k.m, k.d, 0, 0, 0, 0, loc), Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

func topicCounts(entries []QuestionLogEntry, topics TopicTable) []TopicCount {
	counts := make(map[string]int)
	for _, e := range entries {
		for _, label := range topics.Classify(e.Question) {
			counts[label]++
		}
	}

	result := make([]TopicCount, 0, len(counts))
	seen := make(map[string]bool)
	for _, rule := range topics {
		if n := counts[rule.Label]; n > 0 && !seen[rule.Label] {
			seen[rule.Label] = true
			result = append(result, TopicCount{Topic: rule.Label, Count: n})
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}
