package internal

import (
	"reflect"
	"testing"
)

func TestTopicTable_Classify(t *testing.T) {
	topics := DefaultTopics()

	tests := []struct {
		name     string
		question string
		want     []string
	}{
		{
			name:     "counts toward every matching topic",
			question: "Can I hire someone who knows React?",
			want:     []string{"Skills & Technologies", "Availability & Hiring"},
		},
		{
			name:     "case insensitive",
			question: "TYPESCRIPT experience?",
			want:     []string{"Skills & Technologies", "Experience"},
		},
		{
			name:     "multi word keyword",
			question: "How do I get in touch?",
			want:     []string{"Contact"},
		},
		{
			name:     "substring match",
			question: "Is he skilled?",
			want:     []string{"Skills & Technologies"},
		},
		{
			name:     "no topic",
			question: "Hello there",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := topics.Classify(tt.question)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %v, want %v", tt.question, got, tt.want)
			}
		})
	}
}

func TestTopicTable_CustomRules(t *testing.T) {
	topics := TopicTable{
		{Label: "Pricing", Keywords: []string{"Price", "budget"}},
		{Label: "Empty", Keywords: []string{""}},
	}

	if got := topics.Classify("What's the price?"); !reflect.DeepEqual(got, []string{"Pricing"}) {
		t.Errorf("Classify() = %v, want [Pricing]", got)
	}
	if got := topics.Classify("anything"); got != nil {
		t.Errorf("empty keywords should never match, got %v", got)
	}
}

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics()
	if len(topics) != 5 {
		t.Fatalf("len(DefaultTopics()) = %d, want 5", len(topics))
	}
	for _, rule := range topics {
		if rule.Label == "" || len(rule.Keywords) == 0 {
			t.Errorf("incomplete rule %+v", rule)
		}
	}
}
