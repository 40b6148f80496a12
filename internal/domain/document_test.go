package domain

import "testing"

func TestFiltersMatches(t *testing.T) {
	doc := Document{
		StudentRoom:    "101",
		StudentYear:    "2",
		TeacherSubject: "biology",
	}

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"empty filters match everything", Filters{}, true},
		{"room match", Filters{Room: "101"}, true},
		{"room mismatch", Filters{Room: "102"}, false},
		{"year mismatch excludes regardless of other fields", Filters{Year: "3", Room: "101"}, false},
		{"all present and matching", Filters{Room: "101", Year: "2", Subject: "biology"}, true},
		{"subject mismatch", Filters{Subject: "physics"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.Matches(&doc); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFiltersIsEmpty(t *testing.T) {
	if !(Filters{}).IsEmpty() {
		t.Error("zero-value filters should be empty")
	}
	if (Filters{Year: "2"}).IsEmpty() {
		t.Error("filters with a year constraint should not be empty")
	}
}
