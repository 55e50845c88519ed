package reports

import (
	"encoding/json"
	"testing"
)

func TestDocumentMarshalPreservesOrder(t *testing.T) {
	doc := Document{
		Name: "sample",
		Sections: []Section{
			{Name: "zebra", Facts: []Fact{{"z", 1}, {"a", 2}}},
			{Name: "alpha", Headers: []string{"b", "a"}, Rows: []map[string]interface{}{
				{"a": "one", "b": "two"},
			}},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"zebra":{"z":1,"a":2},"alpha":[{"b":"two","a":"one"}]}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestDocumentMarshalEmptyListSection(t *testing.T) {
	doc := Document{
		Name:     "sample",
		Sections: []Section{{Name: "empty", Headers: []string{"a"}, Rows: nil}},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"empty":[]}` {
		t.Fatalf("got %s", data)
	}
}

func TestSectionIsList(t *testing.T) {
	list := Section{Name: "rows", Headers: []string{"a"}}
	if !list.IsList() {
		t.Fatalf("section with no facts should be list-shaped")
	}
	facts := Section{Name: "facts", Facts: []Fact{{"k", "v"}}}
	if facts.IsList() {
		t.Fatalf("section with facts should not be list-shaped")
	}
}
