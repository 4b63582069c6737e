package f

import (
	"reflect"
	"slices"
	"testing"
)

func TestSet(t *testing.T) {
	s := NewSet[string]()
	if s.Contains("a.go") {
		t.Error("New Set should be empty")
	}
	s.Add("a.go")
	s.Add("b.go")
	s.Add("a.go")
	if !s.Contains("a.go") || !s.Contains("b.go") {
		t.Error("Set should contain Added items")
	}
	items := s.Items()
	slices.Sort(items)
	if !reflect.DeepEqual(items, []string{"a.go", "b.go"}) {
		t.Errorf("Items should return each item once, got %v", items)
	}
}

func TestMap(t *testing.T) {
	paths := []string{"a.go", "b/c.go"}
	prefixed := Map(paths, func(p string) string { return "b/" + p })
	if !reflect.DeepEqual(prefixed, []string{"b/a.go", "b/b/c.go"}) {
		t.Error("Should prefix each path")
	}
}

func TestFiltered(t *testing.T) {
	ts := []int{1, 2, 3, 4, 5, 6, 7}
	f := func(t int) bool {
		return t%2 == 0
	}
	if !reflect.DeepEqual(Filtered(ts, f), []int{2, 4, 6}) {
		t.Error("Should filter out odd numbers")
	}
}

func TestRemoveDuplicates(t *testing.T) {
	ts := []string{"b.go", "a.go", "b.go", "c.go", "a.go"}
	got := RemoveDuplicates(ts)
	if !reflect.DeepEqual(got, []string{"b.go", "a.go", "c.go"}) {
		t.Errorf("Should remove duplicates keeping first occurrence, got %v", got)
	}
	if !reflect.DeepEqual(ts, []string{"b.go", "a.go", "b.go", "c.go", "a.go"}) {
		t.Error("Input should not be modified")
	}
}
