package metrics

import (
	"reflect"
	"testing"
)

func TestRecord_MergeLastWriteWins(t *testing.T) {
	r := NewRecord().
		Merge(heapUse.New(int64(1)), vmName.New("first")).
		Merge(vmName.New("second"))

	if r.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", r.Len())
	}
	m, ok := r.Get("vmName")
	if !ok || m.Value != "second" {
		t.Errorf("vmName = %v; want second", m.Value)
	}
}

func TestRecord_FieldsSortedByName(t *testing.T) {
	r := NewRecord().Merge(vmName.New("x"), uptime.New(1), heapUse.New(2))

	var got []string
	for _, m := range r.Fields() {
		got = append(got, m.Name())
	}
	want := []string{"heapUse", "uptime", "vmName"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Fields() names = %v; want %v", got, want)
	}
}

func TestRecord_ProjectTo(t *testing.T) {
	r := NewRecord().Merge(vmName.New("x"), uptime.New(1), heapUse.New(2)).WithSource("42")

	p := r.ProjectTo(NewNameSet("uptime", "vmName", "absent"))
	if got, want := p.Names(), []string{"uptime", "vmName"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ProjectTo names = %v; want %v", got, want)
	}
	if p.Source() != "42" {
		t.Errorf("ProjectTo source = %q; want 42", p.Source())
	}
	if r.Len() != 3 {
		t.Errorf("ProjectTo modified the original record: Len() = %d", r.Len())
	}
}

func TestRecord_ProjectToEmptyIsCopy(t *testing.T) {
	r := NewRecord().Merge(vmName.New("x"), uptime.New(1))

	p := r.ProjectTo(NewNameSet())
	if !reflect.DeepEqual(p.Names(), r.Names()) {
		t.Errorf("ProjectTo(empty) names = %v; want %v", p.Names(), r.Names())
	}
	p.Merge(heapUse.New(1))
	if r.Len() != 2 {
		t.Errorf("copy shares storage with original: Len() = %d", r.Len())
	}
}

func TestRecord_IsEmpty(t *testing.T) {
	var nilRec *Record
	if !nilRec.IsEmpty() {
		t.Error("nil record should be empty")
	}
	if !NewRecord().IsEmpty() {
		t.Error("new record should be empty")
	}
	if NewRecord().Merge(heapUse.Empty()).IsEmpty() {
		t.Error("record with a placeholder should not be empty")
	}
}

func TestNameSet(t *testing.T) {
	s := NewNameSet("b", " a ", "", "b")
	if got, want := s.Sorted(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v; want %v", got, want)
	}
	if !s.Has("a") || s.Has("c") {
		t.Errorf("Has mismatch for %v", s)
	}
}

func TestSnapshot_Columns(t *testing.T) {
	s := NewSnapshot("localhost", []*Record{
		NewRecord().Merge(vmName.New("x"), heapUse.New(1)),
	})
	if got, want := s.Columns(), []string{"heapUse", "vmName"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v; want %v", got, want)
	}
	if got := s.Metrics(); len(got) != 2 || got[0] != heapUse {
		t.Errorf("Metrics() = %v", got)
	}
	if (&Snapshot{}).Columns() != nil {
		t.Error("empty snapshot should have no columns")
	}
}
