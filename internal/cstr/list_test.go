package cstr

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFreeList_ReleasesEveryAllocation(t *testing.T) {
	for _, items := range [][]string{nil, {"one"}, {"a", "b", "c", "d"}} {
		tr := NewTracker(nil)
		c := &Copier{Alloc: tr}

		l, err := NewList(c, items...)
		if err != nil {
			t.Fatalf("NewList: %v", err)
		}
		if l[len(l)-1] != nil {
			t.Fatal("list is missing its sentinel")
		}
		if diff := cmp.Diff(len(items), l.Len()); diff != "" {
			t.Errorf("Len mismatch:\n%s", diff)
		}

		FreeList(tr, l)

		want := Stats{Allocs: len(items) + 1, Frees: len(items) + 1}
		if diff := cmp.Diff(want, tr.Stats()); diff != "" {
			t.Errorf("%d items: stats mismatch (-want +got):\n%s", len(items), diff)
		}
	}
}

func TestFreeList_ClearsSlots(t *testing.T) {
	tr := NewTracker(nil)
	l, err := NewList(&Copier{Alloc: tr}, "x", "y")
	if err != nil {
		t.Fatalf("NewList: %v", err)
	}
	FreeList(tr, l)
	if l.Len() != 0 {
		t.Errorf("freed list still has %d entries", l.Len())
	}

	FreeList(tr, l)
	if got := tr.Stats().DoubleFrees; got != 1 {
		t.Errorf("second free of the array: DoubleFrees = %d, want 1", got)
	}
}

func TestFreeList_Unterminated(t *testing.T) {
	tr := NewTracker(nil)
	l, err := tr.AllocList(2)
	if err != nil {
		t.Fatalf("AllocList: %v", err)
	}
	for i := range l {
		s, err := tr.AllocString(2)
		if err != nil {
			t.Fatalf("AllocString: %v", err)
		}
		l[i] = s
	}

	FreeList(tr, l)

	if st := tr.Stats(); st.Live != 0 || st.Frees != 3 {
		t.Errorf("stats = %+v", st)
	}
}

func TestFreeList_Nil(t *testing.T) {
	tr := NewTracker(nil)
	FreeList(tr, nil)
	if diff := cmp.Diff(Stats{}, tr.Stats()); diff != "" {
		t.Errorf("stats mismatch:\n%s", diff)
	}
}

func TestNewList_FailureReleasesPartialWork(t *testing.T) {
	heap := NewHeap(3*slotSize + 4)
	tr := NewTracker(heap)
	c := &Copier{Alloc: tr, Policy: PolicyPropagate}

	_, err := NewList(c, "ab", "cd")
	if !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("err = %v, want ErrOutOfMemory", err)
	}
	st := tr.Stats()
	if st.Leaked() {
		t.Errorf("leaked %d allocations", st.Live)
	}
	if st.Failed != 1 {
		t.Errorf("Failed = %d, want 1", st.Failed)
	}
	if heap.InUse() != 0 {
		t.Errorf("heap still charged %d bytes", heap.InUse())
	}
}

func TestList_Strings(t *testing.T) {
	l, err := NewList(&Copier{}, "alpha", "", "gamma")
	if err != nil {
		t.Fatalf("NewList: %v", err)
	}
	want := []string{"alpha", "", "gamma"}
	if diff := cmp.Diff(want, l.Strings()); diff != "" {
		t.Errorf("Strings mismatch (-want +got):\n%s", diff)
	}
}
