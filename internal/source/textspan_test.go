package source

import (
	"errors"
	"math"
	"testing"
)

func TestTextSpanEndAndEmpty(t *testing.T) {
	for _, tc := range []struct{ start, length uint32 }{{0, 0}, {0, 5}, {10, 0}, {10, 10}, {1 << 20, 3}} {
		s := NewTextSpan(tc.start, tc.length)
		if s.End() != tc.start+tc.length {
			t.Errorf("%v.End() = %d, want %d", s, s.End(), tc.start+tc.length)
		}
		if s.IsEmpty() != (tc.length == 0) {
			t.Errorf("%v.IsEmpty() = %v", s, s.IsEmpty())
		}
		if !s.ContainsTextSpan(s) {
			t.Errorf("%v must contain itself", s)
		}
	}
}

func TestTextSpanEndSaturates(t *testing.T) {
	s := NewTextSpan(math.MaxUint32, 2)
	if s.End() != math.MaxUint32 || s.End() < s.Start {
		t.Errorf("NewTextSpan(MaxUint32, 2) = %+v, End %d", s, s.End())
	}
	if !s.IsEmpty() {
		t.Errorf("clamped span should be empty: %+v", s)
	}
	if got := NewTextSpan(math.MaxUint32-3, 10); got.Length != 3 {
		t.Errorf("length not clamped: %+v", got)
	}

	// литерал мимо NewTextSpan
	lit := TextSpan{Start: math.MaxUint32 - 1, Length: 5}
	if lit.End() != math.MaxUint32 {
		t.Errorf("literal End() = %d", lit.End())
	}
	if !lit.ContainsPosition(math.MaxUint32 - 1) {
		t.Error("non-empty span must contain its start")
	}
	if !lit.IntersectsWithPosition(math.MaxUint32) {
		t.Error("end must intersect")
	}
}

func TestTextSpanFromBounds(t *testing.T) {
	s, err := TextSpanFromBounds(3, 8)
	if err != nil || s != NewTextSpan(3, 5) {
		t.Fatalf("TextSpanFromBounds(3, 8) = %v, %v", s, err)
	}
	if s, err := TextSpanFromBounds(4, 4); err != nil || !s.IsEmpty() {
		t.Errorf("TextSpanFromBounds(4, 4) = %v, %v", s, err)
	}

	_, err = TextSpanFromBounds(10, 5)
	var ebs *EndBeforeStartError
	if !errors.As(err, &ebs) {
		t.Fatalf("expected *EndBeforeStartError, got %v", err)
	}
	if ebs.Start != 10 || ebs.End != 5 {
		t.Errorf("error fields = %+v, want start 10 end 5", ebs)
	}
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Error("errors.Is(err, ErrEndBeforeStart) = false")
	}
	if errors.Is(err, ErrNegativeInput) {
		t.Error("EndBeforeStart must not match ErrNegativeInput")
	}
	if want := "the supplied end (5) is smaller than the start (10)"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCreateTextSpan(t *testing.T) {
	tests := []struct {
		name      string
		start     int
		length    int
		want      TextSpan
		wantField string
		wantErr   bool
	}{
		{name: "valid", start: 2, length: 3, want: NewTextSpan(2, 3)},
		{name: "zero", start: 0, length: 0, want: NewTextSpan(0, 0)},
		{name: "negative start", start: -1, length: 3, wantField: "start", wantErr: true},
		{name: "both negative reports start", start: -1, length: -1, wantField: "start", wantErr: true},
		{name: "negative length", start: 1, length: -4, wantField: "length", wantErr: true},
		{name: "start beyond uint32", start: math.MaxUint32 + 1, length: 0, wantErr: true},
		{name: "end beyond uint32", start: math.MaxUint32, length: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateTextSpan(tt.start, tt.length)
			if !tt.wantErr {
				if err != nil || got != tt.want {
					t.Fatalf("CreateTextSpan(%d, %d) = %v, %v; want %v", tt.start, tt.length, got, err, tt.want)
				}
				return
			}
			if err == nil {
				t.Fatalf("CreateTextSpan(%d, %d) succeeded, want error", tt.start, tt.length)
			}
			var neg *NegativeInputError
			if tt.wantField == "" {
				if errors.As(err, &neg) {
					t.Errorf("overflow reported as negative input: %v", err)
				}
				return
			}
			if !errors.As(err, &neg) || neg.Field != tt.wantField {
				t.Errorf("error = %v, want NegativeInputError on %q", err, tt.wantField)
			}
			if !errors.Is(err, ErrNegativeInput) {
				t.Error("errors.Is(err, ErrNegativeInput) = false")
			}
		})
	}
}

func TestCreateTextSpanFromBounds(t *testing.T) {
	if s, err := CreateTextSpanFromBounds(4, 9); err != nil || s != NewTextSpan(4, 5) {
		t.Errorf("CreateTextSpanFromBounds(4, 9) = %v, %v", s, err)
	}
	_, err := CreateTextSpanFromBounds(9, 4)
	var neg *NegativeInputError
	if !errors.As(err, &neg) || neg.Field != "length" || neg.Value != -5 {
		t.Errorf("CreateTextSpanFromBounds(9, 4) error = %v", err)
	}
	if want := "length < 0 (got -5)"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTextSpanPositions(t *testing.T) {
	s := NewTextSpan(5, 5) // [5,10)
	tests := []struct {
		pos        uint32
		contains   bool
		intersects bool
	}{
		{4, false, false},
		{5, true, true},
		{9, true, true},
		{10, false, true}, // конец: contains исключает, intersects включает
		{11, false, false},
	}
	for _, tt := range tests {
		if got := s.ContainsPosition(tt.pos); got != tt.contains {
			t.Errorf("ContainsPosition(%d) = %v, want %v", tt.pos, got, tt.contains)
		}
		if got := s.IntersectsWithPosition(tt.pos); got != tt.intersects {
			t.Errorf("IntersectsWithPosition(%d) = %v, want %v", tt.pos, got, tt.intersects)
		}
	}

	empty := NewTextSpan(7, 0)
	if empty.ContainsPosition(7) {
		t.Error("empty span must not contain its start")
	}
	if !empty.IntersectsWithPosition(7) {
		t.Error("empty span must intersect its start")
	}
}

func TestTextSpanContainsTextSpan(t *testing.T) {
	outer := NewTextSpan(0, 10)
	tests := []struct {
		inner TextSpan
		want  bool
	}{
		{NewTextSpan(0, 10), true},
		{NewTextSpan(2, 3), true},
		{NewTextSpan(10, 0), true},
		{NewTextSpan(5, 6), false},
		{NewTextSpan(11, 0), false},
	}
	for _, tt := range tests {
		if got := outer.ContainsTextSpan(tt.inner); got != tt.want {
			t.Errorf("%v.ContainsTextSpan(%v) = %v, want %v", outer, tt.inner, got, tt.want)
		}
	}
}

func TestTextSpanTouching(t *testing.T) {
	a := NewTextSpan(0, 5)
	b := NewTextSpan(5, 3)

	in, ok := a.Intersection(b)
	if !ok || in != NewTextSpan(5, 0) {
		t.Errorf("Intersection = %v, %v; want [5,5), true", in, ok)
	}
	if _, ok := a.Overlap(b); ok {
		t.Error("touching spans must not overlap")
	}
	if a.OverlapsWith(b) || b.OverlapsWith(a) {
		t.Error("OverlapsWith must be false for touching spans")
	}
	if !a.IntersectsWith(b) || !b.IntersectsWith(a) {
		t.Error("IntersectsWith must be true for touching spans")
	}
}

func TestTextSpanIntersectionAndOverlap(t *testing.T) {
	tests := []struct {
		name        string
		a, b        TextSpan
		inter       TextSpan
		interOK     bool
		overlapOK   bool
		intersectsW bool
	}{
		{"nested", NewTextSpan(0, 10), NewTextSpan(2, 3), NewTextSpan(2, 3), true, true, true},
		{"partial", NewTextSpan(0, 6), NewTextSpan(4, 6), NewTextSpan(4, 2), true, true, true},
		{"disjoint", NewTextSpan(0, 3), NewTextSpan(5, 3), TextSpan{}, false, false, false},
		{"empty inside", NewTextSpan(0, 10), NewTextSpan(4, 0), NewTextSpan(4, 0), true, false, true},
		{"equal", NewTextSpan(3, 4), NewTextSpan(3, 4), NewTextSpan(3, 4), true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := tt.a.Intersection(tt.b)
			if ok != tt.interOK || in != tt.inter {
				t.Errorf("Intersection = %v, %v; want %v, %v", in, ok, tt.inter, tt.interOK)
			}
			if got := tt.a.OverlapsWith(tt.b); got != tt.overlapOK {
				t.Errorf("OverlapsWith = %v, want %v", got, tt.overlapOK)
			}
			if got := tt.b.OverlapsWith(tt.a); got != tt.overlapOK {
				t.Errorf("OverlapsWith is not symmetric")
			}
			if got := tt.a.IntersectsWith(tt.b); got != tt.intersectsW {
				t.Errorf("IntersectsWith = %v, want %v", got, tt.intersectsW)
			}
			if tt.a.OverlapsWith(tt.b) && !tt.a.IntersectsWith(tt.b) {
				t.Error("overlap must imply intersect")
			}
		})
	}
}

// TestTextSpanProperties проверяет инварианты на небольшой сетке значений.
func TestTextSpanProperties(t *testing.T) {
	var spans []TextSpan
	for start := uint32(0); start < 6; start++ {
		for length := uint32(0); length < 4; length++ {
			spans = append(spans, NewTextSpan(start, length))
		}
	}
	for _, a := range spans {
		for _, b := range spans {
			if a.OverlapsWith(b) != b.OverlapsWith(a) {
				t.Fatalf("OverlapsWith not symmetric for %v, %v", a, b)
			}
			if a.OverlapsWith(b) && !a.IntersectsWith(b) {
				t.Fatalf("%v overlaps %v but does not intersect", a, b)
			}
			if ov, ok := a.Overlap(b); ok && (ov.IsEmpty() || !a.ContainsTextSpan(ov) || !b.ContainsTextSpan(ov)) {
				t.Fatalf("bad overlap %v of %v and %v", ov, a, b)
			}
		}
	}
}

func TestTextSpanString(t *testing.T) {
	if got := NewTextSpan(3, 4).String(); got != "[3,7)" {
		t.Errorf("String() = %q", got)
	}
}
