package position

import (
	"testing"
)

func TestPosition(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		pos      Position
		isValid  bool
	}{
		{
			name:     "Valid position with filename",
			pos:      Position{Filename: "fixtures/modules.rs", Line: 10, Column: 5, Offset: 100},
			isValid:  true,
			expected: "fixtures/modules.rs:10:5",
		},
		{
			name:     "Module files in different directories",
			pos:      Position{Filename: "geo/mod.rs", Line: 2, Column: 1, Offset: 20},
			isValid:  true,
			expected: "geo/mod.rs:2:1",
		},
		{
			name:     "Valid position without filename",
			pos:      Position{Line: 1, Column: 1, Offset: 0},
			isValid:  true,
			expected: "1:1",
		},
		{
			name:    "Invalid position - zero line",
			pos:     Position{Line: 0, Column: 1},
			isValid: false,
		},
		{
			name:    "Invalid position - negative offset",
			pos:     Position{Line: 1, Column: 1, Offset: -1},
			isValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pos.IsValid(); got != tt.isValid {
				t.Errorf("IsValid() = %v, want %v", got, tt.isValid)
			}
			if tt.isValid {
				if got := tt.pos.String(); got != tt.expected {
					t.Errorf("String() = %q, want %q", got, tt.expected)
				}
			}
		})
	}
}

func TestSpanStringAndContains(t *testing.T) {
	span := Span{
		Start: Position{Line: 2, Column: 5, Offset: 12},
		End:   Position{Line: 2, Column: 14, Offset: 21},
	}

	if got := span.String(); got != "2:5-14" {
		t.Errorf("String() = %q, want %q", got, "2:5-14")
	}

	if !span.Contains(Position{Line: 2, Column: 6, Offset: 13}) {
		t.Error("span should contain offset 13")
	}

	if span.Contains(Position{Line: 2, Column: 14, Offset: 21}) {
		t.Error("span end is exclusive")
	}

	multi := Span{
		Start: Position{Line: 1, Column: 1, Offset: 0},
		End:   Position{Line: 3, Column: 2, Offset: 30},
	}
	if got := multi.String(); got != "1:1-3:2" {
		t.Errorf("String() = %q, want %q", got, "1:1-3:2")
	}
}

func TestSpanTo(t *testing.T) {
	a := Span{Start: Position{Line: 1, Column: 1, Offset: 0}, End: Position{Line: 1, Column: 4, Offset: 3}}
	b := Span{Start: Position{Line: 1, Column: 6, Offset: 5}, End: Position{Line: 1, Column: 9, Offset: 8}}

	joined := a.To(b)
	if joined.Start.Offset != 0 || joined.End.Offset != 8 {
		t.Errorf("To() = %v, want 0..8", joined)
	}

	if got := a.To(Span{}); got != a {
		t.Errorf("To(invalid) = %v, want %v", got, a)
	}
}

func TestCompare(t *testing.T) {
	early := Span{Start: Position{Offset: 1}, End: Position{Offset: 4}}
	late := Span{Start: Position{Offset: 7}, End: Position{Offset: 9}}

	if Compare(early, late) >= 0 {
		t.Error("early span should sort first")
	}
	if Compare(late, early) <= 0 {
		t.Error("late span should sort last")
	}
	if Compare(early, early) != 0 {
		t.Error("span should compare equal to itself")
	}
}

func TestSourceFile(t *testing.T) {
	sf := NewSourceFile("main.rs", "mod math {\n    fn cos() {}\n}\n")

	if got := sf.GetLine(2); got != "    fn cos() {}" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := sf.GetLine(99); got != "" {
		t.Errorf("GetLine(99) = %q, want empty", got)
	}

	pos := sf.PositionFromOffset(15)
	if pos.Line != 2 || pos.Column != 5 {
		t.Errorf("PositionFromOffset(15) = %d:%d, want 2:5", pos.Line, pos.Column)
	}

	span := Span{Start: sf.PositionFromOffset(18), End: sf.PositionFromOffset(21)}
	if got := sf.GetSpanText(span); got != "cos" {
		t.Errorf("GetSpanText() = %q, want %q", got, "cos")
	}
}

func TestHighlight(t *testing.T) {
	sf := NewSourceFile("main.rs", "fn main() {\n    math::cos(5.0);\n}\n")
	span := Span{Start: sf.PositionFromOffset(16), End: sf.PositionFromOffset(25)}

	want := "2 |     math::cos(5.0);\n  |     ^^^^^^^^^\n"
	if got := sf.Highlight(span); got != want {
		t.Errorf("Highlight() =\n%s\nwant\n%s", got, want)
	}
}
