package position

import "testing"

func TestPositionString(t *testing.T) {
	tests := []struct {
		pos      Position
		expected string
	}{
		{Position{Line: 3, Column: 7}, "3:7"},
		{Position{Filename: "/tmp/x/main.drc", Line: 1, Column: 2}, "main.drc:1:2"},
		{Position{Filename: "main.drc", Line: 9}, "main.drc:9"},
	}
	for _, tt := range tests {
		if got := tt.pos.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestGetLine(t *testing.T) {
	sf := NewSourceFile("a.drc", "one\r\ntwo")
	if sf.GetLine(1) != "one" || sf.GetLine(2) != "two" {
		t.Errorf("lines = %q", sf.Lines)
	}
	if sf.GetLine(0) != "" || sf.GetLine(3) != "" {
		t.Error("out of range lines should be empty")
	}
	var nilFile *SourceFile
	if nilFile.GetLine(1) != "" {
		t.Error("nil source file should have no lines")
	}
}

func TestExcerpt(t *testing.T) {
	sf := NewSourceFile("a.drc", "dragon f fire\n\t< shoot @ $ >\nextinguish")

	got := sf.Excerpt(Position{Line: 2, Column: 10})
	want := "   2 | \t< shoot @ $ >\n     | \t        ^"
	if got != want {
		t.Errorf("Excerpt =\n%q\nwant\n%q", got, want)
	}

	if got := sf.Excerpt(Position{Line: 1}); got != "   1 | dragon f fire" {
		t.Errorf("line-only excerpt = %q", got)
	}
	if sf.Excerpt(Position{Line: 10, Column: 1}) != "" {
		t.Error("missing line should give no excerpt")
	}
}
