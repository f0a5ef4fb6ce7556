package python

import "testing"

func TestShouldReindent(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"    )", true},
		{"]", true},
		{"  }", true},
		{"    else:", true},
		{"    elif ", true},
		{"    except ", true},
		{"    except:", true},
		{"    finally:", true},
		{"    case Point(x=0)", true},
		{"    case _:", true},
		{"    x = )", false},
		{"    elsewhere", false},
		{"    return", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ShouldReindent(tt.line); got != tt.want {
			t.Errorf("ShouldReindent(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestData(t *testing.T) {
	if Data.LineComment != "#" {
		t.Errorf("line comment = %q", Data.LineComment)
	}
	if len(Data.StringPrefixes) != 16 {
		t.Errorf("string prefixes = %d, want 16", len(Data.StringPrefixes))
	}
	if len(Data.CloseBrackets) != 7 {
		t.Errorf("close brackets = %d, want 7", len(Data.CloseBrackets))
	}
}
