package internal

import "testing"

func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, substr string
		want      bool
	}{
		{"Give way", "GIVE", true},
		{"Czterokołowiec lekki", "zterokoł", true},
		{"CZTEROKOŁOWIEC", "zterokoł", true},
		{"czterokolowiec", "zterokoł", false},
		{"Stop", "", true},
		{"Stop", "stopp", false},
	}

	for _, tt := range tests {
		if got := ContainsFold(tt.s, tt.substr); got != tt.want {
			t.Errorf("ContainsFold(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
		}
	}
}

func TestRuneLen(t *testing.T) {
	if got := RuneLen("Łódź"); got != 4 {
		t.Errorf("RuneLen(Łódź) = %d, want 4", got)
	}
	if got := RuneLen(""); got != 0 {
		t.Errorf("RuneLen(\"\") = %d, want 0", got)
	}
}
