package validate

import "testing"

func TestPhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"0771234567", true},
		{"+94771234567", true},
		{"771234567", true},
		{"077 123 4567", true},
		{"(077) 123-4567", true},
		{"0112345678", true},
		{"+94812345678", true},
		{"0712345", false},
		{"0012345678", false},
		{"0712345678901", false},
		{"phone", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			if got := Phone(tt.phone); got != tt.want {
				t.Errorf("Phone(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"ok", "Nimal Perera", ""},
		{"too short", "N", "must be at least 2 characters"},
		{"only digits", "12345", "cannot be only numbers"},
		{"mostly digits", "A1234567", "contains too many numbers"},
		{"some digits", "Unit 4 Crew", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FullName(tt.input); got != tt.wantMsg {
				t.Errorf("FullName(%q) = %q, want %q", tt.input, got, tt.wantMsg)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	if !Email("manager@kandy.lk") {
		t.Error("expected plain address to be valid")
	}
	if Email("Manager <manager@kandy.lk>") {
		t.Error("named address should be rejected")
	}
	if Email("not-an-email") {
		t.Error("expected invalid address to be rejected")
	}
}

func TestPassword(t *testing.T) {
	if Password("12345") == "" {
		t.Error("expected short password to be rejected")
	}
	if Password("123456") != "" {
		t.Error("expected 6 character password to be accepted")
	}
}
