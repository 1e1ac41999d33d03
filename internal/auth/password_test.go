package auth

import "testing"

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		stored   string
		want     bool
	}{
		{"exact match", "possward321@", "possward321@", true},
		{"wrong password", "wrong", "possward321@", false},
		{"case sensitive", "Possward321@", "possward321@", false},
		{"empty submitted", "", "possward321@", false},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.stored); got != tt.want {
				t.Errorf("CheckPassword(%q, %q) = %v, want %v", tt.password, tt.stored, got, tt.want)
			}
		})
	}
}

func TestValidateNewPassword(t *testing.T) {
	if err := ValidateNewPassword("abc"); err == nil {
		t.Error("short password should be rejected")
	}
	if err := ValidateNewPassword("abcdef"); err != nil {
		t.Errorf("six characters should be accepted: %v", err)
	}
}
