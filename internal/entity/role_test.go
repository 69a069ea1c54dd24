package entity

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"student", RoleStudent, false},
		{"teacher", RoleTeacher, false},
		{"admin", RoleAdmin, false},
		{"", "", true},
		{"Student", "", true},
		{"superuser", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRole(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestApprovedOnRegistration(t *testing.T) {
	if !RoleStudent.ApprovedOnRegistration() {
		t.Error("students should be approved on registration")
	}
	if RoleTeacher.ApprovedOnRegistration() {
		t.Error("teachers should wait for approval")
	}
	if RoleAdmin.ApprovedOnRegistration() {
		t.Error("admins never self-register approved")
	}
}
