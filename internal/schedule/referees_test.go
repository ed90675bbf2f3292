package schedule

import (
	"errors"
	"testing"

	"github.com/erazemk/oprema/internal/model"
)

func TestValidateReferees(t *testing.T) {
	tests := []struct {
		name    string
		match   model.Match
		wantErr bool
	}{
		{"no referees", model.Match{}, false},
		{"distinct referees", model.Match{RefCenter: "a", RefAsst1: "b", RefAsst2: "c"}, false},
		{"only assistants", model.Match{RefAsst1: "b", RefAsst2: "c"}, false},
		{"center is assistant", model.Match{RefCenter: "a", RefAsst1: "a"}, true},
		{"both assistants", model.Match{RefAsst1: "b", RefAsst2: "b"}, true},
		{"center and second assistant", model.Match{RefCenter: "a", RefAsst1: "b", RefAsst2: "a"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateReferees(tt.match)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateReferees() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRefereesReportsRoles(t *testing.T) {
	err := ValidateReferees(model.Match{RefCenter: "r1", RefAsst2: "r1"})

	var rc *RefereeConflictError
	if !errors.As(err, &rc) {
		t.Fatalf("expected RefereeConflictError, got %v", err)
	}
	if rc.RefereeID != "r1" || rc.First != RoleCenter || rc.Second != RoleAsst2 {
		t.Errorf("unexpected error details %+v", rc)
	}
}
