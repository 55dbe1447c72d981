package typeid

import (
	"strings"
	"testing"
)

func TestNewAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"user", NewUserID, PrefixUser},
		{"dataset", NewDatasetID, PrefixDataset},
		{"session", NewSessionID, PrefixSession},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := tt.gen()
			if !strings.HasPrefix(id, tt.prefix+"_") {
				t.Fatalf("id %q lacks prefix %q", id, tt.prefix)
			}
			if err := Validate(id, tt.prefix); err != nil {
				t.Errorf("Validate(%q): %v", id, err)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	if err := Validate(NewUserID(), PrefixDataset); err == nil {
		t.Error("wrong prefix accepted")
	}
	if err := Validate("not-an-id", PrefixDataset); err == nil {
		t.Error("garbage accepted")
	}
}
