package schema

import (
	"testing"

	"github.com/leapstack-labs/dbtlens/pkg/logical"
)

func TestFindCaseInsensitive(t *testing.T) {
	s := Schema{
		{Name: "ID", Type: logical.Int},
		{Name: "Email", Type: logical.String},
	}

	col, ok := s.Find("email", nil)
	if !ok {
		t.Fatal("expected to find 'email'")
	}
	if col.Name != "Email" {
		t.Errorf("expected original-case name preserved, got %q", col.Name)
	}

	if _, ok := s.Find("missing", nil); ok {
		t.Error("expected 'missing' not to be found")
	}
}

func TestNames(t *testing.T) {
	s := Schema{{Name: "a"}, {Name: "b"}}
	got := s.Names()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected names: %v", got)
	}
}
