package abbrev

import (
	"testing"
)

func TestDefault(t *testing.T) {
	table, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if table.Len() == 0 {
		t.Fatal("Default() table is empty")
	}

	abbr, ok := table.Lookup("Journal of the American Chemical Society")
	if !ok || abbr != "J. Am. Chem. Soc." {
		t.Errorf("Lookup() = %q, %v", abbr, ok)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	table, err := Parse([]byte("Physical Review Letters: Phys. Rev. Lett.\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tests := []string{
		"Physical Review Letters",
		"physical review letters",
		"PHYSICAL REVIEW LETTERS",
		"Physical   Review\tLetters",
	}
	for _, name := range tests {
		if abbr, ok := table.Lookup(name); !ok || abbr != "Phys. Rev. Lett." {
			t.Errorf("Lookup(%q) = %q, %v", name, abbr, ok)
		}
	}
}

func TestLookup_UnknownNotFound(t *testing.T) {
	table, err := Parse([]byte("Nature: Nature\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := table.Lookup("Journal of Obscure Results"); ok {
		t.Error("Lookup() found an unknown journal")
	}
}

func TestLookup_Idempotent(t *testing.T) {
	table, err := Parse([]byte("Physical Review Letters: Phys. Rev. Lett.\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	once, ok := table.Lookup("Physical Review Letters")
	if !ok {
		t.Fatal("first lookup failed")
	}
	// Abbreviations map to themselves, so a second pass is a no-op.
	twice, ok := table.Lookup(once)
	if !ok || twice != once {
		t.Errorf("second lookup = %q, %v, want %q", twice, ok, once)
	}
}

func TestMerge_UserListWins(t *testing.T) {
	base, err := Parse([]byte("Nature: Nature\nScience: Science\n"))
	if err != nil {
		t.Fatalf("Parse(base) error = %v", err)
	}
	user, err := Parse([]byte("Science: Sci.\nCustom Journal: Cust. J.\n"))
	if err != nil {
		t.Fatalf("Parse(user) error = %v", err)
	}

	merged := base.Merge(user)
	if abbr, _ := merged.Lookup("Science"); abbr != "Sci." {
		t.Errorf("Lookup(Science) = %q, want Sci. (user list should win)", abbr)
	}
	if abbr, _ := merged.Lookup("Custom Journal"); abbr != "Cust. J." {
		t.Errorf("Lookup(Custom Journal) = %q", abbr)
	}
	if abbr, _ := merged.Lookup("Nature"); abbr != "Nature" {
		t.Errorf("Lookup(Nature) = %q", abbr)
	}
	if merged.Len() != 3 {
		t.Errorf("merged.Len() = %d, want 3", merged.Len())
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("- just\n- a list\n")); err == nil {
		t.Error("Parse() accepted a YAML list, want error")
	}
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Physical Review Letters", "physical review letters"},
		{"  Physical   Review  Letters  ", "physical review letters"},
		{"NATURE", "nature"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeKey(tt.in); got != tt.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
