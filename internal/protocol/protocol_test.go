package protocol

import "testing"

func TestCheckVersion_Accepts1x(t *testing.T) {
	if err := CheckVersion("1.3.0"); err != nil {
		t.Fatalf("expected 1.3.0 to be accepted: %v", err)
	}
}

func TestCheckVersion_Rejects2x(t *testing.T) {
	if err := CheckVersion("2.0.0"); err == nil {
		t.Fatalf("expected 2.0.0 to be rejected")
	}
}

func TestCheckVersion_RejectsUnparseable(t *testing.T) {
	if err := CheckVersion("not-a-version"); err == nil {
		t.Fatalf("expected unparseable version to be rejected")
	}
}

func TestNewer(t *testing.T) {
	newer, err := Newer("1.2.0", "1.1.0")
	if err != nil {
		t.Fatalf("newer: %v", err)
	}
	if !newer {
		t.Fatalf("expected 1.2.0 > 1.1.0")
	}
}
