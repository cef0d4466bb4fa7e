package idhash

import "testing"

func TestComputeListID(t *testing.T) {
	got := ComputeListID("alpha wallets", 1700000000)

	if len(got) != 64 {
		t.Errorf("ComputeListID() length = %d, want 64", len(got))
	}

	// Verify determinism: same inputs should produce same output
	got2 := ComputeListID("alpha wallets", 1700000000)
	if got != got2 {
		t.Errorf("ComputeListID() not deterministic: %s != %s", got, got2)
	}
}

func TestComputeListID_DifferentInputs(t *testing.T) {
	base := ComputeListID("list", 1000)

	if base == ComputeListID("other", 1000) {
		t.Error("Different name should produce different hash")
	}
	if base == ComputeListID("list", 2000) {
		t.Error("Different created_at should produce different hash")
	}
}
