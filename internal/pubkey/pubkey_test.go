package pubkey

import (
	"errors"
	"testing"
)

const (
	// System program: valid, on-curve.
	systemProgram = "11111111111111111111111111111111"
	// Wrapped SOL mint: valid, on-curve.
	wsolMint = "So11111111111111111111111111111111111111112"
	// SPL token program.
	tokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"system program", systemProgram, nil},
		{"wsol mint", wsolMint, nil},
		{"token program", tokenProgram, nil},
		{"empty string", "", ErrInvalidLength},
		{"invalid characters", "not!valid@base58", ErrInvalidBase58},
		{"too short", "abc", ErrInvalidLength},
		{"zero and uppercase o excluded from alphabet", "0OOO", ErrInvalidBase58},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate(%q) = %v, want nil", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestIsOnCurve(t *testing.T) {
	// The all-zero key (system program) decodes to the identity point,
	// which is on the curve.
	onCurve, err := IsOnCurve(systemProgram)
	if err != nil {
		t.Fatalf("IsOnCurve failed: %v", err)
	}
	if !onCurve {
		t.Error("system program key should be on-curve")
	}
}

func TestIsOnCurve_InvalidKey(t *testing.T) {
	if _, err := IsOnCurve("abc"); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("err = %v, want ErrInvalidLength", err)
	}
	if _, err := IsOnCurve("!!!"); !errors.Is(err, ErrInvalidBase58) {
		t.Errorf("err = %v, want ErrInvalidBase58", err)
	}
}
