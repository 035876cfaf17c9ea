package group

import (
	"strings"
	"testing"
)

func TestGenerateInviteCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code, err := GenerateInviteCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(code) != inviteCodeLength {
			t.Errorf("expected code of length %d, got %q (%d)", inviteCodeLength, code, len(code))
		}

		for _, c := range code {
			if !strings.ContainsRune(inviteCodeAlphabet, c) {
				t.Errorf("code %q contains character %q outside the alphabet", code, c)
			}
		}

		seen[code] = true
	}

	// 100 draws from a 36^8 space should never collide.
	if len(seen) < 100 {
		t.Errorf("expected 100 distinct codes, got %d", len(seen))
	}
}

func TestGenerateInviteCodeUniformity(t *testing.T) {
	// Counts per character over many draws. A byte-modulo mapping would
	// skew the first 256%36 = 4 alphabet characters to 8/7 of the uniform
	// frequency, well outside the 8% tolerance below.
	const codes = 20000
	counts := make(map[byte]int, len(inviteCodeAlphabet))

	for i := 0; i < codes; i++ {
		code, err := GenerateInviteCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for j := 0; j < len(code); j++ {
			counts[code[j]]++
		}
	}

	expected := float64(codes*inviteCodeLength) / float64(len(inviteCodeAlphabet))
	for i := 0; i < len(inviteCodeAlphabet); i++ {
		c := inviteCodeAlphabet[i]
		got := float64(counts[c])
		if got < expected*0.92 || got > expected*1.08 {
			t.Errorf("character %q drawn %v times, expected about %v", c, got, expected)
		}
	}
}
