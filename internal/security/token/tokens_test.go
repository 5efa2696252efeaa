package tokens

import "testing"

func TestS256Challenge_RFC7636Vector(t *testing.T) {
	// Vector del Apéndice B de RFC 7636.
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
	if got := S256Challenge(verifier); got != want {
		t.Fatalf("S256Challenge = %q, want %q", got, want)
	}
}

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatal(err)
	}
	// 32 bytes -> 43 chars base64url sin padding
	if len(a) != 43 {
		t.Fatalf("len = %d, want 43", len(a))
	}
	if a == b {
		t.Fatal("two tokens should never collide")
	}
}

func TestConstantTimeEquals(t *testing.T) {
	if !ConstantTimeEquals("abc", "abc") {
		t.Fatal("equal strings should compare true")
	}
	if ConstantTimeEquals("abc", "abd") || ConstantTimeEquals("abc", "abcd") {
		t.Fatal("different strings should compare false")
	}
}
