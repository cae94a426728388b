package checksum

import "testing"

func TestSum(t *testing.T) {
	// Known SHA-256 of "hello".
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got := Sum([]byte("hello")); got != want {
		t.Errorf("Sum = %s, want %s", got, want)
	}
}

func TestSumDiffers(t *testing.T) {
	a := Sum([]byte("one"))
	b := Sum([]byte("two"))
	if a == b {
		t.Error("different content produced equal checksums")
	}
	if a != Sum([]byte("one")) {
		t.Error("checksum not deterministic")
	}
}
