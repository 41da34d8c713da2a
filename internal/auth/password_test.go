package auth

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash should not equal the plaintext")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("the right password should verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("a wrong password should not verify")
	}
}
