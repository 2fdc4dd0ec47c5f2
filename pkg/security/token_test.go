package security

import "testing"

func TestGenerateOneTimeToken(t *testing.T) {
	raw, hash, err := GenerateOneTimeToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if raw == "" || hash == "" {
		t.Fatal("expected non-empty token and hash")
	}
	if raw == hash {
		t.Fatal("raw token must differ from its hash")
	}
	if HashOneTimeToken(raw) != hash {
		t.Fatal("hash should be reproducible from the raw token")
	}

	other, _, err := GenerateOneTimeToken()
	if err != nil {
		t.Fatalf("generate second: %v", err)
	}
	if other == raw {
		t.Fatal("two generated tokens should not collide")
	}
}

func TestVerifyOneTimeToken(t *testing.T) {
	raw, hash, err := GenerateOneTimeToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !VerifyOneTimeToken(raw, hash) {
		t.Fatal("expected matching token to verify")
	}
	if VerifyOneTimeToken("deadbeef", hash) {
		t.Fatal("wrong token must not verify")
	}
	if VerifyOneTimeToken("", hash) {
		t.Fatal("empty token must not verify")
	}
	if VerifyOneTimeToken(raw, "") {
		t.Fatal("empty stored hash must not verify")
	}
}
