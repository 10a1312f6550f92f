package auth

import (
	"testing"
	"time"
)

func testTokens(secret string) TokenService {
	return TokenService{
		Secret:   []byte(secret),
		Issuer:   "cardwatch-test",
		Duration: time.Hour,
	}
}

func TestIssueAndParse(t *testing.T) {
	ts := testTokens("test-secret")
	u := &User{ID: "u1", Username: "ash", Email: "ash@example.com"}

	token, exp, err := ts.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if until := time.Until(exp); until < 59*time.Minute || until > time.Hour {
		t.Errorf("expiry %v out of range", until)
	}

	claims, err := ts.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID() != "u1" || claims.Username != "ash" || claims.Email != "ash@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "cardwatch-test" || claims.Subject != "u1" {
		t.Errorf("registered claims = %+v", claims.RegisteredClaims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := testTokens("secret-a").Issue(&User{ID: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := testTokens("secret-b").Parse(token); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	other := testTokens("test-secret")
	other.Issuer = "someone-else"

	token, _, err := other.Issue(&User{ID: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := testTokens("test-secret").Parse(token); err == nil {
		t.Fatal("token from another issuer accepted")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	ts := testTokens("test-secret")
	ts.Duration = -time.Minute

	token, _, err := ts.Issue(&User{ID: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ts.Parse(token); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := testTokens("test-secret").Parse("not.a.token"); err == nil {
		t.Fatal("garbage accepted")
	}
}
