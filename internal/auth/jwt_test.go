package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/webreviewer/webreviewer/internal/model"
)

func TestTokenIssuer_AccessRoundtrip(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Minute, time.Hour)

	issued, err := issuer.IssueAccess("user-1", model.RoleAdmin)
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	if issued.Token == "" {
		t.Fatal("issued token should not be empty")
	}
	if issued.ID == "" {
		t.Fatal("issued token should carry an ID")
	}

	claims, err := issuer.VerifyAccess(issued.Token)
	if err != nil {
		t.Fatalf("VerifyAccess failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("subject = %q, want user-1", claims.Subject)
	}
	if claims.Role != string(model.RoleAdmin) {
		t.Errorf("role = %q, want admin", claims.Role)
	}
}

func TestTokenIssuer_KindMismatch(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", time.Minute, time.Hour)

	access, err := issuer.IssueAccess("user-1", model.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}
	refresh, err := issuer.IssueRefresh("user-1", model.RoleUser)
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}

	if _, err := issuer.VerifyRefresh(access.Token); !errors.Is(err, ErrWrongTokenKind) {
		t.Errorf("access token as refresh: err = %v, want ErrWrongTokenKind", err)
	}
	if _, err := issuer.VerifyAccess(refresh.Token); !errors.Is(err, ErrWrongTokenKind) {
		t.Errorf("refresh token as access: err = %v, want ErrWrongTokenKind", err)
	}
}

func TestTokenIssuer_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("secret-a", time.Minute, time.Hour)
	other := NewTokenIssuer("secret-b", time.Minute, time.Hour)

	issued, err := issuer.IssueAccess("user-1", model.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	if _, err := other.VerifyAccess(issued.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign secret: err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuer_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewTokenIssuer("test-secret", -time.Minute, time.Hour)

	issued, err := issuer.IssueAccess("user-1", model.RoleUser)
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	if _, err := issuer.VerifyAccess(issued.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token: err = %v, want ErrInvalidToken", err)
	}
}
