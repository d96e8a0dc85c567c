package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/seongminoh/otpauth/internal/pkg/jwt"
)

func authContext(userID int64) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: userID})
}

func TestUserDetail(t *testing.T) {
	t.Run("ReturnsOwnAccount", func(t *testing.T) {
		f := newFixture(t)
		out := f.signup(t, "010-1234-5678", "user@example.com", "alice", "sup3r-secret")

		user, err := f.uc.UserDetail(authContext(out.ID), UserDetailInput{UserID: out.ID})
		if err != nil {
			t.Fatalf("UserDetail: %v", err)
		}
		if user.ID != out.ID || user.Email != "user@example.com" {
			t.Fatalf("unexpected user %+v", user)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.UserDetail(context.Background(), UserDetailInput{UserID: 1})
		assertBusiness(t, err, "not_authenticated", http.StatusUnauthorized)
	})

	t.Run("OtherAccountDenied", func(t *testing.T) {
		f := newFixture(t)
		out := f.signup(t, "010-1234-5678", "user@example.com", "alice", "sup3r-secret")

		_, err := f.uc.UserDetail(authContext(out.ID+1), UserDetailInput{UserID: out.ID})
		assertBusiness(t, err, "permission_denied", http.StatusForbidden)
	})

	t.Run("AccountGone", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.UserDetail(authContext(42), UserDetailInput{UserID: 42})
		assertBusiness(t, err, "no_exist_user", http.StatusBadRequest)
	})
}

func TestUserUpdate(t *testing.T) {
	t.Run("PatchesProfile", func(t *testing.T) {
		f := newFixture(t)
		out := f.signup(t, "010-1234-5678", "user@example.com", "alice", "sup3r-secret")

		user, err := f.uc.UserUpdate(authContext(out.ID), UserUpdateInput{
			UserID:   out.ID,
			Nickname: "allie",
		})
		if err != nil {
			t.Fatalf("UserUpdate: %v", err)
		}
		if user.Nickname != "allie" {
			t.Fatalf("nickname not updated: %q", user.Nickname)
		}
		if user.Username != "alice" {
			t.Fatalf("username must be untouched: %q", user.Username)
		}
	})

	t.Run("OtherAccountDenied", func(t *testing.T) {
		f := newFixture(t)
		out := f.signup(t, "010-1234-5678", "user@example.com", "alice", "sup3r-secret")

		_, err := f.uc.UserUpdate(authContext(out.ID+1), UserUpdateInput{
			UserID:   out.ID,
			Nickname: "allie",
		})
		assertBusiness(t, err, "permission_denied", http.StatusForbidden)
	})

	t.Run("RejectsShortNames", func(t *testing.T) {
		f := newFixture(t)
		out := f.signup(t, "010-1234-5678", "user@example.com", "alice", "sup3r-secret")

		_, err := f.uc.UserUpdate(authContext(out.ID), UserUpdateInput{
			UserID:   out.ID,
			Username: "ab",
		})
		assertInvalidInput(t, err)
	})
}
