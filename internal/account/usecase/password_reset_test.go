package usecase

import (
	"context"
	"net/http"
	"testing"

	"github.com/seongminoh/otpauth/internal/account/entity"
)

func TestPasswordReset(t *testing.T) {
	const (
		number      = "010-1234-5678"
		email       = "user@example.com"
		oldPassword = "sup3r-secret"
		newPassword = "n3w-password"
	)

	t.Run("ReplacesPassword", func(t *testing.T) {
		f := newFixture(t)
		f.signup(t, number, email, "alice", oldPassword)

		code := f.sendAndVerify(t, number, entity.OtpPurposePasswordReset)

		if err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Number:      number,
			OtpCode:     code,
			NewPassword: newPassword,
		}); err != nil {
			t.Fatalf("PasswordReset: %v", err)
		}

		if _, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: email,
			Password:   newPassword,
			LoginType:  entity.LoginTypeEmail,
		}); err != nil {
			t.Fatalf("login with new password: %v", err)
		}

		_, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: email,
			Password:   oldPassword,
			LoginType:  entity.LoginTypeEmail,
		})
		assertBusiness(t, err, "wrong_password", http.StatusBadRequest)
	})

	t.Run("RevokesRefreshTokens", func(t *testing.T) {
		f := newFixture(t)
		f.signup(t, number, email, "alice", oldPassword)

		if _, err := f.uc.Login(context.Background(), LoginInput{
			Identifier: email,
			Password:   oldPassword,
			LoginType:  entity.LoginTypeEmail,
		}); err != nil {
			t.Fatalf("Login: %v", err)
		}

		code := f.sendAndVerify(t, number, entity.OtpPurposePasswordReset)
		if err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Number:      number,
			OtpCode:     code,
			NewPassword: newPassword,
		}); err != nil {
			t.Fatalf("PasswordReset: %v", err)
		}

		if len(f.repo.tokens) != 0 {
			t.Fatalf("expected refresh tokens revoked, %d remain", len(f.repo.tokens))
		}
	})

	t.Run("RequiresVerifiedRecord", func(t *testing.T) {
		f := newFixture(t)
		f.signup(t, number, email, "alice", oldPassword)

		out, err := f.uc.SendCode(context.Background(), SendCodeInput{
			Number:  number,
			Purpose: entity.OtpPurposePasswordReset,
		})
		if err != nil {
			t.Fatalf("SendCode: %v", err)
		}

		err = f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Number:      number,
			OtpCode:     out.Code,
			NewPassword: newPassword,
		})
		assertBusiness(t, err, "invalid_number_or_code", http.StatusBadRequest)
	})

	t.Run("RecordIsSingleUse", func(t *testing.T) {
		f := newFixture(t)
		f.signup(t, number, email, "alice", oldPassword)

		code := f.sendAndVerify(t, number, entity.OtpPurposePasswordReset)
		if err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Number:      number,
			OtpCode:     code,
			NewPassword: newPassword,
		}); err != nil {
			t.Fatalf("PasswordReset: %v", err)
		}

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Number:      number,
			OtpCode:     code,
			NewPassword: "an0ther-password",
		})
		assertBusiness(t, err, "invalid_number_or_code", http.StatusBadRequest)
	})

	t.Run("CodeMismatch", func(t *testing.T) {
		f := newFixture(t)
		f.signup(t, number, email, "alice", oldPassword)

		code := f.sendAndVerify(t, number, entity.OtpPurposePasswordReset)

		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Number:      number,
			OtpCode:     wrong,
			NewPassword: newPassword,
		})
		assertBusiness(t, err, "invalid_auth_otp_data", http.StatusBadRequest)
	})

	t.Run("NoAccountForNumber", func(t *testing.T) {
		f := newFixture(t)

		code := f.sendAndVerify(t, number, entity.OtpPurposePasswordReset)

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Number:      number,
			OtpCode:     code,
			NewPassword: newPassword,
		})
		assertBusiness(t, err, "no_exist_user", http.StatusBadRequest)
	})

	t.Run("RejectsPreviousPassword", func(t *testing.T) {
		f := newFixture(t)
		f.signup(t, number, email, "alice", oldPassword)

		code := f.sendAndVerify(t, number, entity.OtpPurposePasswordReset)

		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{
			Number:      number,
			OtpCode:     code,
			NewPassword: oldPassword,
		})
		assertBusiness(t, err, "previous_password", http.StatusBadRequest)
	})
}
