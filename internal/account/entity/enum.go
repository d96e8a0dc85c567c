package entity

type OtpPurpose int16

const (
	OtpPurposeUnknown OtpPurpose = 0

	// OtpPurposeEmailVerify is the signup flow verification.
	OtpPurposeEmailVerify OtpPurpose = 1

	// OtpPurposePasswordReset is the password reset flow verification.
	OtpPurposePasswordReset OtpPurpose = 2
)

// ParseOtpPurpose maps the wire value to a purpose. An empty string defaults
// to the signup flow.
func ParseOtpPurpose(str string) OtpPurpose {
	switch str {
	case "", "email":
		return OtpPurposeEmailVerify
	case "password_reset":
		return OtpPurposePasswordReset
	default:
		return OtpPurposeUnknown
	}
}

func (op OtpPurpose) String() string {
	switch op {
	case OtpPurposeEmailVerify:
		return "email"
	case OtpPurposePasswordReset:
		return "password_reset"
	default:
		return "unknown"
	}
}

type LoginType int16

const (
	LoginTypeUnknown LoginType = 0

	LoginTypeEmail       LoginType = 1
	LoginTypePhoneNumber LoginType = 2
	LoginTypeUsername    LoginType = 3
	LoginTypeNickname    LoginType = 4
)

// ParseLoginType maps the wire value to a login type. An empty string
// defaults to email.
func ParseLoginType(str string) LoginType {
	switch str {
	case "", "email":
		return LoginTypeEmail
	case "phone_number":
		return LoginTypePhoneNumber
	case "username":
		return LoginTypeUsername
	case "nickname":
		return LoginTypeNickname
	default:
		return LoginTypeUnknown
	}
}

func (lt LoginType) String() string {
	switch lt {
	case LoginTypeEmail:
		return "email"
	case LoginTypePhoneNumber:
		return "phone_number"
	case LoginTypeUsername:
		return "username"
	case LoginTypeNickname:
		return "nickname"
	default:
		return "unknown"
	}
}
