package teacher

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/mergington/activities/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to the username or display name"

	pwdHashTag  = "pwdhash"
	pwdHashText = "password is not a valid argon2id hash"
)

// InitValidators registers the Teacher validators and their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(teacherStructValidation, NewTeacher{})
	validate.RegisterStructValidation(teacherSeedStructValidation, core.TeacherSeed{})
	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
	core.RegisterCustomTranslation(validate, translator, pwdHashTag, pwdHashText)
}

// teacherStructValidation does struct level validation on NewTeacher.
func teacherStructValidation(sl validator.StructLevel) {
	if nt, ok := sl.Current().Interface().(NewTeacher); ok && nt.Password != "" {
		validatePassword(nt.Password, nt.Username, nt.DisplayName, sl)
	}
}

// teacherSeedStructValidation rejects seeded argon2id hashes that CheckPassword could not verify.
func teacherSeedStructValidation(sl validator.StructLevel) {
	if ts, ok := sl.Current().Interface().(core.TeacherSeed); ok && CheckHash(ts.Password) != nil {
		sl.ReportError(ts.Password, "password", "Password", pwdHashTag, "")
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 8
// - no whitespace
// - no all numeric
// - no username / display name similarity
func validatePassword(pwd, uname, name string, sl validator.StructLevel) {
	if tag := passwordPolicyViolation(pwd, uname, name); tag != "" {
		sl.ReportError(pwd, "password", "Password", tag, "")
	}
}

// passwordPolicyViolation returns the tag of the first broken rule, or "".
func passwordPolicyViolation(pwd, uname, name string) string {
	var digitCount int

	pwdLen := len([]rune(pwd))
	if pwdLen < pwdMinLen {
		return pwdMinLenTag
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			return pwdNoSpaceTag
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}
	if digitCount == pwdLen {
		return pwdNotAllNumTag
	}

	getRatio := func(pass, attr string) float64 {
		if attr == "" {
			return 0
		}
		pass, attr = strings.ToLower(pass), strings.ToLower(attr)
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(attr, "")).QuickRatio()
	}
	if getRatio(pwd, uname) >= pwdMaxSim || getRatio(pwd, name) >= pwdMaxSim {
		return pwdAttrSimTag
	}
	return ""
}
