package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/mergington/activities/core"
	"github.com/mergington/activities/core/teacher"
)

var (
	contextTokenKey   = "teacherToken"
	contextTeacherKey = "teacher"

	nowFunc = time.Now // mockable
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	Role         string `json:"role,omitempty"`
	IsAdmin      bool   `json:"is_admin,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// GetTeacherClaims returns the Claims of a session opened by t.
// origIat is the issue time of the first token of the session, when refreshing.
func GetTeacherClaims(conf *core.Config, t teacher.Teacher, origIat ...int64) *Claims {
	now := nowFunc()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   t.Username,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		DisplayName:  t.DisplayName,
		Role:         t.Role,
		IsAdmin:      t.IsAdmin(),
	}
}

// GenerateToken generates a signed JWT token string representing the teacher Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	jwtConf := newJWTConfig(conf)
	method := jwt.GetSigningMethod(jwtConf.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(jwtConf.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func authenticate(uname, pwd string, svc teacher.ServiceInterface) (teacher.Teacher, error) {
	t, err := svc.Authenticate(uname, pwd)
	if err != nil {
		if errors.Cause(err) == teacher.ErrInvalidCredentials {
			return teacher.Teacher{}, errAuthenticationFailed
		}
		return teacher.Teacher{}, errors.Wrap(err, "authenticating teacher")
	}
	return t, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextTeacher returns the Teacher owning the request token. The account is
// reloaded so that removed teachers lose access before their token expires.
func getContextTeacher(ctx echo.Context, svc teacher.ServiceInterface, clms ...Claims) (teacher.Teacher, error) {
	if t, ok := ctx.Get(contextTeacherKey).(teacher.Teacher); ok {
		return t, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return teacher.Teacher{}, errors.Wrap(err, "getting context claims")
		}
	}

	t, err := svc.GetByUsername(claims.Subject)
	if err != nil {
		if errors.Cause(err) == teacher.ErrNotFound {
			return teacher.Teacher{}, errUnauthorized
		}
		return teacher.Teacher{}, errors.Wrap(err, "finding teacher by username")
	}
	ctx.Set(contextTeacherKey, t)
	return t, nil
}

func refreshToken(ctx echo.Context, conf *core.Config, svc teacher.ServiceInterface) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	t, err := getContextTeacher(ctx, svc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context teacher")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if nowFunc().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := GetTeacherClaims(conf, t, claims.OrigIssuedAt)
	token, err := GenerateToken(conf, newClaims)
	return token, errors.Wrap(err, "generating token")
}
