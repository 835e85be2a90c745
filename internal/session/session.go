package session

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the fixed key under which the session travels. It replaces
// the browser-local "managerToken" slot of the old panel.
const CookieName = "manager_session"

// Lifetime of an issued session. There is no refresh flow; an expired
// session simply forces a new login.
const sessionTTL = 24 * time.Hour

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

// Session is the authenticated state carried between requests: the backend
// bearer token plus the identity admitted at login.
type Session struct {
	Token string
	Name  string
	Role  string
}

// Store signs and verifies session cookies with an HMAC secret.
type Store struct {
	secret []byte
}

// NewStore returns a cookie-backed session store.
func NewStore(secret []byte) *Store {
	return &Store{secret: secret}
}

// Issue signs the session into a JWT and sets it as an HttpOnly cookie.
func (s *Store) Issue(c *gin.Context, sess Session) error {
	claims := jwt.MapClaims{
		"sub":   sess.Name,
		"role":  sess.Role,
		"token": sess.Token,
		"exp":   time.Now().Add(sessionTTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}

	c.SetSameSite(sameSiteMode())
	c.SetCookie(CookieName, signed, int(sessionTTL.Seconds()), "/", "", secureCookies(), true)
	return nil
}

// Read verifies the session cookie and returns the session it carries.
func (s *Store) Read(c *gin.Context) (*Session, error) {
	tokenString, err := c.Cookie(CookieName)
	if err != nil || tokenString == "" {
		return nil, ErrNoSession
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	name, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	apiToken, _ := claims["token"].(string)
	if apiToken == "" || role == "" {
		return nil, ErrInvalidSession
	}

	return &Session{Token: apiToken, Name: name, Role: role}, nil
}

// Clear removes the session cookie. Always succeeds.
func (s *Store) Clear(c *gin.Context) {
	c.SetSameSite(sameSiteMode())
	c.SetCookie(CookieName, "", -1, "/", "", secureCookies(), true)
}

// Production (cross-origin): SameSiteNoneMode + Secure=true
// Development (same-site):   SameSiteLaxMode  + Secure=false
func sameSiteMode() http.SameSite {
	if releaseMode() {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

func secureCookies() bool {
	return releaseMode()
}

func releaseMode() bool {
	return os.Getenv("GIN_MODE") == "release" || os.Getenv("RENDER") != ""
}
