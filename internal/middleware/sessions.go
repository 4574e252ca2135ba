package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nutrifit/backend/internal/service"
)

const (
	sessionKey   = "session"
	destroyedKey = "session_destroyed"
)

// SessionManager ties the signed session cookie to the server-side store
type SessionManager struct {
	store  service.SessionStore
	tokens *service.SessionTokens
	cookie string
	secure bool
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(store service.SessionStore, tokens *service.SessionTokens, cookie string, secure bool) *SessionManager {
	return &SessionManager{store: store, tokens: tokens, cookie: cookie, secure: secure}
}

// Sessions loads the request's session, or starts a new one, and saves it
// once the handler returns. The cookie is re-signed on every response and
// follows the session id when the handler rotates it.
func (m *SessionManager) Sessions() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.load(c)
		loadedID := sess.ID
		c.Set(sessionKey, sess)

		if err := m.issue(c, sess.ID); err != nil {
			log.Printf("[Session] Failed to sign session token: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		signedID := sess.ID
		refresh := func() {
			if sess.ID == signedID || c.Writer.Written() || c.GetBool(destroyedKey) {
				return
			}
			if err := m.issue(c, sess.ID); err != nil {
				log.Printf("[Session] Failed to sign session token: %v", err)
				return
			}
			signedID = sess.ID
		}
		c.Writer = &sessionWriter{ResponseWriter: c.Writer, refresh: refresh}

		c.Next()

		if c.GetBool(destroyedKey) {
			return
		}
		refresh()

		ctx := c.Request.Context()
		if sess.ID != loadedID {
			if err := m.store.Delete(ctx, loadedID); err != nil {
				log.Printf("[Session] Failed to delete rotated session %s: %v", loadedID, err)
			}
		}
		if err := m.store.Save(ctx, sess); err != nil {
			log.Printf("[Session] Failed to save session %s: %v", sess.ID, err)
		}
	}
}

// sessionWriter re-issues the cookie before the response headers go out
type sessionWriter struct {
	gin.ResponseWriter
	refresh func()
}

func (w *sessionWriter) WriteHeaderNow() {
	w.refresh()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.refresh()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.refresh()
	return w.ResponseWriter.WriteString(s)
}

func (w *sessionWriter) Flush() {
	w.refresh()
	w.ResponseWriter.Flush()
}

func (m *SessionManager) issue(c *gin.Context, id string) error {
	token, err := m.tokens.Sign(id)
	if err != nil {
		return err
	}
	m.setCookie(c, token, int(m.tokens.TTL().Seconds()))
	return nil
}

func (m *SessionManager) load(c *gin.Context) *service.Session {
	raw, err := c.Cookie(m.cookie)
	if err != nil || raw == "" {
		return service.NewSession()
	}

	id, err := m.tokens.Parse(raw)
	if err != nil {
		return service.NewSession()
	}

	sess, err := m.store.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, service.ErrSessionNotFound) {
			log.Printf("[Session] Failed to load session %s: %v", id, err)
		}
		return service.NewSession()
	}
	return sess
}

// setCookie replaces any session cookie already on the response
func (m *SessionManager) setCookie(c *gin.Context, value string, maxAge int) {
	header := c.Writer.Header()
	existing := header.Values("Set-Cookie")
	header.Del("Set-Cookie")
	for _, v := range existing {
		if !strings.HasPrefix(v, m.cookie+"=") {
			header.Add("Set-Cookie", v)
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie, value, maxAge, "/", "", m.secure, true)
}

// Destroy removes the session from the store and expires the cookie
func (m *SessionManager) Destroy(c *gin.Context) error {
	sess := GetSession(c)
	c.Set(destroyedKey, true)
	m.setCookie(c, "", -1)
	return m.store.Delete(c.Request.Context(), sess.ID)
}

// GetSession returns the session loaded by Sessions. Outside that middleware
// it returns a throwaway session so handlers never see nil.
func GetSession(c *gin.Context) *service.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*service.Session); ok {
			return sess
		}
	}
	sess := service.NewSession()
	c.Set(sessionKey, sess)
	return sess
}
