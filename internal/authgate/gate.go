// Package authgate guards the admin console: it resolves the session cookie
// into one of three states and renders, redirects or admits accordingly.
package authgate

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/devfolio/devfolio/internal/operators"
	"github.com/devfolio/devfolio/internal/sessions"
	"github.com/devfolio/devfolio/pkg/logger"
	"github.com/gin-gonic/gin"
)

type State int

const (
	// CheckingSession: the session could not be resolved yet (store unreachable).
	CheckingSession State = iota
	Unauthenticated
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	}
	return "checking"
}

const (
	DefaultCookieName = "devfolio_session"
	operatorKey       = "operator"
)

// Result is the outcome of a session check.
type Result struct {
	State    State
	Operator *operators.Operator
	Err      error
}

// OperatorLookup resolves a session subject to an operator.
type OperatorLookup interface {
	GetByID(ctx context.Context, id string) (*operators.Operator, error)
}

// Gate is configured once at startup and shared by all requests.
type Gate struct {
	Sessions        *sessions.Service
	Operators       OperatorLookup
	CookieName      string
	LoginPath       string
	HomePath        string
	SessionTTL      time.Duration
	Secure          bool
	LoadingTemplate string
	// RetryAfter is the refresh interval of the loading page.
	RetryAfter time.Duration
}

func New(s *sessions.Service, ops OperatorLookup, ttl time.Duration, secure bool) *Gate {
	return &Gate{
		Sessions:        s,
		Operators:       ops,
		CookieName:      DefaultCookieName,
		LoginPath:       "/admin/login",
		HomePath:        "/admin",
		SessionTTL:      ttl,
		Secure:          secure,
		LoadingTemplate: "loading.html",
		RetryAfter:      2 * time.Second,
	}
}

// Probe resolves token. Lookup failures leave the gate in CheckingSession
// rather than logging the operator out.
func (g *Gate) Probe(ctx context.Context, token string) Result {
	if token == "" {
		return Result{State: Unauthenticated}
	}
	sess, err := g.Sessions.Validate(ctx, token)
	if err != nil {
		return Result{State: CheckingSession, Err: err}
	}
	if sess == nil {
		return Result{State: Unauthenticated}
	}
	op, err := g.Operators.GetByID(ctx, sess.Sub)
	if err != nil {
		return Result{State: CheckingSession, Err: err}
	}
	if op == nil {
		return Result{State: Unauthenticated}
	}
	return Result{State: Authenticated, Operator: op}
}

// Check inspects the request's session cookie.
func (g *Gate) Check(c *gin.Context) Result {
	token, _ := c.Cookie(g.CookieName)
	return g.Probe(c.Request.Context(), token)
}

// Require admits authenticated operators and stores them on the context.
func (g *Gate) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		res := g.Check(c)
		switch res.State {
		case Authenticated:
			c.Set(operatorKey, res.Operator)
			c.Next()
		case Unauthenticated:
			target := g.LoginPath
			if c.Request.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			}
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
		default:
			logger.Warnf("authgate: session check failed: %v", res.Err)
			g.RenderChecking(c)
		}
	}
}

// RenderChecking renders the loading page that retries the session check.
func (g *Gate) RenderChecking(c *gin.Context) {
	secs := int(g.RetryAfter.Seconds())
	if secs < 1 {
		secs = 1
	}
	c.Header("Refresh", strconv.Itoa(secs))
	c.Header("Retry-After", strconv.Itoa(secs))
	c.HTML(http.StatusServiceUnavailable, g.LoadingTemplate, gin.H{"RetrySeconds": secs})
	c.Abort()
}

// Login starts a session for op and sets the cookie.
func (g *Gate) Login(c *gin.Context, op *operators.Operator) error {
	sess, err := g.Sessions.Create(c.Request.Context(), op.ID, g.SessionTTL)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(g.CookieName, sess.Token, int(g.SessionTTL.Seconds()), "/", "", g.Secure, true)
	return nil
}

// Logout ends the session, clears the cookie and redirects to the login page.
func (g *Gate) Logout(c *gin.Context) error {
	var err error
	if token, cerr := c.Cookie(g.CookieName); cerr == nil && token != "" {
		err = g.Sessions.Revoke(c.Request.Context(), token)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(g.CookieName, "", -1, "/", "", g.Secure, true)
	c.Redirect(http.StatusSeeOther, g.LoginPath)
	return err
}

// OperatorFrom returns the operator admitted by Require.
func OperatorFrom(c *gin.Context) *operators.Operator {
	v, ok := c.Get(operatorKey)
	if !ok {
		return nil
	}
	op, _ := v.(*operators.Operator)
	return op
}
