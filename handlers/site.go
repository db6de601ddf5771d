package handlers

import (
	"net/http"
	"time"

	"github.com/devfolio/devfolio/internal/errs"
	"github.com/devfolio/devfolio/internal/portfolio"
	"github.com/devfolio/devfolio/internal/site"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/devfolio/devfolio/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ContactView is the data of the contact page.
type ContactView struct {
	site.Layout
	Form  portfolio.ContactForm
	Sent  bool
	Error string
}

// ErrorView is rendered for unknown pages.
type ErrorView struct {
	site.Layout
	Heading string
	Message string
}

// SiteHandler renders the public pages.
type SiteHandler struct {
	store    store.Store
	renderer *site.Renderer
	now      func() time.Time
}

func NewSiteHandler(s store.Store, r *site.Renderer) *SiteHandler {
	return &SiteHandler{store: s, renderer: r, now: time.Now}
}

// Register registers the public pages. limit, when not nil, guards the
// contact form submission.
func (h *SiteHandler) Register(r gin.IRoutes, limit gin.HandlerFunc) {
	r.GET("/", h.Home)
	r.GET("/projects", h.Projects)
	r.GET("/about", h.About)
	r.GET("/contact", h.ContactPage)
	r.POST("/contact", chain(limit, h.SubmitContact)...)
}

func (h *SiteHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", h.renderer.Home(c.Request.Context()))
}

func (h *SiteHandler) Projects(c *gin.Context) {
	c.HTML(http.StatusOK, "projects.html", h.renderer.Projects(c.Request.Context()))
}

func (h *SiteHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", h.renderer.About(c.Request.Context()))
}

func (h *SiteHandler) ContactPage(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", ContactView{Layout: h.renderer.Layout(c.Request.Context())})
}

// SubmitContact stores the form and re-renders the page with the outcome.
// Rejected submissions keep what the visitor typed.
func (h *SiteHandler) SubmitContact(c *gin.Context) {
	var form portfolio.ContactForm
	bindErr := c.ShouldBind(&form)
	view := ContactView{Layout: h.renderer.Layout(c.Request.Context()), Form: form}
	if bindErr != nil {
		logger.Warnf("contact: bind form: %v", bindErr)
		contactOutcome(errs.Validation("", "unreadable form"))
		view.Error = "Your message could not be read. Please try again."
		c.HTML(http.StatusBadRequest, "contact.html", view)
		return
	}

	_, err := portfolio.SubmitContact(c.Request.Context(), h.store, form, h.now)
	contactOutcome(err)
	switch {
	case err == nil:
		view.Sent = true
		view.Form = portfolio.ContactForm{}
		c.HTML(http.StatusOK, "contact.html", view)
	case errs.IsValidation(err):
		view.Error = "Please check your message: " + err.Error()
		c.HTML(http.StatusBadRequest, "contact.html", view)
	default:
		view.Error = "Failed to send message. Please try again."
		c.HTML(errs.StatusCode(err), "contact.html", view)
	}
}

// NotFound renders the public 404 page.
func (h *SiteHandler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", ErrorView{
		Layout:  h.renderer.Layout(c.Request.Context()),
		Heading: "Page not found",
		Message: "The page you are looking for does not exist.",
	})
}
