package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/crud"
	"github.com/devfolio/devfolio/internal/errs"
	"github.com/devfolio/devfolio/internal/portfolio"
	"github.com/devfolio/devfolio/internal/site"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/devfolio/devfolio/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// ContentHandler serves the JSON API over the public views and the admin
// collections.
type ContentHandler struct {
	store    store.Store
	renderer *site.Renderer
	cache    *site.CachedSettings
	now      func() time.Time
}

func NewContentHandler(s store.Store, r *site.Renderer) *ContentHandler {
	return &ContentHandler{store: s, renderer: r, now: time.Now}
}

// WithSettingsCache makes settings saves invalidate c.
func (h *ContentHandler) WithSettingsCache(c *site.CachedSettings) *ContentHandler {
	h.cache = c
	return h
}

// RegisterPublic registers the unauthenticated endpoints. limit, when not
// nil, guards the contact endpoint.
func (h *ContentHandler) RegisterPublic(rg *gin.RouterGroup, limit gin.HandlerFunc) {
	rg.GET("/site/layout", h.Layout)
	rg.GET("/site/home", h.Home)
	rg.GET("/site/projects", h.Projects)
	rg.GET("/site/about", h.About)
	rg.POST("/contact", chain(limit, h.Contact)...)
}

// RegisterAdmin registers the admin endpoints; rg must already be behind
// the bearer auth middleware.
func (h *ContentHandler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)

	rg.GET("/projects", func(c *gin.Context) { listItems(c, h.projects(new(crud.Notices))) })
	rg.POST("/projects", func(c *gin.Context) { createItem(c, h.projects, bindJSON[portfolio.ProjectForm]) })
	rg.PUT("/projects/:id", func(c *gin.Context) { updateItem(c, h.projects, bindJSON[portfolio.ProjectForm]) })
	rg.DELETE("/projects/:id", func(c *gin.Context) { deleteItem(c, h.projects) })

	rg.GET("/skills", func(c *gin.Context) { listItems(c, h.skills(new(crud.Notices))) })
	rg.POST("/skills", func(c *gin.Context) { createItem(c, h.skills, bindSkill) })
	rg.PUT("/skills/:id", func(c *gin.Context) { updateItem(c, h.skills, bindSkill) })
	rg.DELETE("/skills/:id", func(c *gin.Context) { deleteItem(c, h.skills) })

	rg.GET("/messages", h.Messages)
	rg.POST("/messages/:id/read", h.MarkRead)
	rg.DELETE("/messages/:id", func(c *gin.Context) { deleteItem(c, h.messages) })

	rg.GET("/settings", h.GetSettings)
	rg.PUT("/settings", h.PutSettings)
}

func (h *ContentHandler) Layout(c *gin.Context) {
	c.JSON(http.StatusOK, h.renderer.Layout(c.Request.Context()))
}

func (h *ContentHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, h.renderer.Home(c.Request.Context()))
}

func (h *ContentHandler) Projects(c *gin.Context) {
	c.JSON(http.StatusOK, h.renderer.Projects(c.Request.Context()))
}

func (h *ContentHandler) About(c *gin.Context) {
	c.JSON(http.StatusOK, h.renderer.About(c.Request.Context()))
}

// Contact stores a contact form submission as an unread message.
func (h *ContentHandler) Contact(c *gin.Context) {
	var form portfolio.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id, err := portfolio.SubmitContact(c.Request.Context(), h.store, form, h.now)
	contactOutcome(err)
	if err != nil {
		failJSON(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *ContentHandler) Dashboard(c *gin.Context) {
	m, err := portfolio.Dashboard(c.Request.Context(), h.store)
	if err != nil {
		failJSON(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *ContentHandler) Messages(c *gin.Context) {
	m := h.messages(new(crud.Notices))
	if err := m.Load(c.Request.Context()); err != nil {
		failJSON(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": m.Items, "unread": portfolio.Unread(m.Items)})
}

func (h *ContentHandler) MarkRead(c *gin.Context) {
	notices := new(crud.Notices)
	m := h.messages(notices)
	if err := portfolio.MarkRead(c.Request.Context(), m, c.Param("id")); err != nil {
		failJSON(c, err, notices)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": m.Items, "unread": portfolio.Unread(m.Items), "notices": notices.List()})
}

func (h *ContentHandler) GetSettings(c *gin.Context) {
	e := portfolio.NewSettingsEditor(h.store, nil)
	if err := e.Load(c.Request.Context()); err != nil {
		failJSON(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, e.Settings)
}

// settingsRequest is the whole settings object. List entries without an id
// are added.
type settingsRequest struct {
	portfolio.SettingsForm
	SocialLinks    []content.SocialLink    `json:"socialLinks"`
	Education      []content.Education     `json:"education"`
	Certifications []content.Certification `json:"certifications"`
}

func (h *ContentHandler) PutSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	notices := new(crud.Notices)
	e := h.settingsEditor(c, notices)
	if err := e.Load(c.Request.Context()); err != nil {
		failJSON(c, err, notices)
		return
	}
	e.Apply(req.SettingsForm)
	e.ReplaceLists(req.SocialLinks, req.Education, req.Certifications)
	if err := e.Save(c.Request.Context()); err != nil {
		failJSON(c, err, notices)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": e.Settings, "notices": notices.List()})
}

func (h *ContentHandler) settingsEditor(c *gin.Context, n crud.Notifier) *portfolio.SettingsEditor {
	e := portfolio.NewSettingsEditor(h.store, crud.Notifiers{n, crud.LogNotifier{}})
	e.OnSave(func(content.Settings) { metrics.ObserveMutation(content.SettingsCollection, "merge") })
	if h.cache != nil {
		e.OnSave(func(content.Settings) { h.cache.Invalidate(c.Request.Context()) })
	}
	return e
}

func (h *ContentHandler) projects(n crud.Notifier) *portfolio.ProjectManager {
	return portfolio.NewProjectManager(h.store, crud.Notifiers{n, crud.LogNotifier{}}).WithEvents(mutationEvents)
}

func (h *ContentHandler) skills(n crud.Notifier) *portfolio.SkillManager {
	return portfolio.NewSkillManager(h.store, crud.Notifiers{n, crud.LogNotifier{}}).WithEvents(mutationEvents)
}

func (h *ContentHandler) messages(n crud.Notifier) *portfolio.MessageManager {
	return portfolio.NewMessageManager(h.store, crud.Notifiers{n, crud.LogNotifier{}}).WithEvents(mutationEvents)
}

var mutationEvents = crud.Events{Mutated: metrics.ObserveMutation}

func listItems[T, F any](c *gin.Context, m *crud.Manager[T, F]) {
	if err := m.Load(c.Request.Context()); err != nil {
		failJSON(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": m.Items})
}

func createItem[T, F any](c *gin.Context, newManager func(crud.Notifier) *crud.Manager[T, F], bind func(*gin.Context) (F, error)) {
	form, err := bind(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	notices := new(crud.Notices)
	m := newManager(notices)
	if err := m.Submit(c.Request.Context(), form); err != nil {
		failJSON(c, err, notices)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"items": m.Items, "notices": notices.List()})
}

func updateItem[T, F any](c *gin.Context, newManager func(crud.Notifier) *crud.Manager[T, F], bind func(*gin.Context) (F, error)) {
	form, err := bind(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	notices := new(crud.Notices)
	m := newManager(notices)
	if err := m.Load(c.Request.Context()); err != nil {
		failJSON(c, err, notices)
		return
	}
	if !m.SelectByID(c.Param("id")) {
		failJSON(c, errs.Write("update "+m.Kind().Collection(), store.ErrNotFound), notices)
		return
	}
	if err := m.Submit(c.Request.Context(), form); err != nil {
		failJSON(c, err, notices)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": m.Items, "notices": notices.List()})
}

// deleteItem requires ?confirm=true and answers 428 with the confirmation
// prompt otherwise.
func deleteItem[T, F any](c *gin.Context, newManager func(crud.Notifier) *crud.Manager[T, F]) {
	notices := new(crud.Notices)
	m := newManager(notices)
	confirmed := c.Query("confirm") == "true"
	var prompt string
	attempted, err := m.Remove(c.Request.Context(), c.Param("id"), crud.ConfirmFunc(func(p string) bool {
		prompt = p
		return confirmed
	}))
	if !attempted {
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "confirmation required", "prompt": prompt})
		return
	}
	if err != nil {
		failJSON(c, err, notices)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": m.Items, "notices": notices.List()})
}

func bindJSON[F any](c *gin.Context) (F, error) {
	var f F
	err := c.ShouldBindJSON(&f)
	return f, err
}

// bindSkill accepts level as a JSON number or string.
func bindSkill(c *gin.Context) (portfolio.SkillForm, error) {
	var req struct {
		Name     string          `json:"name"`
		Category string          `json:"category"`
		Level    json.RawMessage `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return portfolio.SkillForm{}, err
	}
	level := strings.Trim(string(req.Level), `"`)
	if level == "null" {
		level = ""
	}
	return portfolio.SkillForm{Name: req.Name, Category: req.Category, Level: level}, nil
}

// failJSON answers with the status errs.StatusCode assigns to err.
func failJSON(c *gin.Context, err error, notices *crud.Notices) {
	body := gin.H{"error": err.Error()}
	if f := errs.Field(err); f != "" {
		body["field"] = f
	}
	if notices != nil {
		body["notices"] = notices.List()
	}
	c.JSON(errs.StatusCode(err), body)
}

func contactOutcome(err error) {
	outcome := "accepted"
	switch {
	case errs.IsValidation(err):
		outcome = "rejected"
	case err != nil:
		outcome = "failed"
	}
	metrics.ContactSubmissions.WithLabelValues(outcome).Inc()
}

// chain drops a nil middleware in front of h.
func chain(mw gin.HandlerFunc, h ...gin.HandlerFunc) []gin.HandlerFunc {
	if mw == nil {
		return h
	}
	return append([]gin.HandlerFunc{mw}, h...)
}
