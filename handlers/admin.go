package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/devfolio/devfolio/internal/authgate"
	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/crud"
	"github.com/devfolio/devfolio/internal/errs"
	"github.com/devfolio/devfolio/internal/operators"
	"github.com/devfolio/devfolio/internal/portfolio"
	"github.com/devfolio/devfolio/internal/site"
	"github.com/devfolio/devfolio/internal/storage"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/devfolio/devfolio/pkg/logger"
	"github.com/devfolio/devfolio/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// AdminHandler renders the admin console. Every request builds its own
// managers, so nothing but the store is shared between page views.
type AdminHandler struct {
	store        store.Store
	gate         *authgate.Gate
	operatorsSvc *operators.Service
	images       *storage.Images
	cache        *site.CachedSettings
}

// NewAdminHandler creates an AdminHandler. images may be nil, which disables
// upload fields.
func NewAdminHandler(s store.Store, gate *authgate.Gate, ops *operators.Service, images *storage.Images) *AdminHandler {
	return &AdminHandler{store: s, gate: gate, operatorsSvc: ops, images: images}
}

// WithSettingsCache makes settings saves invalidate c.
func (h *AdminHandler) WithSettingsCache(c *site.CachedSettings) *AdminHandler {
	h.cache = c
	return h
}

// Register registers the login pages and the gated console under /admin.
// It returns the gated group so callers can add more routes behind the gate.
func (h *AdminHandler) Register(r gin.IRouter) *gin.RouterGroup {
	r.GET("/admin/login", h.LoginPage)
	r.POST("/admin/login", h.Login)
	r.POST("/admin/logout", h.Logout)

	g := r.Group("/admin", h.gate.Require())
	g.GET("", h.Dashboard)

	g.GET("/projects", h.Projects)
	g.POST("/projects", h.SaveProject)
	g.GET("/projects/:id/delete", h.ConfirmDeleteProject)
	g.POST("/projects/:id/delete", h.DeleteProject)

	g.GET("/skills", h.Skills)
	g.POST("/skills", h.SaveSkill)
	g.GET("/skills/:id/delete", h.ConfirmDeleteSkill)
	g.POST("/skills/:id/delete", h.DeleteSkill)

	g.GET("/messages", h.Messages)
	g.POST("/messages/:id/read", h.MarkRead)
	g.GET("/messages/:id/delete", h.ConfirmDeleteMessage)
	g.POST("/messages/:id/delete", h.DeleteMessage)

	g.GET("/settings", h.Settings)
	g.POST("/settings", h.SaveSettings)
	return g
}

// LoginPage renders the password form; operators who are already signed in
// go straight to the dashboard.
func (h *AdminHandler) LoginPage(c *gin.Context) {
	if h.gate.Check(c).State == authgate.Authenticated {
		c.Redirect(http.StatusSeeOther, h.gate.HomePath)
		return
	}
	c.HTML(http.StatusOK, "admin_login.html", gin.H{"Next": c.Query("next")})
}

func (h *AdminHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	next := c.PostForm("next")
	data := gin.H{"Email": email, "Next": next}

	op, err := h.operatorsSvc.Authenticate(c.Request.Context(), email, c.PostForm("password"))
	if errors.Is(err, operators.ErrInvalidCredentials) {
		loginAttempt("form", "failure")
		data["Error"] = "Invalid email or password"
		c.HTML(http.StatusUnauthorized, "admin_login.html", data)
		return
	}
	if err == nil {
		err = h.gate.Login(c, op)
	}
	if err != nil {
		loginAttempt("form", "error")
		logger.Errorf("admin login failed: %v", err)
		data["Error"] = "Sign-in is temporarily unavailable. Please try again."
		c.HTML(http.StatusServiceUnavailable, "admin_login.html", data)
		return
	}
	loginAttempt("form", "success")
	c.Redirect(http.StatusSeeOther, h.safeNext(next))
}

// safeNext only follows redirects back into the console.
func (h *AdminHandler) safeNext(next string) string {
	if strings.HasPrefix(next, h.gate.HomePath) && !strings.HasPrefix(next, "//") {
		return next
	}
	return h.gate.HomePath
}

func (h *AdminHandler) Logout(c *gin.Context) {
	if err := h.gate.Logout(c); err != nil {
		logger.Warnf("admin logout: %v", err)
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	notices := new(crud.Notices)
	data := gin.H{}
	m, err := portfolio.Dashboard(c.Request.Context(), h.store)
	if err != nil {
		logger.Errorf("dashboard: %v", err)
		notices.Notify(crud.Notice{Level: crud.Failure, Text: "Failed to fetch dashboard metrics"})
	} else {
		data["Metrics"] = m
	}
	h.render(c, http.StatusOK, "admin_dashboard.html", "Dashboard", "dashboard", notices, data)
}

// Projects

func (h *AdminHandler) projects(n crud.Notifier) *portfolio.ProjectManager {
	return portfolio.NewProjectManager(h.store, crud.Notifiers{n, crud.LogNotifier{}}).WithEvents(mutationEvents)
}

func (h *AdminHandler) Projects(c *gin.Context) {
	notices := new(crud.Notices)
	m := h.projects(notices)
	status := loadForEdit(c, m, notices)
	h.renderProjects(c, status, m, notices)
}

func (h *AdminHandler) SaveProject(c *gin.Context) {
	notices := new(crud.Notices)
	m := h.projects(notices)
	var form portfolio.ProjectForm
	if !bindForm(c, &form, notices) {
		m.Form = form
		_ = m.Load(c.Request.Context())
		h.renderProjects(c, http.StatusBadRequest, m, notices)
		return
	}

	url, err := h.uploadImage(c, "imageFile")
	if err != nil {
		m.Form = form
		_ = m.Load(c.Request.Context())
		notices.Notify(crud.Notice{Level: crud.Failure, Text: "Failed to upload image: " + err.Error()})
		h.renderProjects(c, uploadStatus(err), m, notices)
		return
	}
	if url != "" {
		form.ImageURL = url
	}
	status := submitForm(c, m, form, notices)
	h.renderProjects(c, status, m, notices)
}

func (h *AdminHandler) ConfirmDeleteProject(c *gin.Context) {
	confirmDelete(c, h, h.projects(nil), "projects", "/admin/projects")
}

func (h *AdminHandler) DeleteProject(c *gin.Context) {
	notices := new(crud.Notices)
	m := h.projects(notices)
	if status, ok := removeItem(c, m, notices, "/admin/projects"); ok {
		h.renderProjects(c, status, m, notices)
	}
}

func (h *AdminHandler) renderProjects(c *gin.Context, status int, m *portfolio.ProjectManager, notices *crud.Notices) {
	h.render(c, status, "admin_projects.html", "Projects", "projects", notices, gin.H{
		"Items":     m.Items,
		"Form":      m.Form,
		"EditingID": selectedID(m),
	})
}

// Skills

func (h *AdminHandler) skills(n crud.Notifier) *portfolio.SkillManager {
	return portfolio.NewSkillManager(h.store, crud.Notifiers{n, crud.LogNotifier{}}).WithEvents(mutationEvents)
}

func (h *AdminHandler) Skills(c *gin.Context) {
	notices := new(crud.Notices)
	m := h.skills(notices)
	status := loadForEdit(c, m, notices)
	h.renderSkills(c, status, m, notices)
}

func (h *AdminHandler) SaveSkill(c *gin.Context) {
	notices := new(crud.Notices)
	m := h.skills(notices)
	var form portfolio.SkillForm
	if !bindForm(c, &form, notices) {
		m.Form = form
		_ = m.Load(c.Request.Context())
		h.renderSkills(c, http.StatusBadRequest, m, notices)
		return
	}
	status := submitForm(c, m, form, notices)
	h.renderSkills(c, status, m, notices)
}

func (h *AdminHandler) ConfirmDeleteSkill(c *gin.Context) {
	confirmDelete(c, h, h.skills(nil), "skills", "/admin/skills")
}

func (h *AdminHandler) DeleteSkill(c *gin.Context) {
	notices := new(crud.Notices)
	m := h.skills(notices)
	if status, ok := removeItem(c, m, notices, "/admin/skills"); ok {
		h.renderSkills(c, status, m, notices)
	}
}

func (h *AdminHandler) renderSkills(c *gin.Context, status int, m *portfolio.SkillManager, notices *crud.Notices) {
	h.render(c, status, "admin_skills.html", "Skills", "skills", notices, gin.H{
		"Items":      m.Items,
		"Form":       m.Form,
		"EditingID":  selectedID(m),
		"Categories": site.Categories(m.Items),
	})
}

// Messages

func (h *AdminHandler) messages(n crud.Notifier) *portfolio.MessageManager {
	return portfolio.NewMessageManager(h.store, crud.Notifiers{n, crud.LogNotifier{}}).WithEvents(mutationEvents)
}

func (h *AdminHandler) Messages(c *gin.Context) {
	notices := new(crud.Notices)
	m := h.messages(notices)
	status := http.StatusOK
	if err := m.Load(c.Request.Context()); err != nil {
		status = errs.StatusCode(err)
	}
	h.renderMessages(c, status, m, notices)
}

func (h *AdminHandler) MarkRead(c *gin.Context) {
	notices := new(crud.Notices)
	m := h.messages(notices)
	status := http.StatusOK
	if err := portfolio.MarkRead(c.Request.Context(), m, c.Param("id")); err != nil {
		status = errs.StatusCode(err)
		_ = m.Load(c.Request.Context())
	}
	h.renderMessages(c, status, m, notices)
}

func (h *AdminHandler) ConfirmDeleteMessage(c *gin.Context) {
	confirmDelete(c, h, h.messages(nil), "messages", "/admin/messages")
}

func (h *AdminHandler) DeleteMessage(c *gin.Context) {
	notices := new(crud.Notices)
	m := h.messages(notices)
	if status, ok := removeItem(c, m, notices, "/admin/messages"); ok {
		h.renderMessages(c, status, m, notices)
	}
}

func (h *AdminHandler) renderMessages(c *gin.Context, status int, m *portfolio.MessageManager, notices *crud.Notices) {
	h.render(c, status, "admin_messages.html", "Messages", "messages", notices, gin.H{
		"Items":  m.Items,
		"Unread": portfolio.Unread(m.Items),
	})
}

// Settings

func (h *AdminHandler) settingsEditor(c *gin.Context, n crud.Notifier) *portfolio.SettingsEditor {
	e := portfolio.NewSettingsEditor(h.store, crud.Notifiers{n, crud.LogNotifier{}})
	e.OnSave(func(content.Settings) { metrics.ObserveMutation(content.SettingsCollection, "merge") })
	if h.cache != nil {
		e.OnSave(func(content.Settings) { h.cache.Invalidate(c.Request.Context()) })
	}
	return e
}

func (h *AdminHandler) Settings(c *gin.Context) {
	notices := new(crud.Notices)
	e := h.settingsEditor(c, notices)
	status := http.StatusOK
	if err := e.Load(c.Request.Context()); err != nil {
		status = errs.StatusCode(err)
	}
	h.renderSettings(c, status, e, e.Form(), notices)
}

// SaveSettings applies the scalar fields and the per-entry list edits, then
// writes the whole object.
func (h *AdminHandler) SaveSettings(c *gin.Context) {
	notices := new(crud.Notices)
	e := h.settingsEditor(c, notices)
	var form portfolio.SettingsForm
	if !bindForm(c, &form, notices) {
		_ = e.Load(c.Request.Context())
		h.renderSettings(c, http.StatusBadRequest, e, form, notices)
		return
	}

	if err := e.Load(c.Request.Context()); err != nil {
		h.renderSettings(c, errs.StatusCode(err), e, form, notices)
		return
	}
	url, err := h.uploadImage(c, "profileImageFile")
	if err != nil {
		notices.Notify(crud.Notice{Level: crud.Failure, Text: "Failed to upload image: " + err.Error()})
		h.renderSettings(c, uploadStatus(err), e, form, notices)
		return
	}
	if url != "" {
		form.ProfileImage = url
	}
	e.Apply(form)
	applyListEdits(c, e, notices)

	status := http.StatusOK
	if err := e.Save(c.Request.Context()); err != nil {
		status = errs.StatusCode(err)
	}
	h.renderSettings(c, status, e, e.Form(), notices)
}

func (h *AdminHandler) renderSettings(c *gin.Context, status int, e *portfolio.SettingsEditor, form portfolio.SettingsForm, notices *crud.Notices) {
	h.render(c, status, "admin_settings.html", "Settings", "settings", notices, gin.H{
		"Form":     form,
		"Settings": e.Settings,
	})
}

// applyListEdits reads the list fields of the settings form. Inputs are keyed
// by entry id, e.g. eduDegree[<id>]; the "new" key adds an entry when any of
// its inputs is filled in.
func applyListEdits(c *gin.Context, e *portfolio.SettingsEditor, n crud.Notifier) {
	platform, linkURL, icon, linkRemove := c.PostFormMap("linkPlatform"), c.PostFormMap("linkURL"), c.PostFormMap("linkIcon"), c.PostFormMap("linkRemove")
	for id := range platform {
		l := content.SocialLink{Platform: strings.TrimSpace(platform[id]), URL: strings.TrimSpace(linkURL[id]), Icon: strings.TrimSpace(icon[id])}
		switch {
		case id == "new":
			if l.Platform != "" || l.URL != "" {
				e.AddSocialLink(l)
			}
		case linkRemove[id] != "":
			logEntryEdit(n, "social link", id, e.RemoveSocialLink(id))
		default:
			logEntryEdit(n, "social link", id, e.UpdateSocialLink(id, l))
		}
	}

	degree, institution, year, desc, eduRemove := c.PostFormMap("eduDegree"), c.PostFormMap("eduInstitution"), c.PostFormMap("eduYear"), c.PostFormMap("eduDescription"), c.PostFormMap("eduRemove")
	for id := range degree {
		ed := content.Education{
			Degree:      strings.TrimSpace(degree[id]),
			Institution: strings.TrimSpace(institution[id]),
			Year:        strings.TrimSpace(year[id]),
			Description: strings.TrimSpace(desc[id]),
		}
		switch {
		case id == "new":
			if ed.Degree != "" || ed.Institution != "" || ed.Year != "" {
				e.AddEducation(ed)
			}
		case eduRemove[id] != "":
			logEntryEdit(n, "education", id, e.RemoveEducation(id))
		default:
			logEntryEdit(n, "education", id, e.UpdateEducation(id, ed))
		}
	}

	name, issuer, date, certURL, certRemove := c.PostFormMap("certName"), c.PostFormMap("certIssuer"), c.PostFormMap("certDate"), c.PostFormMap("certURL"), c.PostFormMap("certRemove")
	for id := range name {
		ce := content.Certification{
			Name:   strings.TrimSpace(name[id]),
			Issuer: strings.TrimSpace(issuer[id]),
			Date:   strings.TrimSpace(date[id]),
			URL:    strings.TrimSpace(certURL[id]),
		}
		switch {
		case id == "new":
			if ce.Name != "" || ce.Issuer != "" || ce.Date != "" {
				e.AddCertification(ce)
			}
		case certRemove[id] != "":
			logEntryEdit(n, "certification", id, e.RemoveCertification(id))
		default:
			logEntryEdit(n, "certification", id, e.UpdateCertification(id, ce))
		}
	}
}

// logEntryEdit reports edits of entries removed since the form was rendered.
// The rest of the form is still saved.
func logEntryEdit(n crud.Notifier, what, id string, err error) {
	if err == nil {
		return
	}
	logger.Warnf("settings: %s %s: %v", what, id, err)
	n.Notify(crud.Notice{Level: crud.Failure, Text: "The " + what + " you edited no longer exists; reload the page to see the current list"})
}

// Shared helpers

// bindForm binds the posted form into form. A body that cannot be read is
// reported as a failure notice.
func bindForm(c *gin.Context, form any, n crud.Notifier) bool {
	if err := c.ShouldBind(form); err != nil {
		logger.Warnf("%s %s: bind form: %v", c.Request.Method, c.Request.URL.Path, err)
		n.Notify(crud.Notice{Level: crud.Failure, Text: "The submitted form could not be read"})
		return false
	}
	return true
}

func (h *AdminHandler) render(c *gin.Context, status int, tmpl, title, active string, notices *crud.Notices, data gin.H) {
	data["Title"] = title
	data["Active"] = active
	data["Operator"] = authgate.OperatorFrom(c)
	data["Notices"] = notices.List()
	c.HTML(status, tmpl, data)
}

// confirmDelete renders the yes/no page in front of a delete. The prompt is
// the one the manager asks before removing.
func confirmDelete[T, F any](c *gin.Context, h *AdminHandler, m *crud.Manager[T, F], active, back string) {
	id := c.Param("id")
	var prompt string
	_, _ = m.Remove(c.Request.Context(), id, crud.ConfirmFunc(func(p string) bool {
		prompt = p
		return false
	}))
	h.render(c, http.StatusOK, "confirm.html", "Delete "+strings.ToLower(m.Kind().Labels().Singular), active, new(crud.Notices), gin.H{
		"Prompt": prompt,
		"Action": back + "/" + id + "/delete",
		"Cancel": back,
	})
}

func (h *AdminHandler) uploadImage(c *gin.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	if h.images == nil {
		return "", errors.New("image uploads are not configured")
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.images.Save(c.Request.Context(), f)
}

func uploadStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadGateway
}

// loadForEdit loads the list and selects ?edit=<id> when present.
func loadForEdit[T, F any](c *gin.Context, m *crud.Manager[T, F], n crud.Notifier) int {
	if err := m.Load(c.Request.Context()); err != nil {
		return errs.StatusCode(err)
	}
	if id := c.Query("edit"); id != "" && !m.SelectByID(id) {
		n.Notify(crud.Notice{Level: crud.Failure, Text: m.Kind().Labels().Singular + " not found"})
		return http.StatusNotFound
	}
	return http.StatusOK
}

// submitForm writes form, as an update when the posted id names a loaded item.
func submitForm[T, F any](c *gin.Context, m *crud.Manager[T, F], form F, n crud.Notifier) int {
	ctx := c.Request.Context()
	loadErr := m.Load(ctx)
	if id := c.PostForm("id"); id != "" {
		if loadErr != nil {
			m.Form = form
			return errs.StatusCode(loadErr)
		}
		if !m.SelectByID(id) {
			m.Form = form
			n.Notify(crud.Notice{Level: crud.Failure, Text: m.Kind().Labels().Singular + " not found"})
			return http.StatusNotFound
		}
	}
	if err := m.Submit(ctx, form); err != nil {
		return errs.StatusCode(err)
	}
	return http.StatusOK
}

// removeItem deletes the item once the confirmation page was answered yes.
// Answering no redirects back to the list and reports ok=false.
func removeItem[T, F any](c *gin.Context, m *crud.Manager[T, F], n crud.Notifier, back string) (int, bool) {
	ctx := c.Request.Context()
	yes := crud.ConfirmFunc(func(string) bool { return c.PostForm("confirm") == "yes" })
	attempted, err := m.Remove(ctx, c.Param("id"), yes)
	if !attempted {
		c.Redirect(http.StatusSeeOther, back)
		return 0, false
	}
	if err != nil {
		status := errs.StatusCode(err)
		_ = m.Load(ctx)
		return status, true
	}
	return http.StatusOK, true
}

func selectedID[T, F any](m *crud.Manager[T, F]) string {
	if m.Selected == nil {
		return ""
	}
	return m.Kind().ID(*m.Selected)
}
