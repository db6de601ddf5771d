package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/devfolio/devfolio/internal/content"
	"github.com/devfolio/devfolio/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()
	list, ok := body["items"].([]interface{})
	require.True(t, ok, "items missing in %v", body)
	return list
}

func TestAdminAPIRequiresBearer(t *testing.T) {
	a := newApp(t)
	w := a.doJSON(http.MethodGet, "/api/v1/admin/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = a.doJSON(http.MethodGet, "/api/v1/admin/projects", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectsLifecycle(t *testing.T) {
	a := newApp(t)
	token, _ := a.login()

	w := a.doJSON(http.MethodPost, "/api/v1/admin/projects", token, gin.H{
		"title":        "Devfolio",
		"description":  "Portfolio CMS",
		"technologies": "Go, , MongoDB",
		"githubUrl":    "https://github.com/example/devfolio",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	list := items(t, body)
	require.Len(t, list, 1)
	p := list[0].(map[string]interface{})
	assert.Equal(t, []interface{}{"Go", "MongoDB"}, p["technologies"])
	assert.Contains(t, w.Body.String(), "Project added successfully")
	id := p["id"].(string)

	w = a.doJSON(http.MethodPut, "/api/v1/admin/projects/"+id, token, gin.H{"title": "Devfolio 2", "description": "Portfolio CMS"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Devfolio 2", items(t, decode(t, w))[0].(map[string]interface{})["title"])

	w = a.doJSON(http.MethodPut, "/api/v1/admin/projects/missing", token, gin.H{"title": "x", "description": "y"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.doJSON(http.MethodPost, "/api/v1/admin/projects", token, gin.H{"title": "", "description": "y"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "title", decode(t, w)["field"])

	w = a.doJSON(http.MethodDelete, "/api/v1/admin/projects/"+id, token, nil)
	assert.Equal(t, http.StatusPreconditionRequired, w.Code)
	assert.Equal(t, "Are you sure you want to delete this project?", decode(t, w)["prompt"])

	w = a.doJSON(http.MethodDelete, "/api/v1/admin/projects/"+id+"?confirm=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, items(t, decode(t, w)))

	w = a.doJSON(http.MethodDelete, "/api/v1/admin/projects/"+id+"?confirm=true", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSkillLevelRejectedBeforeWrite(t *testing.T) {
	a := newApp(t)
	token, _ := a.login()

	w := a.doJSON(http.MethodPost, "/api/v1/admin/skills", token, gin.H{"name": "Go", "category": "Languages", "level": 11})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "level", decode(t, w)["field"])

	docs, err := a.store.List(context.Background(), content.SkillsCollection, store.Query{})
	require.NoError(t, err)
	assert.Empty(t, docs)

	w = a.doJSON(http.MethodPost, "/api/v1/admin/skills", token, gin.H{"name": "Go", "category": "Languages", "level": "9"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 9, items(t, decode(t, w))[0].(map[string]interface{})["level"])

	w = a.doJSON(http.MethodPost, "/api/v1/admin/skills", token, gin.H{"name": "Rust", "category": "Languages"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.EqualValues(t, 5, items(t, decode(t, w))[1].(map[string]interface{})["level"])
}

func TestContactMessagesAndMarkRead(t *testing.T) {
	a := newApp(t)
	token, _ := a.login()

	w := a.doJSON(http.MethodPost, "/api/v1/contact", "", gin.H{"name": "Grace", "email": "grace@example.com", "subject": "Hi", "message": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "message", decode(t, w)["field"])

	w = a.doJSON(http.MethodPost, "/api/v1/contact", "", gin.H{"name": "Grace", "email": "grace@example.com", "subject": "Hi", "message": "Hello there"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.doJSON(http.MethodGet, "/api/v1/admin/messages", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["unread"])
	msg := items(t, body)[0].(map[string]interface{})
	assert.Equal(t, false, msg["read"])

	w = a.doJSON(http.MethodPost, "/api/v1/admin/messages/"+msg["id"].(string)+"/read", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body = decode(t, w)
	assert.EqualValues(t, 0, body["unread"])
	read := items(t, body)[0].(map[string]interface{})
	assert.Equal(t, true, read["read"])
	assert.Equal(t, msg["message"], read["message"])
	assert.Equal(t, msg["createdAt"], read["createdAt"])

	w = a.doJSON(http.MethodGet, "/api/v1/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["totalMessages"])
}

func TestSettingsAPI(t *testing.T) {
	a := newApp(t)
	token, _ := a.login()

	w := a.doJSON(http.MethodGet, "/api/v1/admin/settings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{}, decode(t, w)["socialLinks"])

	valid := gin.H{
		"fullName": "Ada Lovelace", "title": "Engineer", "bio": "Analytical", "email": "ada@example.com",
		"siteTitle": "Ada", "siteDescription": "Ada's portfolio", "keywords": "go, web",
		"socialLinks": []gin.H{{"platform": "GitHub", "url": "https://github.com/ada"}},
	}
	w = a.doJSON(http.MethodPut, "/api/v1/admin/settings", token, valid)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	settings := decode(t, w)["settings"].(map[string]interface{})
	links := settings["socialLinks"].([]interface{})
	require.Len(t, links, 1)
	assert.NotEmpty(t, links[0].(map[string]interface{})["id"])

	invalid := gin.H{"fullName": "Ada", "title": "t", "bio": "b", "email": "not-an-email", "siteTitle": "s", "siteDescription": "d"}
	w = a.doJSON(http.MethodPut, "/api/v1/admin/settings", token, invalid)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", decode(t, w)["field"])

	w = a.doJSON(http.MethodGet, "/api/v1/site/layout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada Lovelace", decode(t, w)["Brand"])
}

func TestPublicSiteAPIFallbacks(t *testing.T) {
	a := newApp(t)
	w := a.doJSON(http.MethodGet, "/api/v1/site/home", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	hero := decode(t, w)["Hero"].(map[string]interface{})
	assert.Equal(t, "Developer", hero["Name"])
	assert.Equal(t, "A passionate developer", hero["Title"])
}
