package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthAndProfileFlow(t *testing.T) {
	app := newTestApp(t)

	w, body := app.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "Rita@Example.com", "password": "long-enough", "full_name": "Rita Costa",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Bearer", body.Get("data.token_type").String())
	assert.Equal(t, "rita@example.com", body.Get("data.profile.email").String())
	assert.Equal(t, "guest", body.Get("data.profile.role").String())

	w, body = app.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "rita@example.com", "password": "long-enough", "full_name": "Rita Again",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", body.Get("code").String())

	w, body = app.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "rita@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", body.Get("error").String())

	w, body = app.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "rita@example.com", "password": "long-enough",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := body.Get("data.access_token").String()
	require.NotEmpty(t, token)

	w, body = app.doJSON(t, http.MethodPut, "/api/v1/profile", token, map[string]string{"avatar_url": "https://cdn.example.com/rita.png"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://cdn.example.com/rita.png", body.Get("data.avatar_url").String())

	w, body = app.doJSON(t, http.MethodPost, "/api/v1/profile/become-host", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Get("data.profile.is_host").Bool())
	hostToken := body.Get("data.access_token").String()

	w, _ = app.doJSON(t, http.MethodPost, "/api/v1/listings", hostToken, listingBody())
	assert.Equal(t, http.StatusCreated, w.Code)

	w, body = app.doJSON(t, http.MethodGet, "/api/v1/profile", hostToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "host", body.Get("data.role").String())
}

func TestProfile_RequiresAuth(t *testing.T) {
	app := newTestApp(t)

	w, body := app.doJSON(t, http.MethodGet, "/api/v1/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHENTICATED", body.Get("code").String())
}

func TestRegister_MissingFields(t *testing.T) {
	app := newTestApp(t)

	w, body := app.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", body.Get("code").String())
}
