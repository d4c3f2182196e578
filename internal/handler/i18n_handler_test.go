package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestGetCatalog(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		path   string
		locale string
	}{
		{"/api/v1/i18n/es", "es"},
		{"/api/v1/i18n/fr-CA", "fr"},
		{"/api/v1/i18n/xx", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w, body := app.doJSON(t, http.MethodGet, tt.path, "", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.locale, body.Get("data.locale").String())
			assert.True(t, body.Get(`data.messages.booking\.status\.pending`).Exists())
		})
	}
}

func TestListLocales_NegotiatesAcceptLanguage(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/i18n", nil)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9,en;q=0.5")
	w := app.send(req, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "es", w.Header().Get("Content-Language"))
	body := gjson.Parse(w.Body.String())
	assert.Equal(t, "es", body.Get("data.current").String())
	assert.Len(t, body.Get("data.locales").Array(), 3)
}
