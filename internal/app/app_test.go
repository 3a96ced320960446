package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TalelKhemiri/GoCodeMobile/internal/app"
	"github.com/TalelKhemiri/GoCodeMobile/internal/auth"
)

func TestInit_WiresTokenIntoAPIClient(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/login/":
			_, _ = w.Write([]byte(`{"access":"tok-abc","username":"tarek","role":"candidat"}`))
		case "/api/courses/":
			gotAuth = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	var c app.Config
	c.API.BaseURL = srv.URL + "/api"
	c.Storage.Path = filepath.Join(t.TempDir(), "gocode.db")

	a, err := app.Init(c)
	require.NoError(t, err)
	defer a.Shutdown()

	require.NoError(t, a.Auth().Login(context.Background(), auth.LoginRequest{Username: "tarek", Password: "pw"}))

	_, err = a.Catalog().Courses(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-abc", gotAuth, "the cached credential flows into subsequent requests")

	require.NotEmpty(t, a.Quiz().Modules())
}
