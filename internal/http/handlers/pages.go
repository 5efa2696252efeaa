package handlers

import (
	"fmt"
	"html"
	"net/http"
)

// Páginas placeholder. El frontend de verdad (SPA) se sirve aparte; estas
// existen para que el gate tenga destinos navegables en dev y en tests.

func writePage(w http.ResponseWriter, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><title>%s</title><h1>%s</h1>%s",
		html.EscapeString(title), html.EscapeString(title), body)
}

func SignInPage(w http.ResponseWriter, r *http.Request) {
	extra := ""
	if msg := r.URL.Query().Get("oAuthError"); msg != "" {
		extra = "<p>" + html.EscapeString(msg) + "</p>"
	}
	writePage(w, "Sign in", extra)
}

func SignUpPage(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Sign up", "")
}

func HomePage(w http.ResponseWriter, r *http.Request) {
	// solo alcanzable sin sesión cuando el path no es protegido; el gate
	// redirige a los usuarios autenticados a /{userID}
	http.Redirect(w, r, "/sign-in", http.StatusFound)
}

func UserHomePage(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Dashboard", "<p>"+html.EscapeString(r.PathValue("userID"))+"</p>")
}
