package server

import (
	"html/template"
	"net/http"

	"hub-go/internal/hub"
)

// The pages are a thin server-rendered shell around the JSON API: a link
// grid, an admin list with delete controls, and a login form.

var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "dashboard"}}<!doctype html>
<html><head><title>{{.Site.Name}}</title></head>
<body>
<h1>{{.Site.Name}}</h1>
<ul>
{{range .Items}}<li><a href="{{.Link}}">{{.Title}}</a>{{if .Subtitle}} &mdash; {{.Subtitle}}{{end}}</li>
{{else}}<li>No items yet.</li>
{{end}}</ul>
{{if .Site.SupportContact}}<footer>Support: {{.Site.SupportContact}}</footer>{{end}}
</body></html>
{{end}}

{{define "admin"}}<!doctype html>
<html><head><title>{{.Site.Name}} admin</title></head>
<body>
<h1>{{.Site.Name}} admin</h1>
<ul>
{{range .Items}}<li>{{.Title}} ({{.Link}})
<button onclick="fetch('/api/items',{method:'DELETE',headers:{'Content-Type':'application/json'},body:JSON.stringify({id:'{{.ID}}'})}).then(()=>location.reload())">delete</button></li>
{{end}}</ul>
<form onsubmit="event.preventDefault();const f=this;fetch('/api/items',{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify({title:f.title.value,subtitle:f.subtitle.value,link:f.link.value,image:f.image.value})}).then(()=>location.reload())">
<input name="title" placeholder="Title" required>
<input name="subtitle" placeholder="Subtitle">
<input name="link" placeholder="Link" required>
<input name="image" placeholder="Image URL">
<button>Add</button>
</form>
</body></html>
{{end}}

{{define "login"}}<!doctype html>
<html><head><title>{{.Site.Name}} login</title></head>
<body>
<h1>{{.Site.Name}}</h1>
<form onsubmit="event.preventDefault();fetch('/api/auth',{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify({password:this.password.value})}).then(r=>{if(r.ok){location.href='/'}else{document.getElementById('err').textContent='Invalid password'}})">
<input type="password" name="password" placeholder="Password" required>
<button>Sign in</button>
</form>
<p id="err"></p>
</body></html>
{{end}}
`))

type pageData struct {
	Site  Site
	Items []hub.Item
}

func (h *Handler) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.renderPage(w, r, "dashboard")
}

func (h *Handler) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "admin")
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, "login")
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, name string) {
	data := pageData{Site: h.site}
	if name != "login" {
		data.Items = h.repo.List(r.Context())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("rendering page failed", "page", name, "error", err)
	}
}
