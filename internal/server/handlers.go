package server

import (
	"encoding/json"
	"net/http"

	"git.home.luguber.info/inful/docregistry/internal/frontmatter"
	"git.home.luguber.info/inful/docregistry/internal/registry"
)

// pageResponse is the JSON shape for a resolved page. The body is omitted
// unless explicitly requested.
type pageResponse struct {
	Path        string                               `json:"path"`
	Title       string                               `json:"title,omitempty"`
	SEOTitle    string                               `json:"seotitle,omitempty"`
	Description string                               `json:"description,omitempty"`
	Menu        map[string]frontmatter.MenuPlacement `json:"menu,omitempty"`
	Tags        map[string][]string                  `json:"tags,omitempty"`
	Aliases     []string                             `json:"aliases,omitempty"`
	Body        string                               `json:"body,omitempty"`
}

func toPageResponse(page *registry.Page, includeBody bool) pageResponse {
	resp := pageResponse{
		Path:        page.Path,
		Title:       page.Title,
		SEOTitle:    page.SEOTitle,
		Description: page.Description,
		Menu:        page.Menu,
		Tags:        page.Tags,
		Aliases:     page.Aliases,
	}
	if includeBody {
		resp.Body = string(page.Body)
	}
	return resp
}

// navNodeResponse is the JSON shape for one navigation tree node.
type navNodeResponse struct {
	Path     string            `json:"path"`
	Title    string            `json:"title,omitempty"`
	Name     string            `json:"name"`
	Weight   int               `json:"weight"`
	Children []navNodeResponse `json:"children,omitempty"`
}

func toNavResponse(nodes []*registry.NavNode) []navNodeResponse {
	out := make([]navNodeResponse, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, navNodeResponse{
			Path:     node.Page.Path,
			Title:    node.Page.Title,
			Name:     node.Name,
			Weight:   node.Weight,
			Children: toNavResponse(node.Children),
		})
	}
	return out
}

// handlePage resolves a page by path or alias: GET /api/v1/pages?path=...
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		s.adapter.WriteErrorResponse(w, r, errMissingPathParam)
		return
	}

	reg, _ := s.holder.Get()
	page, err := reg.Resolve(path)
	s.recorder.IncResolve(err == nil)
	if err != nil {
		s.adapter.WriteErrorResponse(w, r, err)
		return
	}

	includeBody := r.URL.Query().Get("body") == "true"
	writeJSON(w, toPageResponse(page, includeBody))
}

// handleNav returns the ordered navigation tree: GET /api/v1/nav/{namespace}
func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	ns := frontmatter.NormalizeNamespace(r.PathValue("namespace"))
	reg, _ := s.holder.Get()
	writeJSON(w, map[string]any{
		"namespace": ns,
		"tree":      toNavResponse(reg.NavigationTree(ns)),
	})
}

// handleNamespaces lists known menu namespaces: GET /api/v1/namespaces
func (s *Server) handleNamespaces(w http.ResponseWriter, r *http.Request) {
	reg, _ := s.holder.Get()
	writeJSON(w, map[string]any{"namespaces": reg.Namespaces()})
}

// handleTags returns pages by tag: GET /api/v1/tags/{namespace}/{tag}
func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	ns := frontmatter.NormalizeNamespace(r.PathValue("namespace"))
	tag := r.PathValue("tag")

	reg, _ := s.holder.Get()
	pages := reg.FindByTag(ns, tag)
	out := make([]pageResponse, 0, len(pages))
	for _, page := range pages {
		out = append(out, toPageResponse(page, false))
	}
	writeJSON(w, map[string]any{
		"namespace": ns,
		"tag":       tag,
		"pages":     out,
	})
}

// handleBrokenLinks returns the last verification report:
// GET /api/v1/broken-links
func (s *Server) handleBrokenLinks(w http.ResponseWriter, r *http.Request) {
	report := s.LastReport()
	if report == nil {
		writeJSON(w, map[string]any{"verified": false})
		return
	}
	writeJSON(w, map[string]any{
		"verified":     true,
		"build_id":     report.BuildID,
		"pages":        report.Pages,
		"broken_links": report.Broken,
		"duration_ms":  report.Duration.Milliseconds(),
	})
}

// handleHealthz is a liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleReadyz reports readiness: a registry must be loaded.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	reg, buildID := s.holder.Get()
	if reg == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, map[string]any{
		"status":   "ready",
		"build_id": buildID,
		"pages":    reg.Len(),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
