// server.go: the web front end.
//
// The server renders a single editor page and evaluates submitted source in a
// fresh Interpreter per request, so requests cannot observe each other's
// state. The platform is forced to "web" unless the config overrides it,
// which disables terminal-bound builtins like input.
package boomerang

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig is read from a YAML file (conventionally boomerang.yaml).
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	Platform string `yaml:"platform"`
}

// DefaultServerConfig returns the config used when no file is present.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{Addr: ":8080", Platform: PlatformWeb}
}

// LoadServerConfig reads a YAML config file, filling unset fields from the
// defaults. A missing file is not an error; the defaults are returned.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultServerConfig().Addr
	}
	if cfg.Platform == "" {
		cfg.Platform = DefaultServerConfig().Platform
	}
	return cfg, nil
}

const indexTemplate = `<!DOCTYPE html>
<html>
<head><title>Boomerang</title></head>
<body>
<h1>Boomerang</h1>
{{if .Message}}
<p>{{.Message}}</p>
{{end}}
<form method="post" action="/" enctype="multipart/form-data">
<input type="file" name="file">
<button type="submit">Upload</button>
</form>
<form method="post" action="/interpret">
<textarea name="source" rows="20" cols="80">{{.Source}}</textarea><br>
<button type="submit">Run</button>
<button type="submit" formaction="/visualize">Visualize</button>
<button type="submit" formaction="/download">Download</button>
</form>
{{if .Results}}
<h2>Results</h2>
<pre>{{range .Results}}{{.}}
{{end}}</pre>
{{end}}
</body>
</html>
`

type indexPage struct {
	Source  string
	Results []string
	Message string
}

// Server serves the editor page and the interpret/visualize/download actions.
type Server struct {
	cfg  ServerConfig
	tmpl *template.Template
}

func NewServer(cfg ServerConfig) *Server {
	return &Server{
		cfg:  cfg,
		tmpl: template.Must(template.New("index").Parse(indexTemplate)),
	}
}

// Handler returns the route table as an http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/interpret", s.handleInterpret)
	mux.HandleFunc("/visualize", s.handleVisualize)
	mux.HandleFunc("/download", s.handleDownload)
	return mux
}

// ListenAndServe blocks serving on the configured address.
func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.cfg.Addr, s.Handler())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodPost {
		s.handleUpload(w, r)
		return
	}
	s.renderIndex(w, indexPage{})
}

// handleUpload loads an uploaded source file into the editor. Only files with
// the language's extension are accepted; anything else renders the page with
// a message instead of source.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		s.renderIndex(w, indexPage{Message: "No file in request"})
		return
	}
	defer file.Close()

	if header.Filename == "" {
		s.renderIndex(w, indexPage{Message: "No selected file"})
		return
	}
	if fileType, ok := allowedFile(header.Filename); !ok {
		s.renderIndex(w, indexPage{Message: "Invalid file type: " + fileType})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload", http.StatusInternalServerError)
		return
	}
	s.renderIndex(w, indexPage{Source: string(content)})
}

// allowedFile splits out the filename's extension and reports whether it is
// the language's own.
func allowedFile(filename string) (string, bool) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return "no extension", false
	}
	fileType := strings.ToLower(filename[idx+1:])
	return fileType, "."+fileType == FileExtension
}

// handleInterpret evaluates the submitted source and renders the editor page
// with one result line per statement. Language errors come back as a single
// Error line; they are never HTTP errors.
func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	source, ok := s.sourceParam(w, r)
	if !ok {
		return
	}

	var sink strings.Builder
	interpreter := NewInterpreter(
		WithOutput(&sink),
		WithPlatform(s.cfg.Platform),
	)
	results := interpreter.Evaluate(source)

	lines := make([]string, len(results))
	for i, result := range results {
		lines[i] = result.String()
	}
	s.renderIndex(w, indexPage{Source: source, Results: lines})
}

// handleVisualize responds with the program's AST as Graphviz DOT text. Lex
// and parse errors render back into the editor page instead.
func (s *Server) handleVisualize(w http.ResponseWriter, r *http.Request) {
	source, ok := s.sourceParam(w, r)
	if !ok {
		return
	}

	statements, err := Parse(source)
	if err != nil {
		s.renderIndex(w, indexPage{Source: source, Results: []string{err.Error()}})
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	fmt.Fprint(w, VisualizeAST(statements))
}

// handleDownload sends the submitted source back as a main.bng attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	source, ok := s.sourceParam(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="main`+FileExtension+`"`)
	fmt.Fprint(w, source)
}

func (s *Server) sourceParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return "", false
	}
	return r.PostFormValue("source"), true
}

func (s *Server) renderIndex(w http.ResponseWriter, page indexPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, page); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
