package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subseek/internal/config"
	"subseek/internal/testsupport"
)

const (
	loginAnswer = `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
<member><name>token</name><value><string>cli-token</string></value></member>
<member><name>status</name><value><string>200 OK</string></value></member>
</struct></value></param></params></methodResponse>`

	searchAnswer = `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
<member><name>status</name><value><string>200 OK</string></value></member>
<member><name>data</name><value><array><data>
<value><struct>
<member><name>ISO639</name><value><string>en</string></value></member>
<member><name>LanguageName</name><value><string>English</string></value></member>
<member><name>MovieName</name><value><string>Breakdance</string></value></member>
<member><name>SubDownloadLink</name><value><string>http://dl.example/en.gz</string></value></member>
<member><name>SubFileName</name><value><string>breakdance.en.srt</string></value></member>
</struct></value>
<value><struct>
<member><name>ISO639</name><value><string>pb</string></value></member>
<member><name>SubDownloadLink</name><value><string>http://dl.example/pb.gz</string></value></member>
</struct></value>
</data></array></value></member>
</struct></value></param></params></methodResponse>`

	emptySearchAnswer = `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
<member><name>status</name><value><string>200 OK</string></value></member>
<member><name>data</name><value><boolean>0</boolean></value></member>
</struct></value></param></params></methodResponse>`

	statusAnswer = `<?xml version="1.0"?>
<methodResponse><params><param><value><struct>
<member><name>status</name><value><string>200 OK</string></value></member>
</struct></value></param></params></methodResponse>`
)

var methodNamePattern = regexp.MustCompile(`<methodName>([^<]+)</methodName>`)

// fakeCatalog answers the XML-RPC methods the CLI drives and counts calls.
type fakeCatalog struct {
	server *httptest.Server
	search string

	mu    sync.Mutex
	calls map[string]int
}

func newFakeCatalog(t *testing.T, search string) *fakeCatalog {
	t.Helper()
	fc := &fakeCatalog{search: search, calls: map[string]int{}}
	fc.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		method := ""
		if m := methodNamePattern.FindSubmatch(body); m != nil {
			method = string(m[1])
		}
		fc.mu.Lock()
		fc.calls[method]++
		fc.mu.Unlock()

		w.Header().Set("Content-Type", "text/xml")
		switch method {
		case "LogIn":
			io.WriteString(w, loginAnswer)
		case "SearchSubtitles":
			io.WriteString(w, fc.search)
		default:
			io.WriteString(w, statusAnswer)
		}
	}))
	t.Cleanup(fc.server.Close)
	return fc
}

func (fc *fakeCatalog) count(method string) int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.calls[method]
}

type cliTestEnv struct {
	cfg        *config.Config
	catalog    *fakeCatalog
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, search string, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	for _, key := range []string{"OPENSUBTITLES_USERNAME", "OPENSUBTITLES_PASSWORD", "OPENSUBTITLES_ENDPOINT", "OSC_DEBUG", "SUBSEEK_DEBUG"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	catalog := newFakeCatalog(t, search)
	opts = append([]testsupport.ConfigOption{testsupport.WithEndpoint(catalog.server.URL)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"

	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		catalog:    catalog,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
