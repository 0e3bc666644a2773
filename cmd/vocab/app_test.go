package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const chronosAnswer = `{"phrases":[{"phrase":"warrants","translation":"保證","explanation":"to require or deserve","example":"His hard work warrants a promotion."},{"phrase":"prior to","translation":"在...之前","explanation":"before","example":"I had never traveled abroad prior to this trip."}]}`

// testEnv points every external dependency at local fakes.
type testEnv struct {
	dir string

	mu           sync.Mutex
	openaiReply  func(prompt string) (int, string)
	ollamaReply  string
	openaiPrompt []string
}

func (e *testEnv) setOpenAI(fn func(prompt string) (int, string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.openaiReply = fn
}

func (e *testEnv) setOllama(reply string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ollamaReply = reply
}

func (e *testEnv) prompts() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.openaiPrompt...)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as tesseract")
	}
	e := &testEnv{
		dir:         t.TempDir(),
		openaiReply: func(string) (int, string) { return http.StatusOK, chronosAnswer },
		ollamaReply: chronosAnswer,
	}

	tess := filepath.Join(e.dir, "tesseract")
	script := "#!/bin/sh\necho 'Old Chronos warrants every bit of caution prior to the trial.'\n"
	require.NoError(t, os.WriteFile(tess, []byte(script), 0o755))

	openai := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) || len(req.Messages) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		prompt := req.Messages[len(req.Messages)-1].Content
		e.mu.Lock()
		e.openaiPrompt = append(e.openaiPrompt, prompt)
		reply := e.openaiReply
		e.mu.Unlock()
		status, content := reply(prompt)
		w.WriteHeader(status)
		if status/100 != 2 {
			_, _ = w.Write([]byte(`{"error":{"message":"upstream overloaded"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(openai.Close)

	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		e.mu.Lock()
		reply := e.ollamaReply
		e.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "deepseek-llm", "response": reply, "done": true})
	}))
	t.Cleanup(ollama.Close)

	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LLM_BACKEND", "openai")
	t.Setenv("TESSERACT_BIN", tess)
	t.Setenv("OCR_TSV_CONFIDENCE", "false")
	t.Setenv("OCR_DETECT_LANG", "false")
	t.Setenv("OCR_CLEAN", "false")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", openai.URL)
	t.Setenv("OLLAMA_BASE_URL", ollama.URL)
	t.Setenv("NOTION_TOKEN", "")
	t.Setenv("NOTION_DATABASE_ID", "")
	t.Setenv("IMGUR_CLIENT_ID", "")
	t.Setenv("IMGBB_API_KEY", "")
	t.Setenv("NOTES_DB_DSN", "file:"+filepath.Join(e.dir, "notes.db"))
	return e
}

func (e *testEnv) image(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(e.dir, name)
	require.NoError(t, os.WriteFile(p, []byte("\x89PNG fake"), 0o600))
	return p
}

// run executes the app like main does and returns stdout and the exit code.
func run(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	app.Reader = strings.NewReader(stdin)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"vocab"}, args...))
	return out.String(), exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

func TestApp_ExtractImage(t *testing.T) {
	e := newTestEnv(t)
	shot := e.image(t, "shot.png")

	out, code := run(t, "", "extract", "--format", "json", shot)
	require.Equal(t, 0, code, out)

	var v resultView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "OK", v.Status)
	assert.Equal(t, "openai", v.Backend)
	require.Len(t, v.Vocabulary, 1)
	assert.Equal(t, "warrants", v.Vocabulary[0].Phrase)
	require.Len(t, v.Phrases, 1)
	assert.Equal(t, "prior to", v.Phrases[0].Phrase)
	require.Len(t, e.prompts(), 1)
	assert.Contains(t, e.prompts()[0], "Old Chronos warrants")
}

func TestApp_ExitCodes(t *testing.T) {
	e := newTestEnv(t)
	shot := e.image(t, "shot.png")
	emptyDir := filepath.Join(e.dir, "empty")
	require.NoError(t, os.Mkdir(emptyDir, 0o755))

	tests := []struct {
		name string
		args []string
		code int
		out  string
	}{
		{"missing path", []string{"extract", filepath.Join(e.dir, "nope.png")}, 1, ""},
		{"unsupported file", []string{"extract", e.image(t, "notes.pdf")}, 1, ""},
		{"empty directory", []string{"extract", emptyDir}, 0, "no screenshots found"},
		{"unknown backend", []string{"extract", "--backend", "gemini", shot}, 1, ""},
		{"unknown format", []string{"extract", "--format", "xml", shot}, 1, ""},
		{"unknown upload target", []string{"extract", "--upload", "dropbox", shot}, 1, ""},
		{"notion without credentials", []string{"text", "--upload", "notion", "prior to"}, 1, ""},
		{"unknown image host", []string{"extract", "--image-host", "flickr", shot}, 1, ""},
		{"text without argument", []string{"text"}, 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code := run(t, "", tt.args...)
			assert.Equal(t, tt.code, code, out)
			if tt.out != "" {
				assert.Contains(t, out, tt.out)
			}
		})
	}
}

func TestApp_ConfigErrorExitsOne(t *testing.T) {
	newTestEnv(t)
	t.Setenv("LOG_LEVEL", "loud")
	_, code := run(t, "", "text", "prior to")
	assert.Equal(t, 1, code)

	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("OPENAI_API_KEY", "")
	_, code = run(t, "", "text", "prior to")
	assert.Equal(t, 1, code)
}

func TestApp_TextMalformedAnswerExitsZero(t *testing.T) {
	e := newTestEnv(t)
	e.setOpenAI(func(string) (int, string) { return http.StatusOK, "not json at all" })

	out, code := run(t, "", "text", "--format", "json", "Old Chronos warrants every bit of caution")
	require.Equal(t, 0, code, out)

	var v resultView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "ERROR", v.Status)
	assert.NotEmpty(t, v.Error)
	assert.Empty(t, v.Vocabulary)
	assert.Empty(t, v.Phrases)
}

func TestApp_TextNoEntriesExitsZero(t *testing.T) {
	e := newTestEnv(t)
	e.setOpenAI(func(string) (int, string) { return http.StatusOK, `{"phrases":[]}` })

	out, code := run(t, "", "text", "-")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "[openai, EMPTY]")
	assert.Contains(t, out, "no learning entries found")
}

func TestApp_TextReadsStdin(t *testing.T) {
	e := newTestEnv(t)
	out, code := run(t, "  Old Chronos warrants caution\n", "text", "-")
	require.Equal(t, 0, code, out)
	require.Len(t, e.prompts(), 1)
	assert.Contains(t, e.prompts()[0], "Old Chronos warrants caution")
}

func TestApp_TextRejectsImageHost(t *testing.T) {
	newTestEnv(t)
	_, code := run(t, "", "text", "--image-host", "imgur", "prior to")
	assert.Equal(t, 1, code)
}

func TestApp_CompareJudgeFailure(t *testing.T) {
	e := newTestEnv(t)
	e.setOpenAI(func(prompt string) (int, string) {
		if strings.Contains(prompt, "Compare the two results") {
			return http.StatusServiceUnavailable, ""
		}
		return http.StatusOK, chronosAnswer
	})
	shot := e.image(t, "shot.png")

	out, code := run(t, "", "compare", "--format", "json", shot)
	assert.Equal(t, 1, code)

	var v dualView
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	assert.Equal(t, "openai", v.Primary.Backend)
	assert.Equal(t, "OK", v.Primary.Status)
	assert.Equal(t, "ollama", v.Secondary.Backend)
	assert.Equal(t, "OK", v.Secondary.Status)
	assert.Nil(t, v.Verdict)
}

func TestApp_CompareVerdict(t *testing.T) {
	e := newTestEnv(t)
	e.setOpenAI(func(prompt string) (int, string) {
		if strings.Contains(prompt, "Compare the two results") {
			return http.StatusOK, "Result from openai is better overall."
		}
		return http.StatusOK, chronosAnswer
	})
	shot := e.image(t, "shot.png")

	out, code := run(t, "", "compare", shot)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "[openai, OK]")
	assert.Contains(t, out, "[ollama, OK]")
	assert.Contains(t, out, "Result from openai is better overall.")
}

func TestApp_CompareSkipsWhenOneSideEmpty(t *testing.T) {
	e := newTestEnv(t)
	e.setOllama("sorry, I cannot help")

	out, code := run(t, "", "compare", e.image(t, "shot.png"))
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "[ollama, ERROR]")
	assert.NotContains(t, out, "== verdict")
	require.Len(t, e.prompts(), 1)
}
