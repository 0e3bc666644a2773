package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	stdout string
	tsv    string
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, []byte("tesseract: cannot read image"), f.err
	}
	if len(args) > 0 && args[len(args)-1] == "tsv" {
		return []byte(f.tsv), nil, nil
	}
	return []byte(f.stdout), nil, nil
}

type fakeDetector struct {
	lang string
	conf float64
}

func (f fakeDetector) Detect(string) (string, float64) { return f.lang, f.conf }

func writeImage(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("\x89PNG fake"), 0o600))
	return p
}

func TestExtractor_Extract(t *testing.T) {
	r := &fakeRunner{stdout: "Old Chronos  warrants\tevery bit\r\n\r\n\r\n\r\nof justice.  \n"}
	e := NewExtractor(Config{Lang: "eng", PSM: 6, TessdataDir: "/td"}, nil, WithRunner(r))

	res, err := e.Extract(context.Background(), writeImage(t, "shot.PNG"))
	require.NoError(t, err)

	assert.Equal(t, "Old Chronos warrants every bit\n\nof justice.", res.Text)
	assert.Equal(t, "IMAGE", res.SourceType)
	assert.Equal(t, "image-ocr", res.Method)
	assert.Equal(t, "eng", res.Language)
	assert.Greater(t, res.Confidence, float32(0))

	require.Len(t, r.calls, 1)
	args := strings.Join(r.calls[0], " ")
	assert.Contains(t, args, "tesseract ")
	assert.Contains(t, args, " stdout -l eng --psm 6 --tessdata-dir /td")
}

func TestExtractor_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unsupported extension", func(t *testing.T) {
		e := NewExtractor(Config{}, nil, WithRunner(&fakeRunner{}))
		_, err := e.Extract(ctx, writeImage(t, "notes.pdf"))
		assert.ErrorIs(t, err, ErrUnsupported)
	})
	t.Run("missing file", func(t *testing.T) {
		e := NewExtractor(Config{}, nil, WithRunner(&fakeRunner{}))
		_, err := e.Extract(ctx, filepath.Join(t.TempDir(), "gone.png"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
	t.Run("tesseract failure", func(t *testing.T) {
		e := NewExtractor(Config{}, nil, WithRunner(&fakeRunner{err: errors.New("exit status 1")}))
		res, err := e.Extract(ctx, writeImage(t, "a.jpg"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tesseract")
		assert.Contains(t, res.Warnings[0], "cannot read image")
	})
}

func TestExtractor_TSVConfidenceBlend(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t90\tHello\n" +
		"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t70\tworld\n"
	assert.InDelta(t, 0.8, meanTSVConfidence(tsv), 1e-6)

	r := &fakeRunner{stdout: "Hello world.", tsv: tsv}
	e := NewExtractor(Config{EnableTSVConfidence: true}, nil, WithRunner(r))
	res, err := e.Extract(context.Background(), writeImage(t, "a.gif"))
	require.NoError(t, err)
	require.Len(t, r.calls, 2)

	want := 0.7*0.8 + 0.3*heuristicConfidence("Hello world.")
	assert.InDelta(t, want, res.Confidence, 1e-6)
	assert.Empty(t, res.Warnings)
}

func TestExtractor_LowConfidenceWarning(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t41\tHe||o\n" +
		"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t35\twor1d\n"
	r := &fakeRunner{stdout: "He||o wor1d", tsv: tsv}
	e := NewExtractor(Config{EnableTSVConfidence: true}, nil, WithRunner(r))

	res, err := e.Extract(context.Background(), writeImage(t, "blurry.png"))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "low ocr confidence 0.38")
}

func TestExtractor_LanguageWarning(t *testing.T) {
	text := "Ceci est un texte entièrement écrit en français pour le test."
	r := &fakeRunner{stdout: text}

	e := NewExtractor(Config{DetectLanguage: true}, nil, WithRunner(r), WithLanguageDetector(fakeDetector{lang: "French", conf: 0.1}))
	res, err := e.Extract(context.Background(), writeImage(t, "fr.png"))
	require.NoError(t, err)
	assert.Equal(t, "French", res.DetectedLanguage)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "not detected as English")

	e = NewExtractor(Config{DetectLanguage: true}, nil, WithRunner(r), WithLanguageDetector(fakeDetector{lang: "English", conf: 0.9}))
	res, err = e.Extract(context.Background(), writeImage(t, "en.png"))
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
}

func TestLinguaDetector_English(t *testing.T) {
	if testing.Short() {
		t.Skip("loads language models")
	}
	lang, conf := NewLinguaDetector().Detect("His hard work warrants a promotion, and he had never traveled abroad prior to this trip.")
	assert.Equal(t, "English", lang)
	assert.Greater(t, conf, 0.5)
}

func TestExtractor_Version(t *testing.T) {
	r := &fakeRunner{stdout: "tesseract 5.3.4\n leptonica-1.84.1\n"}
	e := NewExtractor(Config{Tesseract: "/usr/bin/tesseract"}, nil, WithRunner(r))

	v, err := e.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tesseract 5.3.4", v)
	assert.Equal(t, []string{"/usr/bin/tesseract", "--version"}, r.calls[0])

	e = NewExtractor(Config{}, nil, WithRunner(&fakeRunner{err: errors.New("not found")}))
	_, err = e.Version(context.Background())
	assert.Error(t, err)
}
