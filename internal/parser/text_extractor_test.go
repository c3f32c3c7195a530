package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longResumeText = `Jane Doe jane@example.com +1-555-0100
Senior Engineer at Acme from 2019 to 2023, led a team of five.
Skills: Python, AWS, Leadership, Docker, Kubernetes.`

func newTikaTestServer(t *testing.T, responseText string, status int) *TikaClient {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tika", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseText))
	}))
	t.Cleanup(server.Close)
	return NewTikaClient(server.URL)
}

func TestExtractPDFDirectSuccess(t *testing.T) {
	extractor := NewResumeTextExtractor(nil)
	extractor.directPDF = func(_ []byte) (string, error) {
		return longResumeText, nil
	}

	text, err := extractor.ExtractText(context.Background(), []byte("%PDF-fake"), "resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, longResumeText, text)
}

func TestExtractPDFFallsBackToOCR(t *testing.T) {
	tika := newTikaTestServer(t, longResumeText, http.StatusOK)
	extractor := NewResumeTextExtractor(tika)
	extractor.directPDF = func(_ []byte) (string, error) {
		// 图片型PDF：文字层几乎为空
		return "  \n ", nil
	}

	text, err := extractor.ExtractText(context.Background(), []byte("%PDF-fake"), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, longResumeText, text)
}

func TestExtractPDFDirectErrorStillTriesOCR(t *testing.T) {
	tika := newTikaTestServer(t, longResumeText, http.StatusOK)
	extractor := NewResumeTextExtractor(tika)
	extractor.directPDF = func(_ []byte) (string, error) {
		return "", errors.New("损坏的交叉引用表")
	}

	text, err := extractor.ExtractText(context.Background(), []byte("%PDF-fake"), "broken.pdf")
	require.NoError(t, err)
	assert.Equal(t, longResumeText, text)
}

func TestExtractPDFOCRTooShortReturnsEmpty(t *testing.T) {
	tika := newTikaTestServer(t, "short", http.StatusOK)
	extractor := NewResumeTextExtractor(tika)
	extractor.directPDF = func(_ []byte) (string, error) { return "", nil }

	text, err := extractor.ExtractText(context.Background(), []byte("%PDF-fake"), "blank.pdf")
	require.NoError(t, err, "提取不出有效文本不是基础设施错误")
	assert.Empty(t, text)
}

func TestExtractPDFNoTikaConfigured(t *testing.T) {
	extractor := NewResumeTextExtractor(nil)
	extractor.directPDF = func(_ []byte) (string, error) { return "", nil }

	text, err := extractor.ExtractText(context.Background(), []byte("%PDF-fake"), "scan.pdf")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractPDFTikaServerError(t *testing.T) {
	tika := newTikaTestServer(t, "", http.StatusInternalServerError)
	extractor := NewResumeTextExtractor(tika)
	extractor.directPDF = func(_ []byte) (string, error) { return "", nil }

	_, err := extractor.ExtractText(context.Background(), []byte("%PDF-fake"), "scan.pdf")
	assert.Error(t, err, "Tika服务故障应以错误形式上抛以便重试")
	assert.NotErrorIs(t, err, ErrUnparsableFile, "服务端故障不能归类为文件损坏")
}

func TestExtractPDFTikaRejectsFile(t *testing.T) {
	tika := newTikaTestServer(t, "", http.StatusUnprocessableEntity)
	extractor := NewResumeTextExtractor(tika)
	extractor.directPDF = func(_ []byte) (string, error) { return "", nil }

	_, err := extractor.ExtractText(context.Background(), []byte("%PDF-fake"), "corrupt.pdf")
	assert.ErrorIs(t, err, ErrUnparsableFile, "4xx说明文件本身无法处理")
}

func TestExtractCorruptDocx(t *testing.T) {
	extractor := NewResumeTextExtractor(nil)

	// 非zip内容无法按DOCX解包
	_, err := extractor.ExtractText(context.Background(), []byte("not a zip archive"), "resume.docx")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparsableFile, "损坏的DOCX是终态失败而非可重试故障")
}

func TestExtractUnsupportedExtension(t *testing.T) {
	extractor := NewResumeTextExtractor(nil)

	_, err := extractor.ExtractText(context.Background(), []byte("hello"), "resume.txt")
	assert.Error(t, err)
}

func TestExtensionCaseInsensitive(t *testing.T) {
	extractor := NewResumeTextExtractor(nil)
	extractor.directPDF = func(_ []byte) (string, error) {
		return longResumeText, nil
	}

	text, err := extractor.ExtractText(context.Background(), []byte("%PDF-fake"), "RESUME.PDF")
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}

func TestDocxTagStripping(t *testing.T) {
	content := `<w:document><w:body><w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Engineer &amp; Leader</w:t></w:r></w:p></w:body></w:document>`
	stripped := docxTagRe.ReplaceAllString(strings.ReplaceAll(content, "</w:p>", "\n"), "")

	assert.Contains(t, stripped, "Jane Doe\n")
	assert.Contains(t, stripped, "Engineer &amp; Leader")
}
