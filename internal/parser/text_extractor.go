package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog/log"
)

// 直接提取的文本长度低于此阈值时认为是图片型PDF，转走OCR通道
const minMeaningfulTextLen = 50

// ErrUnparsableFile 文件本身损坏或格式不合法，重试不会有结果
var ErrUnparsableFile = errors.New("文件无法解析")

// TextExtractor 简历文件的文本提取能力
type TextExtractor interface {
	// ExtractText 从文件内容中提取纯文本，按文件名后缀选择解析方式。
	// 无法提取出有效文本时返回空串而非错误；
	// 文件本身损坏时返回包装了ErrUnparsableFile的错误，
	// 其余错误表示基础设施故障，调用方可以重试。
	ExtractText(ctx context.Context, data []byte, filename string) (string, error)
}

// ResumeTextExtractor 组合式提取器：
// PDF先尝试直接读取文字层，文字过少时回退到Tika做OCR；
// DOCX直接解包document.xml取正文。
type ResumeTextExtractor struct {
	tika *TikaClient

	// 直接PDF提取的函数种子，测试时可替换
	directPDF func(data []byte) (string, error)
}

var _ TextExtractor = (*ResumeTextExtractor)(nil)

// NewResumeTextExtractor 创建提取器，tika为nil时不做OCR回退
func NewResumeTextExtractor(tika *TikaClient) *ResumeTextExtractor {
	return &ResumeTextExtractor{
		tika:      tika,
		directPDF: extractPDFText,
	}
}

// ExtractText 按文件后缀分发到对应的解析路径
func (e *ResumeTextExtractor) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return e.extractFromPDF(ctx, data, filename)
	case ".docx":
		return extractDocxText(data)
	default:
		return "", fmt.Errorf("不支持的文件类型: %s", filename)
	}
}

func (e *ResumeTextExtractor) extractFromPDF(ctx context.Context, data []byte, filename string) (string, error) {
	text, err := e.directPDF(data)
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("直接PDF文本提取失败，尝试OCR回退")
		text = ""
	}

	text = strings.TrimSpace(text)
	if len(text) > minMeaningfulTextLen {
		return text, nil
	}

	// 文字层为空或过短：多半是扫描件，交给Tika做OCR
	if e.tika == nil {
		log.Warn().Str("filename", filename).Msg("未配置Tika，无法处理图片型PDF")
		return "", nil
	}

	ocrText, err := e.tika.ExtractText(ctx, data, filename)
	if err != nil {
		return "", fmt.Errorf("OCR文本提取失败: %w", err)
	}

	ocrText = strings.TrimSpace(ocrText)
	if len(ocrText) <= minMeaningfulTextLen {
		log.Warn().Str("filename", filename).Int("length", len(ocrText)).Msg("OCR提取的文本过短")
		return "", nil
	}
	return ocrText, nil
}

// extractPDFText 逐页读取PDF文字层
func extractPDFText(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("读取PDF失败: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= pdfReader.NumPage(); i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(pageText) != "" {
			sb.WriteString(pageText)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

var docxTagRe = regexp.MustCompile(`<[^>]+>`)

// extractDocxText 解包DOCX取正文，段落结束标签转为换行后剥掉其余XML标签
func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: 解析DOCX失败: %v", ErrUnparsableFile, err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = docxTagRe.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content)), nil
}
