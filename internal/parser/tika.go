package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// TikaClient 基于Apache Tika服务器的文本提取客户端。
// 用作图片型PDF的OCR回退通道，要求Tika端配置了tesseract。
type TikaClient struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	// HTTP客户端，可配置超时等参数
	Client *http.Client
}

// TikaOption 定义配置选项函数
type TikaOption func(*TikaClient)

// WithTikaTimeout 配置HTTP客户端超时时间
func WithTikaTimeout(timeout time.Duration) TikaOption {
	return func(c *TikaClient) {
		c.Client.Timeout = timeout
	}
}

// NewTikaClient 创建一个新的Tika客户端
func NewTikaClient(serverURL string, options ...TikaOption) *TikaClient {
	client := &TikaClient{
		ServerURL: serverURL,
		Client:    &http.Client{Timeout: 120 * time.Second},
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// ExtractText 把文件内容发送到Tika的/tika端点并返回纯文本。
// OCR策略设为ocr_and_text，扫描件和文字层并存的PDF都能覆盖。
func (c *TikaClient) ExtractText(ctx context.Context, data []byte, resourceName string) (string, error) {
	startTime := time.Now()

	url := fmt.Sprintf("%s/tika", c.ServerURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	req.Header.Set("Accept", "text/plain")
	req.Header.Set("X-Tika-PDFOcrStrategy", "ocr_and_text")
	if resourceName != "" {
		req.Header.Set("X-Tika-Resource-Name", resourceName)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// 4xx说明文件本身无法处理，5xx才是服务端故障
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return "", fmt.Errorf("%w: tika返回状态码 %d", ErrUnparsableFile, resp.StatusCode)
		}
		return "", fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	textBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取Tika响应失败: %w", err)
	}

	log.Debug().
		Str("resource", resourceName).
		Int("text_length", len(textBytes)).
		Dur("duration", time.Since(startTime)).
		Msg("Tika文本提取完成")

	return string(textBytes), nil
}
