package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// Groq 的 OpenAI 兼容 API 端点
	openAICompatibleGroqAPIURL = "https://api.groq.com/openai/v1/chat/completions"
	defaultGroqModelName       = "llama-3.1-8b-instant"

	// 结构化抽取要求低温度输出，保证字段稳定
	defaultTemperature = 0.1
	defaultMaxTokens   = 1024

	maxRetries       = 2
	initialRetryWait = 2 * time.Second
	requestTimeout   = 60 * time.Second
)

// Message 单条对话消息，角色取值 system/user/assistant
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GroqChatModel 通过 OpenAI 兼容协议调用 Groq 的对话补全接口。
// 内置指数退避重试，只对网络类瞬时错误重试。
type GroqChatModel struct {
	apiKey     string
	modelName  string
	apiURL     string
	httpClient *http.Client
}

// NewGroqChatModel 创建 Groq 客户端实例，modelName/apiURL 为空时使用默认值
func NewGroqChatModel(apiKey string, modelName string, apiURL string) (*GroqChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultGroqModelName
	}

	url := apiURL
	if strings.TrimSpace(url) == "" {
		url = openAICompatibleGroqAPIURL
	}

	log.Info().Str("api_url", url).Str("model", mn).Msg("初始化 Groq LLM 客户端")

	return &GroqChatModel{
		apiKey:     apiKey,
		modelName:  mn,
		apiURL:     url,
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionResponse struct {
	Id      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

// Generate 发送一次对话补全请求，返回首个候选的文本内容。
// 瞬时错误按退避策略重试，最多重试 maxRetries 次。
func (g *GroqChatModel) Generate(ctx context.Context, messages []Message) (string, error) {
	retryWait := initialRetryWait

	var content string
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("上下文已取消: %w", ctx.Err())
			case <-time.After(retryWait):
				retryWait *= 2
				log.Warn().Int("attempt", attempt).Err(err).Msg("重试 Groq 调用")
			}
		}

		content, err = g.doRequest(ctx, messages)
		if err == nil {
			return content, nil
		}

		if !isRetryableError(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("Groq 调用重试耗尽: %w", err)
}

func (g *GroqChatModel) doRequest(ctx context.Context, messages []Message) (string, error) {
	reqPayload := chatCompletionRequest{
		Model:       g.modelName,
		Messages:    messages,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return "", fmt.Errorf("反序列化 API 响应失败: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("API 返回空 choices: %s", string(bodyBytes))
	}

	return resp.Choices[0].Message.Content, nil
}

// isRetryableError 判断错误是否属于可重试的瞬时错误
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "503")
}
