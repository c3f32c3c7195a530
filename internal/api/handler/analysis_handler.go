package handler

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"resume-analyzer-go/internal/analyzer"
	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/constants"
	"resume-analyzer-go/internal/logger"
	"resume-analyzer-go/internal/parser"
	"resume-analyzer-go/internal/storage"
	"resume-analyzer-go/internal/storage/models"
	"resume-analyzer-go/internal/types"
)

// AnalysisHandler 简历分析处理器，协调上传入口和异步分析流水线
type AnalysisHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	extractor parser.TextExtractor
	analyzer  *analyzer.Analyzer
}

// NewAnalysisHandler 创建简历分析处理器
func NewAnalysisHandler(
	cfg *config.Config,
	storage *storage.Storage,
	extractor parser.TextExtractor,
	analyzer *analyzer.Analyzer,
) *AnalysisHandler {
	return &AnalysisHandler{
		cfg:       cfg,
		storage:   storage,
		extractor: extractor,
		analyzer:  analyzer,
	}
}

// UploadResponse 简历上传响应
type UploadResponse struct {
	AnalysisID string `json:"analysis_id"`
	Status     string `json:"status"`
}

// ValidateUpload 校验上传文件的后缀和大小
func (h *AnalysisHandler) ValidateUpload(filename string, fileSize int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !constants.AllowedResumeExtensions[ext] {
		return fmt.Errorf("不支持的文件类型 %s，仅接受 .pdf 和 .docx", ext)
	}

	maxMB := h.cfg.Server.MaxUploadSizeMB
	if maxMB <= 0 {
		maxMB = constants.DefaultMaxUploadSizeMB
	}
	if fileSize > int64(maxMB)*1024*1024 {
		return fmt.Errorf("文件大小超过%dMB限制", maxMB)
	}
	return nil
}

// HandleResumeUpload 处理简历上传：
// MD5去重 → 存MinIO → 写PENDING记录 → 发布分析消息。
// 重复文件直接返回DUPLICATE_FILE_SKIPPED，不进入流水线。
func (h *AnalysisHandler) HandleResumeUpload(ctx context.Context, fileBytes []byte, filename string, userID string) (*UploadResponse, error) {
	if err := h.ValidateUpload(filename, int64(len(fileBytes))); err != nil {
		return nil, err
	}

	sum := md5.Sum(fileBytes)
	fileMD5Hex := hex.EncodeToString(sum[:])

	exists, err := h.storage.Redis.CheckAndAddRawFileMD5(ctx, fileMD5Hex)
	if err != nil {
		logger.Error().Err(err).Str("md5", fileMD5Hex).Msg("查询文件MD5去重集合失败")
		return nil, fmt.Errorf("检查文件重复性失败: %w", err)
	}
	if exists {
		logger.Info().Str("md5", fileMD5Hex).Str("filename", filename).Msg("检测到重复文件，跳过处理")
		return &UploadResponse{Status: constants.StatusDuplicateFileSkipped}, nil
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	analysisID := uuidV7.String()

	objectKey, err := h.storage.MinIO.UploadResumeFile(ctx, analysisID, filename, fileBytes)
	if err != nil {
		// 上传失败时撤销MD5登记，同一文件重传不会被误判为重复
		if rmErr := h.storage.Redis.RemoveRawFileMD5(ctx, fileMD5Hex); rmErr != nil {
			logger.Warn().Err(rmErr).Str("md5", fileMD5Hex).Msg("回滚MD5登记失败")
		}
		return nil, fmt.Errorf("上传简历到MinIO失败: %w", err)
	}

	record := &models.ResumeAnalysis{
		AnalysisID:       analysisID,
		UserID:           userID,
		OriginalFilename: filename,
		FilePathOSS:      objectKey,
		FileMD5:          fileMD5Hex,
		Status:           constants.StatusPending,
	}
	if err := h.storage.MySQL.CreateAnalysis(ctx, record); err != nil {
		return nil, fmt.Errorf("创建分析记录失败: %w", err)
	}

	message := storage.ResumeUploadedMessage{
		AnalysisID:       analysisID,
		UserID:           userID,
		OriginalFilename: filename,
		FilePathOSS:      objectKey,
		UploadedAt:       time.Now(),
	}
	err = h.storage.RabbitMQ.PublishJSON(
		ctx,
		h.cfg.RabbitMQ.ResumeEventsExchange,
		h.cfg.RabbitMQ.UploadedRoutingKey,
		message,
		true, // 持久化
	)
	if err != nil {
		// 消息发布失败意味着流水线不会处理该记录，直接置为FAILED
		if markErr := h.storage.MySQL.MarkAnalysisFailed(ctx, analysisID, "发布分析任务失败"); markErr != nil {
			logger.Error().Err(markErr).Str("analysis_id", analysisID).Msg("标记分析失败状态出错")
		}
		return nil, fmt.Errorf("发布分析任务消息失败: %w", err)
	}

	logger.Info().
		Str("analysis_id", analysisID).
		Str("user_id", userID).
		Str("filename", filename).
		Msg("简历上传成功，已进入分析队列")

	return &UploadResponse{AnalysisID: analysisID, Status: constants.StatusPending}, nil
}

// StartAnalysisConsumer 声明交换机/队列/绑定并启动分析消费者。
// 消息处理返回true时ack，false时nack并重新入队（基础设施类故障）。
func (h *AnalysisHandler) StartAnalysisConsumer(ctx context.Context) (chan<- struct{}, error) {
	mqCfg := &h.cfg.RabbitMQ

	if err := h.storage.RabbitMQ.EnsureExchange(mqCfg.ResumeEventsExchange, "direct", true); err != nil {
		return nil, fmt.Errorf("声明交换机失败: %w", err)
	}
	if err := h.storage.RabbitMQ.EnsureQueue(mqCfg.AnalysisQueue, true); err != nil {
		return nil, fmt.Errorf("声明队列失败: %w", err)
	}
	if err := h.storage.RabbitMQ.BindQueue(mqCfg.AnalysisQueue, mqCfg.ResumeEventsExchange, mqCfg.UploadedRoutingKey); err != nil {
		return nil, fmt.Errorf("绑定队列失败: %w", err)
	}

	return h.storage.RabbitMQ.StartConsumer(mqCfg.AnalysisQueue, mqCfg.PrefetchCount, func(body []byte) bool {
		var message storage.ResumeUploadedMessage
		if err := json.Unmarshal(body, &message); err != nil {
			// 消息格式错误无法重试，确认后丢弃
			logger.Error().Err(err).Msg("解析分析任务消息失败，丢弃消息")
			return true
		}
		return h.processUploadedResume(ctx, message)
	})
}

// processUploadedResume 执行完整的分析流水线。
// 返回true表示消息处理完毕（包括终态失败），false表示应重新入队。
func (h *AnalysisHandler) processUploadedResume(ctx context.Context, message storage.ResumeUploadedMessage) bool {
	analysisID := message.AnalysisID
	plog := logger.Logger.With().Str("analysis_id", analysisID).Logger()

	if err := h.storage.MySQL.UpdateAnalysisStatus(ctx, analysisID, constants.StatusProcessing); err != nil {
		plog.Error().Err(err).Msg("更新状态为PROCESSING失败")
		return false
	}

	fileBytes, err := h.storage.MinIO.GetResumeFile(ctx, message.FilePathOSS)
	if err != nil {
		plog.Error().Err(err).Str("object", message.FilePathOSS).Msg("下载简历文件失败")
		return false
	}

	analysisTimeout := config.GetDuration(h.cfg.Groq.AnalysisTimeout, 90*time.Second)
	taskCtx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	resumeText, err := h.extractor.ExtractText(taskCtx, fileBytes, message.OriginalFilename)
	if err != nil {
		// 文件本身损坏属于终态失败，重新入队只会无限空转
		if errors.Is(err, parser.ErrUnparsableFile) {
			plog.Warn().Err(err).Msg("简历文件无法解析，标记为失败")
			if markErr := h.storage.MySQL.MarkAnalysisFailed(ctx, analysisID, "Could not extract text from resume"); markErr != nil {
				plog.Error().Err(markErr).Msg("标记分析失败状态出错")
				return false
			}
			h.invalidateDashboard(ctx, message.UserID)
			return true
		}
		// 基础设施故障（如Tika不可用），重新入队等待恢复
		plog.Error().Err(err).Msg("文本提取基础设施故障")
		return false
	}

	result := h.analyzer.Analyze(taskCtx, resumeText)
	if !result.Success {
		// 提取不出文本或模型输出无法解析都是终态失败
		plog.Warn().Str("reason", result.Error).Msg("简历分析失败")
		if err := h.storage.MySQL.MarkAnalysisFailed(ctx, analysisID, result.Error); err != nil {
			plog.Error().Err(err).Msg("标记分析失败状态出错")
			return false
		}
		h.invalidateDashboard(ctx, message.UserID)
		return true
	}

	if err := h.storage.MySQL.SaveAnalysisResult(ctx, analysisID, result); err != nil {
		plog.Error().Err(err).Msg("保存分析结果失败")
		return false
	}
	h.invalidateDashboard(ctx, message.UserID)

	plog.Info().
		Int("overall_score", result.Scores.OverallScore).
		Int("word_count", result.WordCount).
		Msg("简历分析完成")
	return true
}

func (h *AnalysisHandler) invalidateDashboard(ctx context.Context, userID string) {
	if err := h.storage.Redis.InvalidateDashboardCache(ctx, userID); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("失效看板缓存失败")
	}
}

// AnalysisResponse 单条分析记录的API响应
type AnalysisResponse struct {
	AnalysisID       string `json:"analysis_id"`
	UserID           string `json:"user_id"`
	OriginalFilename string `json:"original_filename"`
	Status           string `json:"status"`
	ErrorMessage     string `json:"error_message,omitempty"`

	WordCount int `json:"word_count"`
	CharCount int `json:"char_count"`

	ExtractedData *types.ResumeData `json:"extracted_data,omitempty"`

	Scores          *types.Scores          `json:"scores,omitempty"`
	Recommendations []types.Recommendation `json:"recommendations,omitempty"`
	Strengths       []string               `json:"strengths,omitempty"`
	Weaknesses      []string               `json:"weaknesses,omitempty"`
	Summary         *types.AnalysisSummary `json:"summary,omitempty"`

	// 四档总分档位，用于历史列表展示
	ScoreClass string `json:"score_class,omitempty"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	AnalyzedAt *time.Time `json:"analyzed_at,omitempty"`
}

// scoreClass 总分档位：80/60/40分界
func scoreClass(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Average"
	default:
		return "Needs Improvement"
	}
}

// GetAnalysis 查询单条分析记录
func (h *AnalysisHandler) GetAnalysis(ctx context.Context, analysisID string) (*AnalysisResponse, error) {
	record, err := h.storage.MySQL.GetAnalysisByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	return buildAnalysisResponse(record), nil
}

// ListResponse 分页的分析历史响应
type ListResponse struct {
	Analyses []AnalysisResponse `json:"analyses"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// ListAnalyses 分页查询用户的分析历史
func (h *AnalysisHandler) ListAnalyses(ctx context.Context, userID string, page, pageSize int) (*ListResponse, error) {
	records, total, err := h.storage.MySQL.ListAnalysesByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, err
	}

	resp := &ListResponse{
		Analyses: make([]AnalysisResponse, 0, len(records)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range records {
		// 历史列表不携带全文和完整分析产物
		item := buildAnalysisResponse(&records[i])
		item.ExtractedData = nil
		item.Recommendations = nil
		item.Strengths = nil
		item.Weaknesses = nil
		resp.Analyses = append(resp.Analyses, *item)
	}
	return resp, nil
}

// GetDashboard 查询用户看板统计，优先走Redis缓存
func (h *AnalysisHandler) GetDashboard(ctx context.Context, userID string) (*storage.DashboardStats, error) {
	if cached, err := h.storage.Redis.GetDashboardCache(ctx, userID); err == nil {
		var stats storage.DashboardStats
		if jsonErr := json.Unmarshal([]byte(cached), &stats); jsonErr == nil {
			return &stats, nil
		}
		// 缓存内容损坏时回退到数据库
		logger.Warn().Str("user_id", userID).Msg("看板缓存内容无法解析，回源查询")
	}

	stats, err := h.storage.MySQL.GetUserDashboardStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		if cacheErr := h.storage.Redis.SetDashboardCache(ctx, userID, string(payload)); cacheErr != nil {
			logger.Warn().Err(cacheErr).Str("user_id", userID).Msg("写入看板缓存失败")
		}
	}
	return stats, nil
}

// buildAnalysisResponse 把数据库记录转换为API响应
func buildAnalysisResponse(record *models.ResumeAnalysis) *AnalysisResponse {
	resp := &AnalysisResponse{
		AnalysisID:       record.AnalysisID,
		UserID:           record.UserID,
		OriginalFilename: record.OriginalFilename,
		Status:           record.Status,
		ErrorMessage:     record.ErrorMessage,
		WordCount:        record.WordCount,
		CharCount:        record.CharCount,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
		AnalyzedAt:       record.AnalyzedAt,
	}

	if record.Status != constants.StatusCompleted {
		return resp
	}
	resp.ScoreClass = scoreClass(record.OverallScore)

	data := types.NewResumeData()
	data.FullName = record.FullName
	data.EmailAddress = record.EmailAddress
	data.PhoneNumber = record.PhoneNumber
	unmarshalColumn(record.EducationDetails, &data.EducationDetails)
	unmarshalColumn(record.WorkExperience, &data.WorkExperience)
	unmarshalColumn(record.Skills, &data.Skills)
	unmarshalColumn(record.Certifications, &data.Certifications)
	unmarshalColumn(record.Projects, &data.Projects)
	unmarshalColumn(record.LanguagesSpoken, &data.LanguagesSpoken)
	unmarshalColumn(record.HobbiesInterests, &data.HobbiesInterests)
	unmarshalColumn(record.Achievements, &data.Achievements)
	resp.ExtractedData = data

	resp.Scores = &types.Scores{
		OverallScore: record.OverallScore,
		ScoreBreakdown: types.ScoreBreakdown{
			Skills:         record.SkillsScore,
			Experience:     record.ExperienceScore,
			Education:      record.EducationScore,
			Projects:       record.ProjectsScore,
			Certifications: record.CertificationsScore,
			Completeness:   record.CompletenessScore,
		},
	}

	unmarshalColumn(record.Recommendations, &resp.Recommendations)
	unmarshalColumn(record.Strengths, &resp.Strengths)
	unmarshalColumn(record.Weaknesses, &resp.Weaknesses)

	var summary types.AnalysisSummary
	if len(record.Summary) > 0 {
		if err := json.Unmarshal(record.Summary, &summary); err == nil {
			resp.Summary = &summary
		}
	}
	return resp
}

// unmarshalColumn JSON列反序列化，内容损坏时保持目标零值
func unmarshalColumn(column []byte, dest interface{}) {
	if len(column) == 0 {
		return
	}
	if err := json.Unmarshal(column, dest); err != nil {
		logger.Warn().Err(err).Msg("JSON列反序列化失败")
	}
}
