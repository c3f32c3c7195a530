package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/constants"
	"resume-analyzer-go/internal/storage/models"
	"resume-analyzer-go/internal/types"
)

// ErrAnalysisNotFound 指定的分析记录不存在
var ErrAnalysisNotFound = errors.New("分析记录不存在")

// MySQL MySQL存储适配器
type MySQL struct {
	db *gorm.DB
}

// NewMySQL 创建MySQL连接并迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层sql.DB失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	m := &MySQL{db: db}
	if err := db.AutoMigrate(&models.ResumeAnalysis{}); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}
	return m, nil
}

// DB 返回底层gorm.DB实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层sql.DB失败: %w", err)
	}
	return sqlDB.Close()
}

// CreateAnalysis 写入PENDING状态的初始分析记录
func (m *MySQL) CreateAnalysis(ctx context.Context, record *models.ResumeAnalysis) error {
	if record.Status == "" {
		record.Status = constants.StatusPending
	}
	return m.db.WithContext(ctx).Create(record).Error
}

// UpdateAnalysisStatus 更新分析状态
func (m *MySQL) UpdateAnalysisStatus(ctx context.Context, analysisID string, status string) error {
	return m.db.WithContext(ctx).Model(&models.ResumeAnalysis{}).
		Where("analysis_id = ?", analysisID).
		Update("status", status).Error
}

// MarkAnalysisFailed 将记录置为FAILED并写入错误信息
func (m *MySQL) MarkAnalysisFailed(ctx context.Context, analysisID string, errorMessage string) error {
	return m.db.WithContext(ctx).Model(&models.ResumeAnalysis{}).
		Where("analysis_id = ?", analysisID).
		Updates(map[string]interface{}{
			"status":        constants.StatusFailed,
			"error_message": errorMessage,
		}).Error
}

// SaveAnalysisResult 将完整分析结果写入记录并置为COMPLETED
func (m *MySQL) SaveAnalysisResult(ctx context.Context, analysisID string, result *types.AnalysisResult) error {
	data := result.ExtractedData
	if data == nil {
		data = types.NewResumeData()
	}

	updates := map[string]interface{}{
		"status":        constants.StatusCompleted,
		"error_message": "",
		"analyzed_at":   time.Now(),

		"resume_text": result.ResumeText,
		"word_count":  result.WordCount,
		"char_count":  result.CharCount,

		"full_name":         data.FullName,
		"email_address":     data.EmailAddress,
		"phone_number":      data.PhoneNumber,
		"education_details": mustJSON(data.EducationDetails),
		"work_experience":   mustJSON(data.WorkExperience),
		"skills":            mustJSON(data.Skills),
		"certifications":    mustJSON(data.Certifications),
		"projects":          mustJSON(data.Projects),
		"languages_spoken":  mustJSON(data.LanguagesSpoken),
		"hobbies_interests": mustJSON(data.HobbiesInterests),
		"achievements":      mustJSON(data.Achievements),

		"overall_score":        result.Scores.OverallScore,
		"skills_score":         result.Scores.Skills,
		"experience_score":     result.Scores.Experience,
		"education_score":      result.Scores.Education,
		"projects_score":       result.Scores.Projects,
		"certifications_score": result.Scores.Certifications,
		"completeness_score":   result.Scores.Completeness,

		"recommendations": mustJSON(result.Recommendations),
		"strengths":       mustJSON(result.Strengths),
		"weaknesses":      mustJSON(result.Weaknesses),
		"summary":         mustJSON(result.Summary),
	}

	return m.db.WithContext(ctx).Model(&models.ResumeAnalysis{}).
		Where("analysis_id = ?", analysisID).
		Updates(updates).Error
}

// GetAnalysisByID 按主键查询分析记录
func (m *MySQL) GetAnalysisByID(ctx context.Context, analysisID string) (*models.ResumeAnalysis, error) {
	var record models.ResumeAnalysis
	err := m.db.WithContext(ctx).
		Where("analysis_id = ?", analysisID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListAnalysesByUser 按用户分页查询分析历史，按创建时间倒序
func (m *MySQL) ListAnalysesByUser(ctx context.Context, userID string, page, pageSize int) ([]models.ResumeAnalysis, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := m.db.WithContext(ctx).Model(&models.ResumeAnalysis{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.ResumeAnalysis
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// DashboardStats 用户看板聚合统计
type DashboardStats struct {
	TotalAnalyses     int64   `json:"total_analyses"`
	CompletedAnalyses int64   `json:"completed_analyses"`
	FailedAnalyses    int64   `json:"failed_analyses"`
	AverageScore      float64 `json:"average_score"`
	BestScore         int     `json:"best_score"`
	LatestScore       int     `json:"latest_score"`
}

// GetUserDashboardStats 聚合用户的分析统计，只统计COMPLETED记录的分数
func (m *MySQL) GetUserDashboardStats(ctx context.Context, userID string) (*DashboardStats, error) {
	stats := &DashboardStats{}
	base := m.db.WithContext(ctx).Model(&models.ResumeAnalysis{}).Where("user_id = ?", userID)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalAnalyses).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", constants.StatusCompleted).
		Count(&stats.CompletedAnalyses).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("status = ?", constants.StatusFailed).
		Count(&stats.FailedAnalyses).Error; err != nil {
		return nil, err
	}

	if stats.CompletedAnalyses > 0 {
		row := m.db.WithContext(ctx).Model(&models.ResumeAnalysis{}).
			Select("AVG(overall_score) AS avg_score, MAX(overall_score) AS best_score").
			Where("user_id = ? AND status = ?", userID, constants.StatusCompleted).
			Row()
		if err := row.Scan(&stats.AverageScore, &stats.BestScore); err != nil {
			return nil, err
		}

		var latest models.ResumeAnalysis
		err := m.db.WithContext(ctx).
			Where("user_id = ? AND status = ?", userID, constants.StatusCompleted).
			Order("created_at DESC").
			First(&latest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		stats.LatestScore = latest.OverallScore
	}

	return stats, nil
}

// mustJSON 序列化为JSON列值，序列化失败时退化为null
func mustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("null")
	}
	return datatypes.JSON(data)
}
