package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeAnalysis 一次简历分析的完整记录。
// 抽取出的列表字段和分析产物以JSON列存储，分数单独成列便于聚合统计。
type ResumeAnalysis struct {
	AnalysisID string `gorm:"type:char(36);primaryKey"`
	UserID     string `gorm:"type:varchar(64);not null;index:idx_ra_user_id"`

	OriginalFilename string `gorm:"type:varchar(255)"`
	FilePathOSS      string `gorm:"type:varchar(1024)"`
	FileMD5          string `gorm:"type:char(32);index:idx_ra_file_md5"`

	// 提取的简历全文
	ResumeText string `gorm:"type:longtext"`
	WordCount  int    `gorm:"type:int;default:0"`
	CharCount  int    `gorm:"type:int;default:0"`

	// 结构化字段
	FullName         string         `gorm:"type:varchar(255)"`
	EmailAddress     string         `gorm:"type:varchar(255)"`
	PhoneNumber      string         `gorm:"type:varchar(50)"`
	EducationDetails datatypes.JSON `gorm:"type:json"`
	WorkExperience   datatypes.JSON `gorm:"type:json"`
	Skills           datatypes.JSON `gorm:"type:json"`
	Certifications   datatypes.JSON `gorm:"type:json"`
	Projects         datatypes.JSON `gorm:"type:json"`
	LanguagesSpoken  datatypes.JSON `gorm:"type:json"`
	HobbiesInterests datatypes.JSON `gorm:"type:json"`
	Achievements     datatypes.JSON `gorm:"type:json"`

	// 分数
	OverallScore        int `gorm:"type:int;default:0;index:idx_ra_overall_score"`
	SkillsScore         int `gorm:"type:int;default:0"`
	ExperienceScore     int `gorm:"type:int;default:0"`
	EducationScore      int `gorm:"type:int;default:0"`
	ProjectsScore       int `gorm:"type:int;default:0"`
	CertificationsScore int `gorm:"type:int;default:0"`
	CompletenessScore   int `gorm:"type:int;default:0"`

	// 分析产物
	Recommendations datatypes.JSON `gorm:"type:json"`
	Strengths       datatypes.JSON `gorm:"type:json"`
	Weaknesses      datatypes.JSON `gorm:"type:json"`
	Summary         datatypes.JSON `gorm:"type:json"`

	Status       string `gorm:"type:varchar(50);default:'PENDING';index:idx_ra_status"`
	ErrorMessage string `gorm:"type:text"`

	// 分析完成时间，未完成时为空
	AnalyzedAt *time.Time `gorm:"type:datetime(6)"`

	CreatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_ra_created_at"`
	UpdatedAt time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (ResumeAnalysis) TableName() string {
	return "resume_analyses"
}
