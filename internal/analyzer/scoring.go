package analyzer

import (
	"strings"

	"resume-analyzer-go/internal/types"
)

// 总分加权系数，六个维度权重之和为1.0
const (
	weightSkills         = 0.25
	weightExperience     = 0.25
	weightEducation      = 0.15
	weightProjects       = 0.15
	weightCertifications = 0.10
	weightCompleteness   = 0.10
)

// 无学历信息时的保底分：缺少教育经历是弱信号而非否决项
const missingEducationScore = 30

// 学历条目命中关键词表但无法定级时的默认分
const unrecognizedEducationScore = 50

// ScoringEngine 简历各维度的确定性启发式打分器。
// 纯函数式：相同的ResumeData永远得到相同的分数，每个分项都钳制在[0,100]。
type ScoringEngine struct {
	catalog *Catalog
}

// NewScoringEngine 创建评分引擎，catalog为nil时使用内置目录
func NewScoringEngine(catalog *Catalog) *ScoringEngine {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &ScoringEngine{catalog: catalog}
}

// ScoreBreakdown 计算全部六个维度的独立得分
func (e *ScoringEngine) ScoreBreakdown(data *types.ResumeData) types.ScoreBreakdown {
	return types.ScoreBreakdown{
		Skills:         e.skillsScore(data.Skills),
		Experience:     e.experienceScore(data.WorkExperience),
		Education:      e.educationScore(data.EducationDetails),
		Projects:       e.projectsScore(data.Projects),
		Certifications: e.certificationsScore(data.Certifications),
		Completeness:   e.completenessScore(data),
	}
}

// OverallScore 按固定权重合成总分，向下取整并钳制到[0,100]
func (e *ScoringEngine) OverallScore(b types.ScoreBreakdown) int {
	weighted := float64(b.Skills)*weightSkills +
		float64(b.Experience)*weightExperience +
		float64(b.Education)*weightEducation +
		float64(b.Projects)*weightProjects +
		float64(b.Certifications)*weightCertifications +
		float64(b.Completeness)*weightCompleteness
	return clampScore(int(weighted))
}

// skillsScore 数量基础分 + 高价值技术技能加成 + 软技能加成
func (e *ScoringEngine) skillsScore(skills []string) int {
	if len(skills) == 0 {
		return 0
	}

	technicalMatches := 0
	softMatches := 0
	for _, skill := range skills {
		lower := strings.ToLower(skill)
		if containsAny(lower, e.catalog.TechnicalSkills) {
			technicalMatches++
		}
		if containsAny(lower, e.catalog.SoftSkills) {
			softMatches++
		}
	}

	base := minInt(len(skills)*2, 40)
	technicalBonus := minInt(technicalMatches*8, 40)
	softBonus := minInt(softMatches*5, 20)
	return clampScore(base + technicalBonus + softBonus)
}

// experienceScore 条目数基础分 + 资深职位加成
func (e *ScoringEngine) experienceScore(experience []string) int {
	if len(experience) == 0 {
		return 0
	}

	base := minInt(len(experience)*15, 60)
	leadershipBonus := 0
	for _, exp := range experience {
		if containsAny(strings.ToLower(exp), e.catalog.SeniorityKeywords) {
			leadershipBonus += 10
		}
	}
	return clampScore(base + leadershipBonus)
}

// educationScore 按学历等级表取所有条目中的最高档
func (e *ScoringEngine) educationScore(education []string) int {
	if len(education) == 0 {
		return missingEducationScore
	}

	maxScore := 0
	for _, edu := range education {
		lower := strings.ToLower(edu)
		// 每条经历取第一个命中的等级
		for _, level := range e.catalog.EducationLevels {
			if strings.Contains(lower, level.Keyword) {
				if level.Score > maxScore {
					maxScore = level.Score
				}
				break
			}
		}
	}
	if maxScore == 0 {
		return unrecognizedEducationScore
	}
	return maxScore
}

// projectsScore 项目数基础分 + 复杂度关键词加成（每个项目封顶15）
func (e *ScoringEngine) projectsScore(projects []string) int {
	if len(projects) == 0 {
		return 0
	}

	base := minInt(len(projects)*15, 60)
	complexityBonus := 0
	for _, project := range projects {
		lower := strings.ToLower(project)
		matches := 0
		for _, keyword := range e.catalog.ComplexityKeywords {
			if strings.Contains(lower, keyword) {
				matches++
			}
		}
		complexityBonus += minInt(matches*5, 15)
	}
	return clampScore(base + complexityBonus)
}

// certificationsScore 数量基础分 + 高含金量认证加成
func (e *ScoringEngine) certificationsScore(certifications []string) int {
	if len(certifications) == 0 {
		return 0
	}

	base := minInt(len(certifications)*10, 40)
	valueBonus := 0
	for _, cert := range certifications {
		if containsAny(strings.ToLower(cert), e.catalog.ValuableCerts) {
			valueBonus += 15
		}
	}
	return clampScore(base + valueBonus)
}

// completenessScore 必备字段占满分权重1，可选字段各占0.5
func (e *ScoringEngine) completenessScore(data *types.ResumeData) int {
	required := []bool{
		strings.TrimSpace(data.FullName) != "",
		strings.TrimSpace(data.EmailAddress) != "",
		strings.TrimSpace(data.PhoneNumber) != "",
		len(data.WorkExperience) > 0,
		len(data.EducationDetails) > 0,
		len(data.Skills) > 0,
	}
	optional := []bool{
		len(data.Projects) > 0,
		len(data.Certifications) > 0,
		len(data.Achievements) > 0,
	}

	completed := 0.0
	for _, ok := range required {
		if ok {
			completed += 1.0
		}
	}
	for _, ok := range optional {
		if ok {
			completed += 0.5
		}
	}

	maxPossible := float64(len(required)) + float64(len(optional))*0.5
	return clampScore(int(completed / maxPossible * 100))
}

// Interpret 返回总分的六档文字解读
func (e *ScoringEngine) Interpret(score int) string {
	switch {
	case score >= 90:
		return "Excellent - Outstanding resume with comprehensive information"
	case score >= 80:
		return "Very Good - Strong resume with good coverage of key areas"
	case score >= 70:
		return "Good - Solid resume with room for minor improvements"
	case score >= 60:
		return "Average - Decent resume but could benefit from enhancements"
	case score >= 50:
		return "Below Average - Resume needs significant improvements"
	default:
		return "Poor - Resume requires major restructuring and content additions"
	}
}

// containsAny 文本是否包含关键词表中的任意一项（调用方负责小写化）
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
