package analyzer

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"resume-analyzer-go/internal/types"
	"resume-analyzer-go/pkg/agent"
)

// ChatModel 分析器依赖的对话模型能力，由 pkg/agent 的 Groq 客户端实现
type ChatModel interface {
	Generate(ctx context.Context, messages []agent.Message) (string, error)
}

// Analyzer 简历分析编排器：调用 LLM 抽取结构化字段，
// 再交给打分引擎和建议生成器产出完整分析结果。
type Analyzer struct {
	model       ChatModel
	scorer      *ScoringEngine
	recommender *Generator
}

// NewAnalyzer 创建分析器，打分与建议组件使用内置关键词目录
func NewAnalyzer(model ChatModel) *Analyzer {
	return &Analyzer{
		model:       model,
		scorer:      NewScoringEngine(nil),
		recommender: NewGenerator(nil),
	}
}

const (
	errNoText           = "Could not extract text from resume"
	errNoStructuredData = "Could not extract structured data from resume"
)

// Analyze 对简历全文执行完整分析流程。
// 任何失败都通过返回值表达：抽取失败置 Success=false，
// 分析阶段异常则降级为兜底结果，调用方无需处理 panic。
func (a *Analyzer) Analyze(ctx context.Context, resumeText string) *types.AnalysisResult {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return &types.AnalysisResult{Success: false, Error: errNoText}
	}

	raw, err := a.model.Generate(ctx, []agent.Message{
		{Role: "user", Content: buildExtractionPrompt(resumeText)},
	})
	if err != nil {
		log.Error().Err(err).Msg("LLM 结构化抽取调用失败")
		return &types.AnalysisResult{Success: false, Error: errNoStructuredData}
	}

	obj, err := ExtractJSONObject(raw)
	if err != nil {
		// 记录原始输出便于排查模型偏离格式的情况
		log.Error().Err(err).Str("raw_output", raw).Msg("LLM 响应不含有效 JSON 对象")
		return &types.AnalysisResult{Success: false, Error: errNoStructuredData}
	}

	data := MapResponse(obj)

	result := &types.AnalysisResult{
		Success:       true,
		ResumeText:    resumeText,
		WordCount:     len(strings.Fields(resumeText)),
		CharCount:     len([]rune(resumeText)),
		ExtractedData: data,
	}
	a.fillAnalysis(result, data)
	return result
}

// fillAnalysis 基于结构化数据填充分数、建议和总结。
// recover 兜底保证单份异常数据不会让消费者整体失败。
func (a *Analyzer) fillAnalysis(result *types.AnalysisResult, data *types.ResumeData) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("分析阶段发生异常，返回兜底结果")
			applyFallbackAnalysis(result)
		}
	}()

	breakdown := a.scorer.ScoreBreakdown(data)
	overall := a.scorer.OverallScore(breakdown)

	recs := a.recommender.Recommendations(data, breakdown)

	result.Scores = types.Scores{OverallScore: overall, ScoreBreakdown: breakdown}
	result.Recommendations = recs
	result.Strengths = identifyStrengths(data, breakdown)
	result.Weaknesses = identifyWeaknesses(data, breakdown)
	result.Summary = types.AnalysisSummary{
		OverallRating:         overallRating(overall),
		RatingDescription:     a.scorer.Interpret(overall),
		ImprovementPriorities: a.recommender.ImprovementPriorities(breakdown),
		TotalRecommendations:  len(recs),
		TotalSkills:           len(data.Skills),
		TotalExperience:       len(data.WorkExperience),
		TotalEducation:        len(data.EducationDetails),
		HasContactInfo:        data.EmailAddress != "" && data.PhoneNumber != "",
	}
}

// buildExtractionPrompt 构造十一字段抽取提示词，要求模型只输出 JSON 对象
func buildExtractionPrompt(resumeText string) string {
	var sb strings.Builder
	sb.WriteString(resumeText)
	sb.WriteString(`

From the above text, extract the following information:
1. Full Name
2. Email Address
3. Phone Number
4. Education Details (Degree, Institution, Year)
5. Work Experience (Job Title, Company, Duration)
6. Skills
7. Certifications
8. Projects
9. Languages Spoken
10. Hobbies/Interests
11. Achievements

Return the extracted information in JSON format with appropriate keys. The output should be only the JSON object without any additional text or explanation.
`)
	return sb.String()
}

func overallRating(score int) string {
	switch {
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Average"
	default:
		return "Needs Improvement"
	}
}

// identifyStrengths 从高分类别和数据特征归纳优势，最多5条
func identifyStrengths(data *types.ResumeData, breakdown types.ScoreBreakdown) []string {
	strengths := []string{}

	for _, item := range breakdown.Items() {
		if item.Score >= 80 {
			strengths = append(strengths, "Strong "+categoryDisplayName(item.Category))
		}
	}

	if len(data.Skills) > 8 {
		strengths = append(strengths, "Comprehensive skill set")
	}
	if len(data.Certifications) > 0 {
		strengths = append(strengths, "Professional certifications")
	}
	if len(data.Projects) > 2 {
		strengths = append(strengths, "Diverse project portfolio")
	}
	if len(data.LanguagesSpoken) > 1 {
		strengths = append(strengths, "Multilingual")
	}

	if len(strengths) > 5 {
		strengths = strengths[:5]
	}
	return strengths
}

// identifyWeaknesses 从低分类别和缺失段落归纳短板，最多5条
func identifyWeaknesses(data *types.ResumeData, breakdown types.ScoreBreakdown) []string {
	weaknesses := []string{}

	for _, item := range breakdown.Items() {
		if item.Score < 60 {
			weaknesses = append(weaknesses, "Limited "+categoryDisplayName(item.Category))
		}
	}

	if len(data.Projects) == 0 {
		weaknesses = append(weaknesses, "No projects listed")
	}
	if len(data.Certifications) == 0 {
		weaknesses = append(weaknesses, "No certifications mentioned")
	}
	if len(data.Achievements) == 0 {
		weaknesses = append(weaknesses, "No achievements highlighted")
	}

	if len(weaknesses) > 5 {
		weaknesses = weaknesses[:5]
	}
	return weaknesses
}

// applyFallbackAnalysis 分析异常时的安全兜底：各项50分加一条系统级建议
func applyFallbackAnalysis(result *types.AnalysisResult) {
	result.Scores = types.Scores{
		OverallScore: 50,
		ScoreBreakdown: types.ScoreBreakdown{
			Skills:         50,
			Experience:     50,
			Education:      50,
			Projects:       50,
			Certifications: 50,
			Completeness:   50,
		},
	}
	result.Recommendations = []types.Recommendation{{
		Category:    "System",
		Priority:    types.PriorityHigh,
		Title:       "Analysis Error",
		Description: "Unable to generate specific recommendations due to data processing error. Please try uploading your resume again.",
		ActionItems: []string{},
	}}
	result.Strengths = []string{"Resume uploaded successfully"}
	result.Weaknesses = []string{"Analysis could not be completed"}
	result.Summary = types.AnalysisSummary{
		OverallRating:         "Analysis incomplete",
		RatingDescription:     "Analysis incomplete due to processing error",
		ImprovementPriorities: []string{},
		TotalRecommendations:  1,
	}
}
