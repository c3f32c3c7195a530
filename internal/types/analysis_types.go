package types

// ResumeData 规范化后的简历结构化数据
// 这是分析流水线内部的唯一权威形态：标量字段恒为字符串（缺失时为空串），
// 列表字段恒为去除首尾空白的非空字符串切片（缺失时为空切片），
// 创建后只读，供评分引擎和建议生成器消费。
type ResumeData struct {
	FullName     string `json:"full_name"`
	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number"`

	EducationDetails []string `json:"education_details"`
	WorkExperience   []string `json:"work_experience"`
	Skills           []string `json:"skills"`
	Certifications   []string `json:"certifications"`
	Projects         []string `json:"projects"`
	LanguagesSpoken  []string `json:"languages_spoken"`
	HobbiesInterests []string `json:"hobbies_interests"`
	Achievements     []string `json:"achievements"`
}

// NewResumeData 创建一个所有列表字段均已初始化为空切片的ResumeData
func NewResumeData() *ResumeData {
	return &ResumeData{
		EducationDetails: []string{},
		WorkExperience:   []string{},
		Skills:           []string{},
		Certifications:   []string{},
		Projects:         []string{},
		LanguagesSpoken:  []string{},
		HobbiesInterests: []string{},
		Achievements:     []string{},
	}
}

// 评分类别名称，作为ScoreBreakdown和建议生成的统一键
const (
	CategorySkills         = "skills"
	CategoryExperience     = "experience"
	CategoryEducation      = "education"
	CategoryProjects       = "projects"
	CategoryCertifications = "certifications"
	CategoryCompleteness   = "completeness"
)

// ScoreBreakdown 各维度独立得分，每项都在[0,100]区间内
type ScoreBreakdown struct {
	Skills         int `json:"skills_score"`
	Experience     int `json:"experience_score"`
	Education      int `json:"education_score"`
	Projects       int `json:"projects_score"`
	Certifications int `json:"certifications_score"`
	Completeness   int `json:"completeness_score"`
}

// CategoryScore 类别名与分数的配对，用于排序和遍历
type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// Items 按固定类别顺序返回所有维度得分
func (b ScoreBreakdown) Items() []CategoryScore {
	return []CategoryScore{
		{CategorySkills, b.Skills},
		{CategoryExperience, b.Experience},
		{CategoryEducation, b.Education},
		{CategoryProjects, b.Projects},
		{CategoryCertifications, b.Certifications},
		{CategoryCompleteness, b.Completeness},
	}
}

// 建议优先级
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
)

// Recommendation 一条结构化的简历改进建议
type Recommendation struct {
	Category    string   `json:"category"`
	Priority    string   `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionItems []string `json:"action_items"`
}

// Scores 总分与分项得分的组合
type Scores struct {
	OverallScore int `json:"overall_score"`
	ScoreBreakdown
}

// AnalysisSummary 分析结果摘要
type AnalysisSummary struct {
	OverallRating         string   `json:"overall_rating"`
	RatingDescription     string   `json:"rating_description"`
	ImprovementPriorities []string `json:"improvement_priorities"`
	TotalRecommendations  int      `json:"total_recommendations"`
	TotalSkills           int      `json:"total_skills"`
	TotalExperience       int      `json:"total_experience"`
	TotalEducation        int      `json:"total_education"`
	HasContactInfo        bool     `json:"has_contact_info"`
}

// AnalysisResult 一次完整分析的输出
// 所有失败路径都以Success=false加Error描述的形式返回，绝不向调用方抛出异常。
type AnalysisResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	ResumeText string `json:"resume_text,omitempty"`
	WordCount  int    `json:"word_count"`
	CharCount  int    `json:"char_count"`

	ExtractedData   *ResumeData      `json:"extracted_data"`
	Scores          Scores           `json:"scores"`
	Recommendations []Recommendation `json:"recommendations"`
	Strengths       []string         `json:"strengths"`
	Weaknesses      []string         `json:"weaknesses"`
	Summary         AnalysisSummary  `json:"summary"`
}
