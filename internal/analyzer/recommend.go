package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"resume-analyzer-go/internal/types"
)

// 单次分析最多输出的建议条数，按规则评估顺序截断
const maxRecommendations = 15

// 建议优先级排序时低于此分数的类别视为待改进项
const priorityThreshold = 80

// Generator 基于规范化数据和分数拆解生成改进建议。
// 规则集是确定性的：每条规则独立判断，命中即按固定顺序追加。
type Generator struct {
	catalog *Catalog
}

// NewGenerator 创建建议生成器，catalog为nil时使用内置目录
func NewGenerator(catalog *Catalog) *Generator {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Generator{catalog: catalog}
}

// Recommendations 生成全部改进建议，规则顺序固定：
// 技能 → 经验 → 教育 → 项目 → 认证 → 格式/联系方式 → 内容长度 → 低分兜底
func (g *Generator) Recommendations(data *types.ResumeData, breakdown types.ScoreBreakdown) []types.Recommendation {
	recs := []types.Recommendation{}
	recs = append(recs, g.skillsRules(data)...)
	recs = append(recs, g.experienceRules(data)...)
	recs = append(recs, g.educationRules(data)...)
	recs = append(recs, g.projectsRules(data)...)
	recs = append(recs, g.certificationRules(data)...)
	recs = append(recs, g.formatRules(data)...)
	recs = append(recs, g.contentLengthRules(data)...)
	recs = append(recs, g.scoreBasedRules(breakdown)...)

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// ImprovementPriorities 返回得分低于80的类别展示名，按分数升序（最弱优先）
func (g *Generator) ImprovementPriorities(breakdown types.ScoreBreakdown) []string {
	items := breakdown.Items()
	sort.SliceStable(items, func(i, j int) bool { return items[i].Score < items[j].Score })

	priorities := []string{}
	for _, item := range items {
		if item.Score < priorityThreshold {
			priorities = append(priorities, categoryDisplayName(item.Category))
		}
	}
	return priorities
}

func (g *Generator) skillsRules(data *types.ResumeData) []types.Recommendation {
	var recs []types.Recommendation

	if len(data.Skills) < 5 {
		priority := types.PriorityMedium
		if len(data.Skills) == 0 {
			priority = types.PriorityHigh
		}
		recs = append(recs, types.Recommendation{
			Category:    types.CategorySkills,
			Priority:    priority,
			Title:       "Expand Your Skills Section",
			Description: "Add more technical skills to strengthen your profile. Aim for at least 8-10 relevant skills.",
			ActionItems: []string{},
		})
	}

	// 热门技能缺口：每个领域最多取3个未出现的技能，合并后建议前5个
	current := map[string]bool{}
	for _, skill := range data.Skills {
		current[strings.ToLower(strings.TrimSpace(skill))] = true
	}
	var missing []string
	for _, category := range g.catalog.TrendingSkills {
		taken := 0
		for _, skill := range category.Skills {
			if taken >= 3 {
				break
			}
			if !current[strings.ToLower(skill)] {
				missing = append(missing, skill)
				taken++
			}
		}
	}
	if len(missing) > 0 {
		if len(missing) > 5 {
			missing = missing[:5]
		}
		recs = append(recs, types.Recommendation{
			Category:    types.CategorySkills,
			Priority:    types.PriorityMedium,
			Title:       "Add Trending Skills",
			Description: "Consider adding trending skills: " + strings.Join(missing, ", "),
			ActionItems: missing,
		})
	}

	// 该规则只认五个核心软技能，比打分用的软技能表更窄
	coreSoftSkills := []string{"leadership", "communication", "teamwork", "problem solving", "project management"}
	if !containsAny(strings.ToLower(strings.Join(data.Skills, " ")), coreSoftSkills) {
		recs = append(recs, types.Recommendation{
			Category:    types.CategorySkills,
			Priority:    types.PriorityMedium,
			Title:       "Include Soft Skills",
			Description: "Include soft skills like leadership, communication, and teamwork to show well-rounded capabilities.",
			ActionItems: []string{},
		})
	}

	return recs
}

func (g *Generator) experienceRules(data *types.ResumeData) []types.Recommendation {
	var recs []types.Recommendation

	switch {
	case len(data.WorkExperience) == 0:
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryExperience,
			Priority:    types.PriorityHigh,
			Title:       "Add Work Experience",
			Description: "Add work experience section with job titles, companies, and key achievements.",
			ActionItems: []string{},
		})
	case len(data.WorkExperience) < 2:
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryExperience,
			Priority:    types.PriorityMedium,
			Title:       "Show Career Progression",
			Description: "Consider adding more work experience entries or internships to show career progression.",
			ActionItems: []string{},
		})
	}

	experienceText := strings.ToLower(strings.Join(data.WorkExperience, " "))

	if !strings.ContainsAny(experienceText, "0123456789") {
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryExperience,
			Priority:    types.PriorityMedium,
			Title:       "Quantify Your Achievements",
			Description: "Quantify your achievements with specific numbers, percentages, or metrics (e.g., 'Increased sales by 25%').",
			ActionItems: []string{},
		})
	}

	if containsAny(experienceText, g.catalog.WeakVerbs) && !containsAny(experienceText, g.catalog.StrongVerbs) {
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryExperience,
			Priority:    types.PriorityMedium,
			Title:       "Use Strong Action Verbs",
			Description: "Use strong action verbs (led, developed, implemented) instead of passive language.",
			ActionItems: []string{},
		})
	}

	return recs
}

func (g *Generator) educationRules(data *types.ResumeData) []types.Recommendation {
	var recs []types.Recommendation

	if len(data.EducationDetails) == 0 {
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryEducation,
			Priority:    types.PriorityHigh,
			Title:       "Add Education Details",
			Description: "Add education details including degree, institution, and graduation year.",
			ActionItems: []string{},
		})
		return recs
	}

	educationText := strings.ToLower(strings.Join(data.EducationDetails, " "))
	if !containsAny(educationText, g.catalog.HonorsKeywords) {
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryEducation,
			Priority:    types.PriorityMedium,
			Title:       "Highlight Academic Achievements",
			Description: "Consider adding relevant coursework, GPA (if 3.5+), or academic honors to strengthen education section.",
			ActionItems: []string{},
		})
	}

	return recs
}

func (g *Generator) projectsRules(data *types.ResumeData) []types.Recommendation {
	var recs []types.Recommendation

	switch {
	case len(data.Projects) == 0:
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryProjects,
			Priority:    types.PriorityHigh,
			Title:       "Add a Projects Section",
			Description: "Add a projects section showcasing your technical abilities and problem-solving skills.",
			ActionItems: []string{},
		})
		return recs
	case len(data.Projects) < 2:
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryProjects,
			Priority:    types.PriorityMedium,
			Title:       "Expand Your Project Portfolio",
			Description: "Include 2-3 significant projects with technology stack and outcomes.",
			ActionItems: []string{},
		})
	}

	projectsText := strings.ToLower(strings.Join(data.Projects, " "))
	if !containsAny(projectsText, g.catalog.PortfolioKeywords) {
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryProjects,
			Priority:    types.PriorityMedium,
			Title:       "Add Project Links",
			Description: "Include GitHub links or live demo URLs for your projects to showcase your work.",
			ActionItems: []string{},
		})
	}

	return recs
}

func (g *Generator) certificationRules(data *types.ResumeData) []types.Recommendation {
	var recs []types.Recommendation

	if len(data.Certifications) == 0 {
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryCertifications,
			Priority:    types.PriorityMedium,
			Title:       "Pursue Industry Certifications",
			Description: "Consider obtaining industry-relevant certifications to validate your expertise.",
			ActionItems: []string{},
		})
	}

	// 根据技能方向给出具体认证建议
	skillsText := strings.ToLower(strings.Join(data.Skills, " "))
	var suggestions []string
	if containsAny(skillsText, []string{"aws", "cloud", "amazon"}) {
		suggestions = append(suggestions, "AWS Certified Solutions Architect")
	}
	if containsAny(skillsText, []string{"python", "machine learning", "data science"}) {
		suggestions = append(suggestions, "Google Data Analytics Certificate")
	}
	if containsAny(skillsText, []string{"project management", "agile", "scrum"}) {
		suggestions = append(suggestions, "PMP or Scrum Master certification")
	}

	if len(suggestions) > 0 && len(data.Certifications) < 2 {
		if len(suggestions) > 2 {
			suggestions = suggestions[:2]
		}
		recs = append(recs, types.Recommendation{
			Category:    types.CategoryCertifications,
			Priority:    types.PriorityMedium,
			Title:       "Targeted Certification Suggestions",
			Description: "Consider pursuing: " + strings.Join(suggestions, ", "),
			ActionItems: suggestions,
		})
	}

	return recs
}

func (g *Generator) formatRules(data *types.ResumeData) []types.Recommendation {
	var recs []types.Recommendation

	var missingContact []string
	if strings.TrimSpace(data.EmailAddress) == "" {
		missingContact = append(missingContact, "email")
	}
	if strings.TrimSpace(data.PhoneNumber) == "" {
		missingContact = append(missingContact, "phone number")
	}
	if len(missingContact) > 0 {
		recs = append(recs, types.Recommendation{
			Category:    "format",
			Priority:    types.PriorityHigh,
			Title:       "Complete Your Contact Information",
			Description: "Ensure your contact information includes: " + strings.Join(missingContact, ", "),
			ActionItems: missingContact,
		})
	}

	// 提取的十一个字段中没有职业摘要，始终建议补充
	recs = append(recs, types.Recommendation{
		Category:    "format",
		Priority:    types.PriorityMedium,
		Title:       "Add a Professional Summary",
		Description: "Add a professional summary at the top highlighting your key strengths and career goals.",
		ActionItems: []string{},
	})

	return recs
}

func (g *Generator) contentLengthRules(data *types.ResumeData) []types.Recommendation {
	var recs []types.Recommendation

	words := countWords(data)
	if words < 200 {
		recs = append(recs, types.Recommendation{
			Category:    "content",
			Priority:    types.PriorityMedium,
			Title:       "Expand Your Resume Content",
			Description: "Expand your resume content. Aim for 400-600 words for a comprehensive presentation.",
			ActionItems: []string{},
		})
	} else if words > 800 {
		recs = append(recs, types.Recommendation{
			Category:    "content",
			Priority:    types.PriorityMedium,
			Title:       "Condense Your Resume",
			Description: "Consider condensing your resume. Keep it concise while maintaining important details.",
			ActionItems: []string{},
		})
	}

	return recs
}

// scoreBasedRules 取最低的两个类别，低于60分的给出兜底建议
func (g *Generator) scoreBasedRules(breakdown types.ScoreBreakdown) []types.Recommendation {
	items := breakdown.Items()
	sort.SliceStable(items, func(i, j int) bool { return items[i].Score < items[j].Score })

	var recs []types.Recommendation
	for _, item := range items[:2] {
		if item.Score >= 60 {
			continue
		}
		priority := types.PriorityHigh
		if item.Score < 40 {
			priority = types.PriorityCritical
		}
		recs = append(recs, types.Recommendation{
			Category: item.Category,
			Priority: priority,
			Title:    "Focus on " + categoryDisplayName(item.Category),
			Description: fmt.Sprintf("Focus on improving your %s section - current score: %d/100",
				categoryDisplayName(item.Category), item.Score),
			ActionItems: []string{},
		})
	}
	return recs
}

// countWords 对全部标量和列表字段的文本做空白分词统计
func countWords(data *types.ResumeData) int {
	var sb strings.Builder
	for _, s := range []string{data.FullName, data.EmailAddress, data.PhoneNumber} {
		sb.WriteString(s)
		sb.WriteString(" ")
	}
	for _, list := range [][]string{
		data.EducationDetails, data.WorkExperience, data.Skills,
		data.Certifications, data.Projects, data.LanguagesSpoken,
		data.HobbiesInterests, data.Achievements,
	} {
		sb.WriteString(strings.Join(list, " "))
		sb.WriteString(" ")
	}
	return len(strings.Fields(sb.String()))
}

// categoryDisplayName 类别名转为面向用户的展示名
func categoryDisplayName(category string) string {
	switch category {
	case types.CategorySkills:
		return "Skills"
	case types.CategoryExperience:
		return "Experience"
	case types.CategoryEducation:
		return "Education"
	case types.CategoryProjects:
		return "Projects"
	case types.CategoryCertifications:
		return "Certifications"
	case types.CategoryCompleteness:
		return "Completeness"
	default:
		if category == "" {
			return category
		}
		return strings.ToUpper(category[:1]) + category[1:]
	}
}
