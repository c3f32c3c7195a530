package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer-go/internal/types"
)

func findRec(recs []types.Recommendation, title string) *types.Recommendation {
	for i := range recs {
		if recs[i].Title == title {
			return &recs[i]
		}
	}
	return nil
}

func TestRecommendationsEmptyResume(t *testing.T) {
	gen := NewGenerator(nil)
	engine := NewScoringEngine(nil)
	data := types.NewResumeData()

	recs := gen.Recommendations(data, engine.ScoreBreakdown(data))
	require.NotEmpty(t, recs)
	assert.LessOrEqual(t, len(recs), maxRecommendations)

	// 空白段落触发的建议都是高优先级
	rec := findRec(recs, "Expand Your Skills Section")
	require.NotNil(t, rec)
	assert.Equal(t, types.PriorityHigh, rec.Priority)

	rec = findRec(recs, "Add Work Experience")
	require.NotNil(t, rec)
	assert.Equal(t, types.PriorityHigh, rec.Priority)

	rec = findRec(recs, "Add Education Details")
	require.NotNil(t, rec)
	assert.Equal(t, types.PriorityHigh, rec.Priority)

	rec = findRec(recs, "Complete Your Contact Information")
	require.NotNil(t, rec)
	assert.Equal(t, []string{"email", "phone number"}, rec.ActionItems)
}

func TestSoftSkillsRuleUsesCoreList(t *testing.T) {
	gen := NewGenerator(nil)
	engine := NewScoringEngine(nil)

	// analytical在打分软技能表里，但不属于该规则认可的五个核心软技能
	data := types.NewResumeData()
	data.Skills = []string{"Analytical", "Python"}
	recs := gen.Recommendations(data, engine.ScoreBreakdown(data))
	assert.NotNil(t, findRec(recs, "Include Soft Skills"))

	data = types.NewResumeData()
	data.Skills = []string{"Leadership", "Python"}
	recs = gen.Recommendations(data, engine.ScoreBreakdown(data))
	assert.Nil(t, findRec(recs, "Include Soft Skills"), "核心软技能存在时不应触发建议")
}

func TestRecommendationsRuleOrderStable(t *testing.T) {
	gen := NewGenerator(nil)
	engine := NewScoringEngine(nil)
	data := types.NewResumeData()
	breakdown := engine.ScoreBreakdown(data)

	first := gen.Recommendations(data, breakdown)
	second := gen.Recommendations(data, breakdown)
	assert.Equal(t, first, second, "相同输入必须产生相同顺序的建议")

	// 类别顺序固定：技能建议先于经验建议
	skillsIdx, expIdx := -1, -1
	for i, rec := range first {
		if rec.Category == types.CategorySkills && skillsIdx == -1 {
			skillsIdx = i
		}
		if rec.Category == types.CategoryExperience && expIdx == -1 {
			expIdx = i
		}
	}
	require.NotEqual(t, -1, skillsIdx)
	require.NotEqual(t, -1, expIdx)
	assert.Less(t, skillsIdx, expIdx)
}

func TestTrendingSkillsSuggestion(t *testing.T) {
	gen := NewGenerator(nil)

	data := types.NewResumeData()
	data.Skills = []string{"React", "Node.js", "TypeScript", "Python", "SQL", "AWS"}
	recs := gen.skillsRules(data)

	rec := findRec(recs, "Add Trending Skills")
	require.NotNil(t, rec)
	assert.Len(t, rec.ActionItems, 5, "热门技能建议最多5项")
	for _, s := range rec.ActionItems {
		assert.NotContains(t, data.Skills, s, "已具备的技能不应再被建议")
	}
}

func TestQuantifyAchievementsRule(t *testing.T) {
	gen := NewGenerator(nil)

	data := types.NewResumeData()
	data.WorkExperience = []string{"Engineer at Acme", "Developer at Beta"}
	recs := gen.experienceRules(data)
	assert.NotNil(t, findRec(recs, "Quantify Your Achievements"), "无数字的经历应触发量化建议")

	data.WorkExperience = []string{"Increased sales by 25% at Acme (2019-2023)"}
	recs = gen.experienceRules(data)
	assert.Nil(t, findRec(recs, "Quantify Your Achievements"))
}

func TestWeakVerbsRule(t *testing.T) {
	gen := NewGenerator(nil)

	data := types.NewResumeData()
	data.WorkExperience = []string{"Responsible for maintenance tasks in 2020"}
	recs := gen.experienceRules(data)
	assert.NotNil(t, findRec(recs, "Use Strong Action Verbs"))

	// 同时出现强动词时不触发
	data.WorkExperience = []string{"Responsible for the team, led 5 projects in 2020"}
	recs = gen.experienceRules(data)
	assert.Nil(t, findRec(recs, "Use Strong Action Verbs"))
}

func TestCertificationSuggestions(t *testing.T) {
	gen := NewGenerator(nil)

	data := types.NewResumeData()
	data.Skills = []string{"AWS", "Python", "Scrum"}
	recs := gen.certificationRules(data)

	rec := findRec(recs, "Targeted Certification Suggestions")
	require.NotNil(t, rec)
	assert.Len(t, rec.ActionItems, 2, "认证建议最多2项")
	assert.Contains(t, rec.Description, "AWS Certified Solutions Architect")
}

func TestProjectPortfolioLinkRule(t *testing.T) {
	gen := NewGenerator(nil)

	data := types.NewResumeData()
	data.Projects = []string{"Chat App (github.com/jane/chat)", "ML Pipeline"}
	recs := gen.projectsRules(data)
	assert.Nil(t, findRec(recs, "Add Project Links"), "已有github链接时不再建议")

	data.Projects = []string{"Chat App", "ML Pipeline"}
	recs = gen.projectsRules(data)
	assert.NotNil(t, findRec(recs, "Add Project Links"))
}

func TestScoreBasedCatchAll(t *testing.T) {
	gen := NewGenerator(nil)

	recs := gen.scoreBasedRules(types.ScoreBreakdown{
		Skills: 30, Experience: 55, Education: 70,
		Projects: 80, Certifications: 90, Completeness: 85,
	})
	require.Len(t, recs, 2, "只对最低的两个低于60分的类别兜底")

	assert.Equal(t, types.PriorityCritical, recs[0].Priority, "低于40分为critical")
	assert.Contains(t, recs[0].Description, "Skills")
	assert.Contains(t, recs[0].Description, "30/100")

	assert.Equal(t, types.PriorityHigh, recs[1].Priority)
	assert.Contains(t, recs[1].Description, "Experience")
}

func TestRecommendationsTruncatedToLimit(t *testing.T) {
	gen := NewGenerator(nil)
	engine := NewScoringEngine(nil)

	// 空简历会命中几乎所有规则
	data := types.NewResumeData()
	recs := gen.Recommendations(data, engine.ScoreBreakdown(data))
	assert.LessOrEqual(t, len(recs), maxRecommendations)
}

func TestImprovementPriorities(t *testing.T) {
	gen := NewGenerator(nil)

	got := gen.ImprovementPriorities(types.ScoreBreakdown{
		Skills: 85, Experience: 40, Education: 70,
		Projects: 90, Certifications: 20, Completeness: 79,
	})
	assert.Equal(t, []string{"Certifications", "Experience", "Education", "Completeness"}, got,
		"低于80的类别按分数升序排列")
}

func TestImprovementPrioritiesAllStrong(t *testing.T) {
	gen := NewGenerator(nil)

	got := gen.ImprovementPriorities(types.ScoreBreakdown{
		Skills: 90, Experience: 85, Education: 100,
		Projects: 80, Certifications: 95, Completeness: 88,
	})
	assert.Empty(t, got)
}
