package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-analyzer-go/internal/types"
)

func TestScoreBreakdownEmptyResume(t *testing.T) {
	engine := NewScoringEngine(nil)
	b := engine.ScoreBreakdown(types.NewResumeData())

	assert.Equal(t, 0, b.Skills)
	assert.Equal(t, 0, b.Experience)
	assert.Equal(t, missingEducationScore, b.Education, "无学历信息应得保底分30")
	assert.Equal(t, 0, b.Projects)
	assert.Equal(t, 0, b.Certifications)
	assert.Equal(t, 0, b.Completeness)
}

func TestSkillsScore(t *testing.T) {
	engine := NewScoringEngine(nil)

	// 3个技能：基础分6 + Python/AWS技术加成16 + Leadership软技能加成5
	got := engine.skillsScore([]string{"Python", "AWS", "Leadership"})
	assert.Equal(t, 27, got)

	// 数量基础分封顶40，技术加成封顶40，软技能加成封顶20
	many := make([]string, 0, 30)
	for i := 0; i < 10; i++ {
		many = append(many, "python", "leadership", fmt.Sprintf("misc-%d", i))
	}
	assert.Equal(t, 100, engine.skillsScore(many), "各加成封顶后总分不超过100")
}

func TestSkillsScoreCaseInsensitive(t *testing.T) {
	engine := NewScoringEngine(nil)

	assert.Equal(t, engine.skillsScore([]string{"PYTHON"}), engine.skillsScore([]string{"python"}))
}

func TestExperienceScore(t *testing.T) {
	engine := NewScoringEngine(nil)

	// 1条经历：基础分15 + senior资深加成10
	got := engine.experienceScore([]string{"Senior Engineer at Acme (2019-2023)"})
	assert.Equal(t, 25, got)

	// 基础分在4条后封顶60
	assert.Equal(t, 60, engine.experienceScore([]string{"a", "b", "c", "d", "e"}))

	// 每条命中资深关键词的经历各加10
	got = engine.experienceScore([]string{"Lead Developer", "Engineering Manager", "Junior Dev"})
	assert.Equal(t, 45+20, got)
}

func TestEducationScoreLevels(t *testing.T) {
	engine := NewScoringEngine(nil)

	cases := []struct {
		entry string
		want  int
	}{
		{"PhD in Physics, MIT", 100},
		{"Doctorate of Education", 100},
		{"Master of Science, Stanford", 85},
		{"MBA, Wharton", 85},
		{"Bachelor of Engineering", 70},
		{"Associate Degree in Arts", 50},
		{"Diploma in Design", 40},
		{"Certificate in Accounting", 30},
		{"Some Coursework", 50},
	}
	for _, c := range cases {
		got := engine.educationScore([]string{c.entry})
		assert.Equal(t, c.want, got, "条目: %s", c.entry)
	}
}

func TestEducationScoreTakesHighest(t *testing.T) {
	engine := NewScoringEngine(nil)

	got := engine.educationScore([]string{
		"Bachelor of Science, 2016",
		"Master of Science, 2018",
	})
	assert.Equal(t, 85, got, "多条学历取最高档")
}

func TestEducationScoreFirstMatchPerEntry(t *testing.T) {
	engine := NewScoringEngine(nil)

	// 等级表顺序匹配：同一条目中phd先于master命中
	got := engine.educationScore([]string{"PhD supervised master students"})
	assert.Equal(t, 100, got)
}

func TestProjectsScore(t *testing.T) {
	engine := NewScoringEngine(nil)

	// 1个项目：基础分15，无复杂度关键词
	assert.Equal(t, 15, engine.projectsScore([]string{"Todo List"}))

	// 复杂度加成每项目封顶15
	got := engine.projectsScore([]string{"Full stack web application with cloud api database deployment"})
	assert.Equal(t, 15+15, got)
}

func TestCertificationsScore(t *testing.T) {
	engine := NewScoringEngine(nil)

	// 1个普通认证：基础分10
	assert.Equal(t, 10, engine.certificationsScore([]string{"First Aid"}))

	// AWS认证命中高含金量表，额外加15
	assert.Equal(t, 25, engine.certificationsScore([]string{"AWS Solutions Architect"}))
}

func TestCompletenessScore(t *testing.T) {
	engine := NewScoringEngine(nil)

	full := &types.ResumeData{
		FullName:         "Jane Doe",
		EmailAddress:     "jane@example.com",
		PhoneNumber:      "+1",
		EducationDetails: []string{"BSc"},
		WorkExperience:   []string{"Engineer"},
		Skills:           []string{"Go"},
		Projects:         []string{"App"},
		Certifications:   []string{"AWS"},
		Achievements:     []string{"Award"},
	}
	assert.Equal(t, 100, engine.completenessScore(full))

	// 只有6个必备字段：6 / 7.5 = 80%
	partial := &types.ResumeData{
		FullName:         "Jane Doe",
		EmailAddress:     "jane@example.com",
		PhoneNumber:      "+1",
		EducationDetails: []string{"BSc"},
		WorkExperience:   []string{"Engineer"},
		Skills:           []string{"Go"},
	}
	assert.Equal(t, 80, engine.completenessScore(partial))
}

func TestOverallScoreWeighted(t *testing.T) {
	engine := NewScoringEngine(nil)

	b := types.ScoreBreakdown{
		Skills:         80,
		Experience:     60,
		Education:      70,
		Projects:       50,
		Certifications: 40,
		Completeness:   90,
	}
	// 80*.25 + 60*.25 + 70*.15 + 50*.15 + 40*.1 + 90*.1 = 66
	assert.Equal(t, 66, engine.OverallScore(b))

	assert.Equal(t, 100, engine.OverallScore(types.ScoreBreakdown{
		Skills: 100, Experience: 100, Education: 100,
		Projects: 100, Certifications: 100, Completeness: 100,
	}))
	assert.Equal(t, 0, engine.OverallScore(types.ScoreBreakdown{}))
}

func TestScoresMonotonicWithMoreContent(t *testing.T) {
	engine := NewScoringEngine(nil)

	fewer := engine.skillsScore([]string{"Python"})
	more := engine.skillsScore([]string{"Python", "Go"})
	assert.GreaterOrEqual(t, more, fewer, "技能越多分数不应下降")

	fewerExp := engine.experienceScore([]string{"Engineer"})
	moreExp := engine.experienceScore([]string{"Engineer", "Developer"})
	assert.GreaterOrEqual(t, moreExp, fewerExp)
}

func TestInterpretBands(t *testing.T) {
	engine := NewScoringEngine(nil)

	cases := []struct {
		score  int
		prefix string
	}{
		{95, "Excellent"},
		{85, "Very Good"},
		{75, "Good"},
		{65, "Average"},
		{55, "Below Average"},
		{30, "Poor"},
	}
	for _, c := range cases {
		assert.Contains(t, engine.Interpret(c.score), c.prefix, "分数: %d", c.score)
	}
}
