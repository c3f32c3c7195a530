package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"resume-analyzer-go/internal/config"
	"resume-analyzer-go/internal/constants"
	"resume-analyzer-go/internal/storage/models"
)

func newTestHandler() *AnalysisHandler {
	return NewAnalysisHandler(config.DefaultConfig(), nil, nil, nil)
}

func TestValidateUpload(t *testing.T) {
	h := newTestHandler()

	assert.NoError(t, h.ValidateUpload("resume.pdf", 1024))
	assert.NoError(t, h.ValidateUpload("resume.docx", 1024))
	assert.NoError(t, h.ValidateUpload("RESUME.PDF", 1024), "后缀匹配不区分大小写")

	assert.Error(t, h.ValidateUpload("resume.txt", 1024))
	assert.Error(t, h.ValidateUpload("resume.doc", 1024))
	assert.Error(t, h.ValidateUpload("resume", 1024), "无后缀应被拒绝")

	// 默认10MB上限
	assert.NoError(t, h.ValidateUpload("resume.pdf", 10*1024*1024))
	assert.Error(t, h.ValidateUpload("resume.pdf", 10*1024*1024+1))
}

func TestBuildAnalysisResponsePending(t *testing.T) {
	record := &models.ResumeAnalysis{
		AnalysisID:       "0195f3a0-0000-7000-8000-000000000001",
		UserID:           "user-1",
		OriginalFilename: "resume.pdf",
		Status:           constants.StatusPending,
		CreatedAt:        time.Now(),
	}

	resp := buildAnalysisResponse(record)
	assert.Equal(t, constants.StatusPending, resp.Status)
	assert.Nil(t, resp.ExtractedData, "未完成的记录不应携带分析产物")
	assert.Nil(t, resp.Scores)
	assert.Nil(t, resp.Summary)
}

func TestBuildAnalysisResponseFailed(t *testing.T) {
	record := &models.ResumeAnalysis{
		AnalysisID:   "0195f3a0-0000-7000-8000-000000000002",
		Status:       constants.StatusFailed,
		ErrorMessage: "Could not extract text from resume",
	}

	resp := buildAnalysisResponse(record)
	assert.Equal(t, constants.StatusFailed, resp.Status)
	assert.Equal(t, "Could not extract text from resume", resp.ErrorMessage)
	assert.Nil(t, resp.Scores)
}

func TestBuildAnalysisResponseCompleted(t *testing.T) {
	record := &models.ResumeAnalysis{
		AnalysisID:       "0195f3a0-0000-7000-8000-000000000003",
		UserID:           "user-1",
		OriginalFilename: "resume.pdf",
		Status:           constants.StatusCompleted,
		FullName:         "Jane Doe",
		EmailAddress:     "jane@example.com",
		PhoneNumber:      "+1-555-0100",
		WordCount:        320,
		CharCount:        2100,

		Skills:         datatypes.JSON(`["Python","AWS"]`),
		WorkExperience: datatypes.JSON(`["Senior Engineer at Acme (2019-2023)"]`),

		OverallScore:        72,
		SkillsScore:         80,
		ExperienceScore:     60,
		EducationScore:      70,
		ProjectsScore:       50,
		CertificationsScore: 40,
		CompletenessScore:   90,

		Recommendations: datatypes.JSON(`[{"category":"skills","priority":"medium","title":"Expand Your Skills Section","description":"...","action_items":[]}]`),
		Strengths:       datatypes.JSON(`["Strong Skills"]`),
		Weaknesses:      datatypes.JSON(`["Limited Certifications"]`),
		Summary:         datatypes.JSON(`{"overall_rating":"Good","rating_description":"Good - Solid resume with room for minor improvements","improvement_priorities":["Certifications"],"total_recommendations":1,"total_skills":2,"total_experience":1,"total_education":0,"has_contact_info":true}`),
	}

	resp := buildAnalysisResponse(record)
	require.NotNil(t, resp.ExtractedData)
	assert.Equal(t, "Jane Doe", resp.ExtractedData.FullName)
	assert.Equal(t, []string{"Python", "AWS"}, resp.ExtractedData.Skills)
	assert.Empty(t, resp.ExtractedData.Projects, "缺失的JSON列应保持空切片")

	require.NotNil(t, resp.Scores)
	assert.Equal(t, 72, resp.Scores.OverallScore)
	assert.Equal(t, 80, resp.Scores.Skills)

	require.Len(t, resp.Recommendations, 1)
	assert.Equal(t, "Expand Your Skills Section", resp.Recommendations[0].Title)

	require.NotNil(t, resp.Summary)
	assert.Equal(t, "Good", resp.Summary.OverallRating)
	assert.True(t, resp.Summary.HasContactInfo)
	assert.Equal(t, "Good", resp.ScoreClass)
}

func TestScoreClass(t *testing.T) {
	assert.Equal(t, "Excellent", scoreClass(80))
	assert.Equal(t, "Good", scoreClass(79))
	assert.Equal(t, "Good", scoreClass(60))
	assert.Equal(t, "Average", scoreClass(59))
	assert.Equal(t, "Average", scoreClass(40))
	assert.Equal(t, "Needs Improvement", scoreClass(39))
	assert.Equal(t, "Needs Improvement", scoreClass(0))
}

func TestBuildAnalysisResponseCorruptColumn(t *testing.T) {
	record := &models.ResumeAnalysis{
		AnalysisID: "0195f3a0-0000-7000-8000-000000000004",
		Status:     constants.StatusCompleted,
		Skills:     datatypes.JSON(`{broken`),
	}

	resp := buildAnalysisResponse(record)
	require.NotNil(t, resp.ExtractedData)
	assert.Empty(t, resp.ExtractedData.Skills, "损坏的JSON列应降级为空切片")
}
