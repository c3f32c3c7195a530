package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestMapResponseBasicFields(t *testing.T) {
	raw := gjson.Parse(`{
		"Full Name": "Jane Doe",
		"Email Address": "jane@example.com",
		"Phone Number": "+1-555-0100",
		"Skills": ["Python", "AWS", "Leadership"],
		"Work Experience": ["Senior Engineer at Acme (2019-2023)"]
	}`)

	data := MapResponse(raw)
	assert.Equal(t, "Jane Doe", data.FullName)
	assert.Equal(t, "jane@example.com", data.EmailAddress)
	assert.Equal(t, "+1-555-0100", data.PhoneNumber)
	assert.Equal(t, []string{"Python", "AWS", "Leadership"}, data.Skills)
	assert.Equal(t, []string{"Senior Engineer at Acme (2019-2023)"}, data.WorkExperience)
}

func TestMapResponseMissingKeysDefault(t *testing.T) {
	data := MapResponse(gjson.Parse(`{"Full Name": "Jane Doe"}`))

	assert.Equal(t, "", data.EmailAddress, "缺失的标量字段应为空串")
	assert.NotNil(t, data.Skills, "缺失的列表字段应为空切片而非nil")
	assert.Empty(t, data.Skills)
	assert.Empty(t, data.EducationDetails)
	assert.Empty(t, data.Achievements)
}

func TestMapResponseCaseInsensitiveLabels(t *testing.T) {
	raw := gjson.Parse(`{
		"full name": "Jane Doe",
		"SKILLS": ["Go"],
		"languages spoken": ["English", "Spanish"]
	}`)

	data := MapResponse(raw)
	assert.Equal(t, "Jane Doe", data.FullName)
	assert.Equal(t, []string{"Go"}, data.Skills)
	assert.Equal(t, []string{"English", "Spanish"}, data.LanguagesSpoken)
}

func TestMapResponseGroupedSkillsFlattened(t *testing.T) {
	// 模型经常把技能按类别分组返回，应保序拍平
	raw := gjson.Parse(`{
		"Skills": {
			"Programming": ["Python", "Go"],
			"Cloud": ["AWS"],
			"Soft Skills": "Leadership"
		}
	}`)

	data := MapResponse(raw)
	assert.Equal(t, []string{"Python", "Go", "AWS", "Leadership"}, data.Skills)
}

func TestMapResponseWrongTypesDegrade(t *testing.T) {
	raw := gjson.Parse(`{
		"Full Name": ["Jane Doe", "extra"],
		"Skills": null,
		"Projects": 7
	}`)

	data := MapResponse(raw)
	assert.Equal(t, "Jane Doe", data.FullName)
	assert.Empty(t, data.Skills)
	assert.Equal(t, []string{"7"}, data.Projects)
}

func TestExtractJSONObjectFenced(t *testing.T) {
	text := "Here is the extracted information:\n```json\n{\"Full Name\": \"Jane Doe\"}\n```\nLet me know if you need anything else."

	obj, err := ExtractJSONObject(text)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", obj.Get("Full Name").String())
}

func TestExtractJSONObjectFencedWithoutLanguageTag(t *testing.T) {
	text := "```\n{\"Skills\": [\"Go\"]}\n```"

	obj, err := ExtractJSONObject(text)
	require.NoError(t, err)
	assert.True(t, obj.Get("Skills").IsArray())
}

func TestExtractJSONObjectBareWithSurroundingText(t *testing.T) {
	text := `Sure! {"Full Name": "Jane", "Nested": {"a": 1}} hope this helps`

	obj, err := ExtractJSONObject(text)
	require.NoError(t, err)
	assert.Equal(t, "Jane", obj.Get("Full Name").String())
	assert.Equal(t, int64(1), obj.Get("Nested.a").Int())
}

func TestExtractJSONObjectNotJSON(t *testing.T) {
	for _, text := range []string{
		"I could not process this resume.",
		"",
		"```json\nnot an object\n```",
		"{broken",
		`["array", "not", "object"]`,
	} {
		_, err := ExtractJSONObject(text)
		assert.ErrorIs(t, err, ErrMalformedModelOutput, "输入: %q", text)
	}
}
