package analyzer

import (
	"errors"
	"regexp"
	"strings"

	"resume-analyzer-go/internal/types"

	"github.com/tidwall/gjson"
)

// ErrMalformedModelOutput 模型输出在剥离围栏后仍不是合法JSON对象
var ErrMalformedModelOutput = errors.New("模型输出不是合法的JSON对象")

// 提示词要求模型返回的字段标签与内部规范字段的映射表
var listFieldLabels = []struct {
	Label string
	Field func(*types.ResumeData) *[]string
}{
	{"Education Details", func(d *types.ResumeData) *[]string { return &d.EducationDetails }},
	{"Work Experience", func(d *types.ResumeData) *[]string { return &d.WorkExperience }},
	{"Skills", func(d *types.ResumeData) *[]string { return &d.Skills }},
	{"Certifications", func(d *types.ResumeData) *[]string { return &d.Certifications }},
	{"Projects", func(d *types.ResumeData) *[]string { return &d.Projects }},
	{"Languages Spoken", func(d *types.ResumeData) *[]string { return &d.LanguagesSpoken }},
	{"Hobbies/Interests", func(d *types.ResumeData) *[]string { return &d.HobbiesInterests }},
	{"Achievements", func(d *types.ResumeData) *[]string { return &d.Achievements }},
}

var scalarFieldLabels = []struct {
	Label string
	Field func(*types.ResumeData) *string
}{
	{"Full Name", func(d *types.ResumeData) *string { return &d.FullName }},
	{"Email Address", func(d *types.ResumeData) *string { return &d.EmailAddress }},
	{"Phone Number", func(d *types.ResumeData) *string { return &d.PhoneNumber }},
}

// MapResponse 把解析后的模型JSON对象映射为规范化的ResumeData。
//
// 对缺键、错误类型和意外嵌套一律静默降级为字段默认值，
// 永远返回一个所有字段都已填充的记录（可能为空字段），绝不失败。
func MapResponse(raw gjson.Result) *types.ResumeData {
	data := types.NewResumeData()

	for _, f := range scalarFieldLabels {
		*f.Field(data) = NormalizeScalarField(lookupLabel(raw, f.Label))
	}

	for _, f := range listFieldLabels {
		value := lookupLabel(raw, f.Label)
		// 技能字段可能按类别分组返回（{"Programming": [...], "Cloud": [...]}），
		// 先把各类别的值拍平成一个列表再规范化
		if f.Label == "Skills" && value.IsObject() {
			*f.Field(data) = flattenGroupedSkills(value)
			continue
		}
		*f.Field(data) = NormalizeListField(value)
	}

	return data
}

// lookupLabel 先按准确标签取值，取不到时忽略大小写匹配对象键
func lookupLabel(raw gjson.Result, label string) gjson.Result {
	if !raw.IsObject() {
		return gjson.Result{}
	}
	if v := raw.Get(escapeLabel(label)); v.Exists() {
		return v
	}
	var found gjson.Result
	raw.ForEach(func(key, value gjson.Result) bool {
		if strings.EqualFold(strings.TrimSpace(key.String()), label) {
			found = value
			return false
		}
		return true
	})
	return found
}

// escapeLabel 转义gjson路径中的特殊字符（标签中的"."等）
func escapeLabel(label string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(label)
}

// flattenGroupedSkills 把类别→技能列表形式的对象拍平为单个切片，
// 保持类别出现顺序和类别内的列表顺序
func flattenGroupedSkills(grouped gjson.Result) []string {
	out := []string{}
	grouped.ForEach(func(_, value gjson.Result) bool {
		out = append(out, NormalizeListField(value)...)
		return true
	})
	return out
}

var fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSONObject 从模型原始输出中提取JSON对象文本。
//
// 优先匹配markdown代码围栏中的内容；没有围栏时退化为
// 扫描第一个配平的花括号区间。两者都失败则返回ErrMalformedModelOutput。
func ExtractJSONObject(text string) (gjson.Result, error) {
	candidate := ""
	if m := fencedJSONRe.FindStringSubmatch(text); len(m) > 1 {
		candidate = strings.TrimSpace(m[1])
	} else {
		candidate = balancedJSONObject(text)
	}

	if candidate == "" || !gjson.Valid(candidate) {
		return gjson.Result{}, ErrMalformedModelOutput
	}
	parsed := gjson.Parse(candidate)
	if !parsed.IsObject() {
		return gjson.Result{}, ErrMalformedModelOutput
	}
	return parsed, nil
}

// balancedJSONObject 返回文本中第一个花括号配平的子串，找不到时返回空串
func balancedJSONObject(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return strings.TrimSpace(text[start : i+1])
			}
		}
	}
	return ""
}
