package analyzer

import (
	"strings"

	"github.com/tidwall/gjson"
)

// 对象条目提取主文本时的键名优先级表。
// LLM返回的列表元素经常是对象而非字符串（如{"Job Title": "...", "Company": "..."}），
// 按此顺序取第一个非空值作为条目主文本。
var primaryEntryKeys = []string{
	"name", "title", "job_title", "position", "degree", "skill",
	"project_name", "certification", "language", "company", "institution",
	"description",
}

// 附加上下文：主文本之后以"at 公司"和"(时间段)"的形式补充次要信息
var (
	affiliationKeys = []string{"company", "institution", "organization", "school"}
	durationKeys    = []string{"duration", "year", "years", "dates", "date", "period"}
)

// NormalizeListField 将任意形态的原始字段值规范化为字符串切片。
//
// 接受LLM输出中该字段可能出现的所有形态：缺失/null、字符串、标量、
// 对象、数组（元素可以是字符串、标量或对象的任意混合）。
// 规范化结果中的空串一律丢弃。此函数必须对任何输入都不失败——
// 对不可信模型输出的防御性解析正是它存在的意义。
func NormalizeListField(v gjson.Result) []string {
	out := []string{}

	switch {
	case !v.Exists() || v.Type == gjson.Null:
		// 缺失或null：空切片
	case v.IsArray():
		v.ForEach(func(_, item gjson.Result) bool {
			if s := normalizeEntry(item); s != "" {
				out = append(out, s)
			}
			return true
		})
	case v.IsObject():
		// 未包在数组里的单个对象：有内容则包装为单元素切片
		if s := objectEntryText(v); s != "" {
			out = append(out, s)
		}
	default:
		// 单个字符串或其他标量
		if s := scalarText(v); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// NormalizeScalarField 将原始值规范化为单个字符串，null/缺失返回空串
func NormalizeScalarField(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	if v.IsObject() {
		return objectEntryText(v)
	}
	if v.IsArray() {
		// 标量字段收到数组时取第一个非空条目
		first := ""
		v.ForEach(func(_, item gjson.Result) bool {
			first = normalizeEntry(item)
			return first == ""
		})
		return first
	}
	return scalarText(v)
}

func normalizeEntry(item gjson.Result) string {
	switch {
	case item.Type == gjson.Null:
		return ""
	case item.IsObject():
		return objectEntryText(item)
	case item.IsArray():
		// 嵌套数组：拍平其中的条目
		parts := make([]string, 0, 4)
		item.ForEach(func(_, inner gjson.Result) bool {
			if s := normalizeEntry(inner); s != "" {
				parts = append(parts, s)
			}
			return true
		})
		return strings.Join(parts, ", ")
	default:
		return scalarText(item)
	}
}

// scalarText 字符串去首尾空白；数字、布尔按其字面形式转为字符串
func scalarText(v gjson.Result) string {
	return strings.TrimSpace(v.String())
}

// objectEntryText 把一个对象条目压成展示字符串，
// 例如 {"job_title":"Engineer","company":"Acme","duration":"2019-2023"}
// 得到 "Engineer at Acme (2019-2023)"。
func objectEntryText(obj gjson.Result) string {
	fields := map[string]string{}
	firstScalar := ""
	obj.ForEach(func(key, value gjson.Result) bool {
		if value.IsObject() || value.IsArray() {
			return true
		}
		s := scalarText(value)
		if s == "" {
			return true
		}
		k := normalizeKey(key.String())
		if _, ok := fields[k]; !ok {
			fields[k] = s
		}
		if firstScalar == "" {
			firstScalar = s
		}
		return true
	})

	primary := ""
	primaryKey := ""
	for _, k := range primaryEntryKeys {
		if s, ok := fields[k]; ok && s != "" {
			primary = s
			primaryKey = k
			break
		}
	}
	if primary == "" {
		// 没有命中任何优先键：退而取文档顺序中的第一个非空标量值
		primary = firstScalar
	}
	if primary == "" {
		return ""
	}

	// 补充单位与时间段上下文
	if primaryKey != "company" && primaryKey != "institution" {
		for _, k := range affiliationKeys {
			if s, ok := fields[k]; ok && s != "" && !strings.EqualFold(s, primary) {
				primary += " at " + s
				break
			}
		}
	}
	for _, k := range durationKeys {
		if s, ok := fields[k]; ok && s != "" {
			primary += " (" + s + ")"
			break
		}
	}

	return primary
}

// normalizeKey 键名统一成小写下划线形式，"Job Title" 与 "job_title" 等价
func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, " ", "_")
	k = strings.ReplaceAll(k, "-", "_")
	return k
}
