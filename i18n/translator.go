package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator. Templates use
// {name} placeholders filled from data.
type dictTranslator struct{ lang string }

var _dict = map[string]map[string]string{
	"en": {
		"schema_error":    "unsupported declaration: {reason}",
		"required":        "required field missing",
		"invalid_type":    "expected {expected}, got {got}",
		"invalid_literal": "value {got} is not one of the allowed constants {allowed}",
		"invalid_enum":    "value {got} is not a member of {enum}",
		"invalid_format":  "codec {codec} rejected the value",
		"incomplete":      "required field is unset",
		"not_present":     "field is not present",
		"unknown_key":     "unknown key",
	},
	"ja": {
		"schema_error":    "サポートされない宣言です: {reason}",
		"required":        "必須フィールドが不足しています",
		"invalid_type":    "型が不正です ({expected} を期待しましたが {got} でした)",
		"invalid_literal": "値 {got} は許可された定数 {allowed} のいずれでもありません",
		"invalid_enum":    "値 {got} は {enum} のメンバーではありません",
		"invalid_format":  "コーデック {codec} が値を拒否しました",
		"incomplete":      "必須フィールドが未設定です",
		"not_present":     "フィールドが存在しません",
		"unknown_key":     "未知のキーです",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tpl, ok := _dict[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(tpl, "{") {
		return tpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

type holder struct{ tr Translator }

var currentTranslator atomic.Pointer[holder]

func init() { currentTranslator.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Load().tr.Message(code, data)
}
