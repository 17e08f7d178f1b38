package recordkit

import (
	"github.com/reoring/recordkit/i18n"
)

// IssueAt creates an Issue at the given path with provided code and message
// parameters. The message is rendered through the i18n translator.
func IssueAt(p PathRef, code string, data map[string]string) Issue {
	it := Issue{Path: p.Pointer(), Code: code, Message: i18n.T(code, data)}
	if len(data) > 0 {
		it.Params = make(map[string]any, len(data))
		for k, v := range data {
			it.Params[k] = v
		}
	}
	return it
}

func failAt(p PathRef, code string, data map[string]string) Issues {
	return Issues{IssueAt(p, code, data)}
}

func schemaError(typeName, reason string) Issues {
	it := IssueAt(Root(), CodeSchema, map[string]string{"reason": reason})
	it.Hint = typeName
	return Issues{it}
}
