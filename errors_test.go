package recordkit_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/i18n"
)

// TestErrorModel_FailFast_And_AsIssues checks that parsing stops at the first
// problem and that both AsIssues and errors.As extract it.
func TestErrorModel_FailFast_And_AsIssues(t *testing.T) {
	_, err := recordkit.ParseOf[MyData](map[string]any{"bar": "x", "zzz": true}, recordkit.ParseOpt{Unknown: recordkit.UnknownStrict})
	if err == nil {
		t.Fatalf("expected an error")
	}
	var iss recordkit.Issues
	if !errors.As(err, &iss) {
		t.Fatalf("expected errors.As to extract Issues, got: %v", err)
	}
	if len(iss) != 1 {
		t.Fatalf("expected a single issue, got: %v", iss)
	}
	// foo is declared first, so its absence is what gets reported
	if iss[0].Path != "/foo" || iss[0].Code != recordkit.CodeRequired {
		t.Fatalf("unexpected first issue: %+v", iss[0])
	}
	iss2, ok := recordkit.AsIssues(err)
	if !ok || len(iss2) != 1 {
		t.Fatalf("AsIssues failed: %v", err)
	}
	if _, ok := recordkit.AsIssues(nil); ok {
		t.Fatalf("AsIssues(nil) should report false")
	}
	if _, ok := recordkit.AsIssues(errors.New("plain")); ok {
		t.Fatalf("AsIssues(plain) should report false")
	}
}

func TestIssues_Error(t *testing.T) {
	iss := recordkit.Issues{
		{Path: "/a", Code: recordkit.CodeRequired, Message: "required field missing"},
		{Path: "/b", Code: recordkit.CodeInvalidType},
		{Path: "/c", Code: recordkit.CodeUnknownKey},
		{Path: "/d", Code: recordkit.CodeUnknownKey},
	}
	got := iss.Error()
	if !strings.HasPrefix(got, "required at /a: required field missing; invalid_type at /b") {
		t.Fatalf("unexpected message: %q", got)
	}
	if !strings.HasSuffix(got, "(total 4)") {
		t.Fatalf("expected total suffix, got %q", got)
	}
	if recordkit.Issues(nil).Error() != "" {
		t.Fatalf("empty issues should render empty")
	}
}

func TestIssues_SentinelFamilies(t *testing.T) {
	cases := map[string]error{
		recordkit.CodeSchema:         recordkit.ErrSchema,
		recordkit.CodeRequired:       recordkit.ErrMissingField,
		recordkit.CodeInvalidType:    recordkit.ErrValueMismatch,
		recordkit.CodeInvalidLiteral: recordkit.ErrValueMismatch,
		recordkit.CodeInvalidEnum:    recordkit.ErrInvalidEnumValue,
		recordkit.CodeInvalidFormat:  recordkit.ErrCodec,
		recordkit.CodeIncomplete:     recordkit.ErrIncompleteInstance,
		recordkit.CodeNotPresent:     recordkit.ErrFieldNotPresent,
		recordkit.CodeUnknownKey:     recordkit.ErrUnknownField,
	}
	for code, sentinel := range cases {
		err := error(recordkit.Issues{{Path: "/", Code: code}})
		if !errors.Is(err, sentinel) {
			t.Fatalf("%s should match %v", code, sentinel)
		}
		if code != recordkit.CodeSchema && errors.Is(err, recordkit.ErrSchema) {
			t.Fatalf("%s should not match ErrSchema", code)
		}
	}
}

func TestIssues_UnwrapCause(t *testing.T) {
	cause := errors.New("boom")
	it := recordkit.IssueAt(recordkit.Root().Field("a"), recordkit.CodeInvalidFormat, map[string]string{"codec": "x"})
	it.Cause = cause
	err := error(recordkit.AppendIssues(nil, it))
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	first, ok := recordkit.Issues{it}.First()
	if !ok || first.Params["codec"] != "x" {
		t.Fatalf("unexpected params: %+v", first.Params)
	}
}

func TestPathRef_Pointer(t *testing.T) {
	p := recordkit.Root().Field("a/b").Index(2).Field("c~d").Field("")
	if got := p.Pointer(); got != "/a~1b/2/c~0d" {
		t.Fatalf("pointer: %q", got)
	}
	if got := recordkit.Root().Pointer(); got != "/" {
		t.Fatalf("root pointer: %q", got)
	}
	it := p.Issue(recordkit.CodeRequired, "msg", "k", 1)
	if it.Path != "/a~1b/2/c~0d" || it.Params["k"] != 1 {
		t.Fatalf("issue: %+v", it)
	}
}

func TestErrorModel_LocalizedMessages(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })
	i18n.SetLanguage("ja")

	_, err := recordkit.ParseOf[MyData](map[string]any{})
	iss, _ := recordkit.AsIssues(err)
	if len(iss) == 0 || iss[0].Message != "必須フィールドが不足しています" {
		t.Fatalf("expected Japanese message, got %v", err)
	}
}
