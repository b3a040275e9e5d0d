package mcp

import (
	"testing"

	"gcf/internal/errors"
)

func TestMCPErrorError(t *testing.T) {
	tests := []struct {
		name    string
		err     *MCPError
		wantMsg string
	}{
		{
			name:    "simple message",
			err:     &MCPError{Code: ParseError, Message: "parse error"},
			wantMsg: "parse error",
		},
		{
			name:    "empty message",
			err:     &MCPError{Code: InternalError, Message: ""},
			wantMsg: "",
		},
		{
			name:    "with data",
			err:     &MCPError{Code: InvalidParams, Message: "invalid params", Data: map[string]string{"field": "class_name"}},
			wantMsg: "invalid params",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("MCPError.Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestMessageKinds(t *testing.T) {
	tests := []struct {
		name                                  string
		msg                                   MCPMessage
		wantRequest, wantNotify, wantResponse bool
	}{
		{"request", MCPMessage{Id: 1, Method: "ping"}, true, false, false},
		{"notification", MCPMessage{Method: "notifications/initialized"}, false, true, false},
		{"result", MCPMessage{Id: 1, Result: map[string]interface{}{}}, false, false, true},
		{"error", MCPMessage{Id: 1, Error: &MCPError{Code: InternalError}}, false, false, true},
		{"empty", MCPMessage{}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.IsRequest(); got != tt.wantRequest {
				t.Errorf("IsRequest() = %v", got)
			}
			if got := tt.msg.IsNotification(); got != tt.wantNotify {
				t.Errorf("IsNotification() = %v", got)
			}
			if got := tt.msg.IsResponse(); got != tt.wantResponse {
				t.Errorf("IsResponse() = %v", got)
			}
		})
	}
}

func TestRequiredString(t *testing.T) {
	params := map[string]interface{}{"a": "x", "n": 1.0, "e": "", "nil": nil}

	if got, err := requiredString(params, "a"); err != nil || got != "x" {
		t.Errorf("requiredString(a) = %q, %v", got, err)
	}
	for _, name := range []string{"n", "e", "nil", "missing"} {
		if _, err := requiredString(params, name); errors.CodeOf(err) != errors.InvalidArguments {
			t.Errorf("requiredString(%s) error = %v, want INVALID_ARGUMENTS", name, err)
		}
	}
}

func TestOptionalString(t *testing.T) {
	params := map[string]interface{}{"a": "x", "n": true}

	if got, err := optionalString(params, "missing"); err != nil || got != "" {
		t.Errorf("optionalString(missing) = %q, %v", got, err)
	}
	if got, err := optionalString(params, "a"); err != nil || got != "x" {
		t.Errorf("optionalString(a) = %q, %v", got, err)
	}
	if _, err := optionalString(params, "n"); errors.CodeOf(err) != errors.InvalidArguments {
		t.Errorf("optionalString(n) error = %v", err)
	}
}

func TestOptionalInt(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		present bool
		want    *int
		wantErr bool
	}{
		{name: "absent"},
		{name: "null", present: true},
		{name: "json number", value: 12.0, present: true, want: intp(12)},
		{name: "negative", value: -3.0, present: true, want: intp(-3)},
		{name: "go int", value: 4, present: true, want: intp(4)},
		{name: "fraction", value: 2.5, present: true, wantErr: true},
		{name: "string", value: "7", present: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]interface{}{}
			if tt.present {
				params["n"] = tt.value
			}
			got, err := optionalInt(params, "n")
			if (err != nil) != tt.wantErr {
				t.Fatalf("optionalInt() error = %v, wantErr %v", err, tt.wantErr)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("optionalInt() = %d, want nil", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("optionalInt() = %v, want %d", got, *tt.want)
			}
		})
	}
}

func intp(i int) *int { return &i }
