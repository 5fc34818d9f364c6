package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "WithoutCause",
			err:  New(ErrCodeEmptyExport, "no design elements on %s", "front"),
			want: "EMPTY_EXPORT: no design elements on front",
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeAssetLoad, fmt.Errorf("connection refused"), "failed to load back artwork"),
			want: "ASSET_LOAD: failed to load back artwork: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInsufficientPoints, "balance is 0")
	if !Is(err, ErrCodeInsufficientPoints) {
		t.Error("Is() should match the error's own code")
	}
	if Is(err, ErrCodeEmptyExport) {
		t.Error("Is() should not match a different code")
	}

	// Code should survive wrapping with fmt.Errorf.
	wrapped := fmt.Errorf("export view: %w", err)
	if !Is(wrapped, ErrCodeInsufficientPoints) {
		t.Error("Is() should unwrap to find the code")
	}

	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is() should be false for non-structured errors")
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeNetwork, cause, "fetch logo")
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeBulkAborted, "player 3 failed")); got != ErrCodeBulkAborted {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeBulkAborted)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeComponentNotFound, "no collar artwork loaded")
	if got := UserMessage(err); got != "no collar artwork loaded" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestValidatePlayerName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Valid", "Jordan Smith", false},
		{"ValidUnicode", "José Álvarez", false},
		{"Empty", "", true},
		{"Traversal", "../etc/passwd", true},
		{"Backslash", "a\\b", true},
		{"Control", "bad\x01name", true},
		{"TooLong", string(make([]byte, 200)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePlayerName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePlayerName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateJerseyNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Single", "7", false},
		{"LeadingZero", "07", false},
		{"Triple", "100", false},
		{"Empty", "", true},
		{"TooLong", "1234", true},
		{"Letters", "7a", true},
		{"Negative", "-7", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJerseyNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateJerseyNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
