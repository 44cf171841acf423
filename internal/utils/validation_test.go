package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid numeric ID",
			id:   "12",
		},
		{
			name:    "empty ID",
			id:      "",
			wantErr: true,
			errMsg:  "id cannot be empty",
		},
		{
			name:    "ID too long",
			id:      strings.Repeat("1", 101),
			wantErr: true,
			errMsg:  "id too long (max 100 characters)",
		},
		{
			name:    "ID with script tag",
			id:      "3<script>",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name:    "ID with path traversal",
			id:      "../../../etc/passwd",
			wantErr: true,
			errMsg:  "id contains invalid characters",
		},
		{
			name: "ID with hyphens and dots",
			id:   "stop-4.v2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseStopID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		want    int
		wantErr string
	}{
		{name: "zero", id: "0", want: 0},
		{name: "positive", id: "42", want: 42},
		{name: "not a number", id: "rynek", wantErr: "id must be a number"},
		{name: "negative", id: "-1", wantErr: "id must not be negative"},
		{name: "unsafe", id: "1;--", wantErr: "id contains invalid characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStopID(tt.id)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateDataType(t *testing.T) {
	assert.NoError(t, ValidateDataType("stops", "lines", "stops", "trams"))
	err := ValidateDataType("agencies", "lines", "stops")
	assert.EqualError(t, err, "unknown data type, use one of: lines, stops")
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "stop-3", "stop-3"},
		{"html tags removed", "<b>stop-3</b>", "stop-3"},
		{"whitespace trimmed", "  stop-3  ", "stop-3"},
		{"script removed", "<script>x</script>stop-1", "xstop-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.input))
		})
	}
}
