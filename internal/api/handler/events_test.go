package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{
			name:      "single line data",
			eventName: "number_called",
			data:      `{"number":27}`,
			expected:  "event: number_called\ndata: {\"number\":27}\n\n",
		},
		{
			name:      "multi-line data",
			eventName: "card",
			data:      "B I N G O\n1 16 31 46 61",
			expected:  "event: card\ndata: B I N G O\ndata: 1 16 31 46 61\n\n",
		},
		{
			name:      "empty data",
			eventName: "ping",
			data:      "",
			expected:  "event: ping\ndata: \n\n",
		},
		{
			name:      "data with carriage returns",
			eventName: "test",
			data:      "line1\r\nline2",
			expected:  "event: test\ndata: line1\ndata: line2\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "single line", input: "hello", expected: []string{"hello"}},
		{name: "two lines", input: "line1\nline2", expected: []string{"line1", "line2"}},
		{name: "trailing newline", input: "line1\n", expected: []string{"line1"}},
		{name: "empty string", input: "", expected: []string{""}},
		{name: "crlf line endings", input: "line1\r\nline2\r\n", expected: []string{"line1", "line2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitLines(tt.input))
		})
	}
}
