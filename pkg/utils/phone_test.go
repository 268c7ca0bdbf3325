package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMobile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "ten digits", input: "0909300861", expected: true},
		{name: "ten digits not starting with zero", input: "9876543210", expected: true},
		{name: "nine digits", input: "090930086", expected: false},
		{name: "eleven digits", input: "09093008612", expected: false},
		{name: "with hyphens", input: "090-930-0861", expected: false},
		{name: "with spaces", input: "090 930 0861", expected: false},
		{name: "international prefix", input: "+66909300861", expected: false},
		{name: "letters", input: "09093008a1", expected: false},
		{name: "empty string", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateMobile(tt.input))
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "simple address", input: "a@b.com", expected: true},
		{name: "subdomain", input: "john.smith@mail.example.edu", expected: true},
		{name: "no at sign", input: "john.example.com", expected: false},
		{name: "no domain dot", input: "john@example", expected: false},
		{name: "empty local part", input: "@example.com", expected: false},
		{name: "nothing after dot", input: "john@example.", expected: false},
		{name: "empty string", input: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateEmail(tt.input))
		})
	}
}

func TestFormatMobileForDisplay(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0909300861", "090-930-0861"},
		{"12345", "12345"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMobileForDisplay(tt.input))
		})
	}
}

func TestMaskContact(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"john.smith@example.edu", "j***@example.edu"},
		{"0909300861", "090-***-0861"},
		{"12345678", "123***678"},
		{"12345", "***"},
		{"", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskContact(tt.input))
		})
	}
}
