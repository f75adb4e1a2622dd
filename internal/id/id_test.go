package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackEntryID(t *testing.T) {
	assert.Equal(t, "je_gen_1", FallbackEntryID(1))
	assert.Equal(t, "je_gen_42", FallbackEntryID(42))
}

func TestStatementID(t *testing.T) {
	tests := []struct {
		file string
		n    int
		want string
	}{
		{"october.csv", 1, "stmt_october.csv_1"},
		{"statements/october.csv", 12, "stmt_october.csv_12"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatementID(tt.file, tt.n))
	}
}

func TestVoucherID(t *testing.T) {
	assert.Equal(t, "vouchSim3", VoucherID("vouchSim", 3))
}

func TestFormatLegID(t *testing.T) {
	tests := []struct {
		entryID string
		leg     int
		want    string
	}{
		{"stmt_1", 0, "stmt_1a"},
		{"stmt_1", 1, "stmt_1b"},
		{"je_gen_2", 1, "je_gen_2b"},
	}
	for _, tt := range tests {
		got := FormatLegID(tt.entryID, tt.leg)
		assert.Equal(t, tt.want, got)
	}
}

func TestEntryGroup(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"stmt_1a", "stmt_1"},
		{"stmt_1b", "stmt_1"},
		{"je_gen_10b", "je_gen_10"},
		{"stmt_1", "stmt_1"},
		{"", ""},
	}
	for _, tt := range tests {
		got := EntryGroup(tt.input)
		assert.Equal(t, tt.want, got, "EntryGroup(%q)", tt.input)
	}
}
