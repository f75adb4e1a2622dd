package journal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_Shape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleEntries()))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 2)

	first := raw[0]
	assert.Equal(t, "s1", first["entry_id"])
	assert.Equal(t, "2023-10-05", first["date"])
	assert.Equal(t, "0.9", first["confidence_score"])
	assert.Equal(t, "v1", first["source_voucher_id"])
	postings := first["postings"].([]any)
	require.Len(t, postings, 2)
	assert.Equal(t, map[string]any{"account": "Office Supplies", "debit": "50.00", "credit": "0.00"}, postings[0])

	// No voucher is written as an explicit null.
	v, ok := raw[1]["source_voucher_id"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestWriteJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]", strings.TrimSpace(buf.String()))
}

func TestJSONRoundTrip(t *testing.T) {
	want := sampleEntries()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, want))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, want[1].ID, got[1].ID)
	assert.Empty(t, got[1].SourceVoucherID)
	assert.True(t, got[0].Postings[0].Debit.Equal(dec("50")))
	assert.True(t, got[1].Confidence.Equal(dec("0.5")))
	assert.True(t, got[0].Balanced())
}

func TestReadJSON_BadDate(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`[{"entry_id":"x","date":"yesterday","confidence_score":"0.3","postings":[]}]`))
	assert.Error(t, err)
}
