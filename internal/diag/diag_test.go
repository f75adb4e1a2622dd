package diag

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var rec Recorder
	Warnf(&rec, StageJournal, "stmt_1", "bad date %q", "2023/10/05")
	Infof(&rec, StageMatch, "", "no vouchers")

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, LevelWarn, events[0].Level)
	assert.Equal(t, StageJournal, events[0].Stage)
	assert.Equal(t, `bad date "2023/10/05"`, events[0].Message)
	assert.Equal(t, 1, rec.Count(LevelWarn))
	assert.Equal(t, 1, rec.Count(LevelInfo))
}

func TestEventString(t *testing.T) {
	e := Event{Level: LevelWarn, Stage: StageImport, Ref: "row 3", Message: "bad amount"}
	assert.Equal(t, "warn [import] row 3: bad amount", e.String())

	e.Ref = ""
	assert.Equal(t, "warn [import]: bad amount", e.String())
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := LogSink{Logger: zerolog.New(&buf)}
	Warnf(sink, StageBalance, "je_gen_1", "unbalanced")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "trial_balance", line["stage"])
	assert.Equal(t, "je_gen_1", line["ref"])
	assert.Equal(t, "unbalanced", line["message"])
}

func TestMultiAndDiscard(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, &b, Discard}
	Infof(m, StageVoucher, "", "hello")
	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)

	assert.Equal(t, Discard, OrDiscard(nil))
	assert.Equal(t, Sink(&a), OrDiscard(&a))
}
