package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, format OutputFormat, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	logger = nil
	InitLogger(level, format)

	fn()

	return buf.String()
}

func TestLogger_Text(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:     "info log",
			level:    "info",
			logFn:    func() { Info("mod saved") },
			contains: []string{"mod saved", "level=INFO"},
		},
		{
			name:     "debug log with debug level",
			level:    "debug",
			logFn:    func() { Debug("metadata fetched") },
			contains: []string{"metadata fetched", "level=DEBUG"},
		},
		{
			name:     "debug log with info level",
			level:    "info",
			logFn:    func() { Debug("metadata fetched") },
			excludes: []string{"metadata fetched"},
		},
		{
			name:     "warn suppressed at error level",
			level:    "error",
			logFn:    func() { Warn("hook failed") },
			excludes: []string{"hook failed"},
		},
		{
			name:     "error log with fields",
			level:    "error",
			logFn:    func() { Error("download failed", Fields{"project_id": 238222, "stage": "download"}) },
			contains: []string{"download failed", "level=ERROR", "project_id=238222", "stage=download"},
		},
		{
			name:     "success log",
			level:    "info",
			logFn:    func() { Success("sync complete") },
			contains: []string{"sync complete", "status=success"},
		},
		{
			name:     "formatted info log",
			level:    "info",
			logFn:    func() { Infof("%d mods up to date", 3) },
			contains: []string{"3 mods up to date"},
		},
		{
			name:  "formatted debug with fields",
			level: "debug",
			logFn: func() {
				DebugfWithFields(Fields{"file_id": 2}, "checking %s", "foo.jar")
			},
			contains: []string{"checking foo.jar", "file_id=2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.level, FormatText, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, output, want)
			}
			for _, notWant := range tt.excludes {
				assert.NotContains(t, output, notWant)
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	output := captureOutput(t, "info", FormatJSON, func() {
		Info("mod skipped", Fields{
			"name":    "foo.jar",
			"file_id": 42,
			"cached":  true,
		})
	})

	assert.Contains(t, output, `"msg":"mod skipped"`)
	assert.Contains(t, output, `"level":"INFO"`)
	assert.Contains(t, output, `"name":"foo.jar"`)
	assert.Contains(t, output, `"file_id":42`)
	assert.Contains(t, output, `"cached":true`)
}

func TestSetOutputFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	logger = nil
	InitLogger("debug", FormatText)
	Debug("first")
	assert.Contains(t, buf.String(), "level=DEBUG")

	buf.Reset()
	SetOutputFormat(FormatJSON)
	Debug("second")
	assert.Contains(t, buf.String(), `"msg":"second"`)
	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
}

func TestWithFields(t *testing.T) {
	output := captureOutput(t, "info", FormatText, func() {
		WithFields(Fields{"run_id": "abc"}).Info("run started")
	})
	assert.Contains(t, output, "run started")
	assert.Contains(t, output, "run_id=abc")
}

func TestGetLogger_InitializesIfNil(t *testing.T) {
	logger = nil
	assert.NotPanics(t, func() {
		lg := GetLogger()
		assert.NotNil(t, lg)
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestMergeFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []Fields
		expect map[string]interface{}
	}{
		{
			name:   "single field",
			fields: []Fields{{"key1": "value1"}},
			expect: map[string]interface{}{"key1": "value1"},
		},
		{
			name:   "multiple fields",
			fields: []Fields{{"key1": "value1"}, {"key2": 123, "key3": true}},
			expect: map[string]interface{}{"key1": "value1", "key2": 123, "key3": true},
		},
		{
			name:   "later maps win",
			fields: []Fields{{"key1": "value1"}, {"key1": "new value"}},
			expect: map[string]interface{}{"key1": "new value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := mergeFields(tt.fields...)
			result := make(map[string]interface{})
			for i := 0; i < len(attrs); i += 2 {
				result[attrs[i].(string)] = attrs[i+1]
			}
			assert.Equal(t, tt.expect, result)
		})
	}
}
