package db

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

func TestQueryLoggerWritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	l := newQueryLogger(zerolog.New(&buf), gormlogger.Warn)
	query := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), query, errors.New("connection reset"))
	if out := buf.String(); !strings.Contains(out, `"sql":"SELECT 1"`) || !strings.Contains(out, `"component":"gorm"`) {
		t.Fatalf("error trace = %s", out)
	}

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), query, nil)
	if !strings.Contains(buf.String(), "slow query") {
		t.Fatalf("slow trace = %s", buf.String())
	}

	buf.Reset()
	l.Trace(context.Background(), time.Now(), query, gormlogger.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now(), query, nil)
	l.Info(context.Background(), "migrated %d tables", 1)
	if buf.Len() != 0 {
		t.Fatalf("unexpected output at warn level: %s", buf.String())
	}
}

func TestQueryLoggerSilent(t *testing.T) {
	var buf bytes.Buffer
	l := newQueryLogger(zerolog.New(&buf), gormlogger.Info).LogMode(gormlogger.Silent)
	l.Error(context.Background(), "boom")
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("silent logger wrote %s", buf.String())
	}
}
