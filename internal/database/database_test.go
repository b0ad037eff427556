package database

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type recordingTracer struct {
	starts, ends int
}

func (r *recordingTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, _ pgx.TraceQueryStartData) context.Context {
	r.starts++
	return ctx
}

func (r *recordingTracer) TraceQueryEnd(context.Context, *pgx.Conn, pgx.TraceQueryEndData) {
	r.ends++
}

func TestMultiTracer(t *testing.T) {
	a, b := &recordingTracer{}, &recordingTracer{}
	mt := &multiTracer{tracers: []pgx.QueryTracer{a, b}}

	ctx := mt.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT 1"})
	mt.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{})

	for i, r := range []*recordingTracer{a, b} {
		if r.starts != 1 || r.ends != 1 {
			t.Errorf("tracer %d saw %d starts and %d ends", i, r.starts, r.ends)
		}
	}
}

func TestSlowQueryTracer(t *testing.T) {
	run := func(threshold time.Duration) string {
		var buf bytes.Buffer
		logger := zerolog.New(&buf)
		tracer := &slowQueryTracer{threshold: threshold, logger: &logger}

		ctx := tracer.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{SQL: "SELECT * FROM job_applications"})
		time.Sleep(5 * time.Millisecond)
		tracer.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 3")})

		return buf.String()
	}

	if out := run(time.Millisecond); !strings.Contains(out, "slow query") || !strings.Contains(out, "job_applications") {
		t.Errorf("expected a slow query warning, got %q", out)
	}

	if out := run(time.Hour); out != "" {
		t.Errorf("fast query was logged: %q", out)
	}
}
