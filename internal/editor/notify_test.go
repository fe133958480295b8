// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestQueueDropsOldest(t *testing.T) {
	q := NewQueue(2)
	for _, title := range []string{"a", "b", "c"} {
		q.Notify(Notification{Title: title})
	}
	got := q.Drain()
	if len(got) != 2 || got[0].Title != "b" || got[1].Title != "c" {
		t.Errorf("Drain = %+v, want b, c", got)
	}
	if q.Len() != 0 {
		t.Errorf("Len after Drain = %d", q.Len())
	}
}

func TestLogNotifierLevels(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeveritySuccess, "level=INFO"},
		{SeverityInfo, "level=INFO"},
		{SeverityWarning, "level=WARN"},
		{SeverityError, "level=ERROR"},
	}
	for _, tt := range tests {
		t.Run(string(tt.sev), func(t *testing.T) {
			var buf bytes.Buffer
			n := LogNotifier{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
			n.Notify(Notification{Title: "Saved", Severity: tt.sev})
			out := buf.String()
			if !strings.Contains(out, tt.want) || !strings.Contains(out, "title=Saved") {
				t.Errorf("log line %q, want %s with title", out, tt.want)
			}
		})
	}
}
