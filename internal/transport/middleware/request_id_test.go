package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/altar-backend/pkg/ctxutil"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	incoming := uuid.New().String()

	tests := []struct {
		name     string
		header   string
		wantSame bool
	}{
		{name: "reuse incoming", header: incoming, wantSame: true},
		{name: "generate when missing", header: ""},
		{name: "replace oversized", header: strings.Repeat("a", 200)},
		{name: "replace with whitespace", header: "id with spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var fromCtx string
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = ctxutil.RequestIDFromCtx(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			RequestID()(handler).ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if got != fromCtx {
				t.Errorf("header %q and context %q differ", got, fromCtx)
			}
			if tt.wantSame {
				if got != incoming {
					t.Errorf("expected %s, got %s", incoming, got)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Errorf("expected generated UUID, got %q: %v", got, err)
			}
		})
	}
}
