// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/metrics"
)

// prometheusMetrics records request counts and latency per route
// pattern. Uses the chi route pattern rather than the raw path so
// parameterized routes do not explode label cardinality.
func prometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		metrics.RecordAPIRequest(r.Method, endpoint, ww.Status(), time.Since(start))
	})
}
