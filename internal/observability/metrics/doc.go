// Package metrics holds the process-wide Prometheus collectors: request
// traffic, the editorial workflow (articles, approvals, newsletters, follows,
// review queue, digests) and database access.
//
// Collectors register with the default registry at init and are served on
// /metrics. Callers use the Record* helpers rather than touching vectors:
//
//	if err := repo.Create(ctx, article); err == nil {
//		metrics.RecordArticleCreated()
//	}
package metrics
