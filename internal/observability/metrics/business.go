package metrics

// RecordArticleCreated records a newly created article.
func RecordArticleCreated() {
	ArticlesCreatedTotal.Inc()
}

// RecordArticleApproved records an approval transition.
func RecordArticleApproved() {
	ArticlesApprovedTotal.Inc()
}

// RecordArticleUnapproved records a withdrawn approval.
func RecordArticleUnapproved() {
	ArticlesUnapprovedTotal.Inc()
}

// RecordArticleRejected records an article write rejected by validation.
// field is the ValidationError field, e.g. "approved_by".
func RecordArticleRejected(field string) {
	ArticleWritesRejectedTotal.WithLabelValues(field).Inc()
}

// RecordNewsletterCreated records a newly created newsletter.
func RecordNewsletterCreated() {
	NewslettersCreatedTotal.Inc()
}

// RecordFollow records a follow (true) or unfollow (false).
func RecordFollow(follow bool) {
	action := "follow"
	if !follow {
		action = "unfollow"
	}
	FollowsTotal.WithLabelValues(action).Inc()
}

// UpdateArticlesPendingReview updates the review-queue gauge.
// This gauge should be updated periodically to reflect the current state.
func UpdateArticlesPendingReview(count int64) {
	ArticlesPendingReview.Set(float64(count))
}

// RecordDigestRun records the outcome of a digest job run.
// result should be "success", "failure" or "skipped".
func RecordDigestRun(result string) {
	DigestRunsTotal.WithLabelValues(result).Inc()
}

// RecordDigestDelivery records one channel delivery.
func RecordDigestDelivery(channel string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	DigestDeliveriesTotal.WithLabelValues(channel, result).Inc()
}
