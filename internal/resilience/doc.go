// Package resilience groups the failure handling shared by the database
// layer and the digest notifiers:
//
//   - circuitbreaker: sony/gobreaker breakers for the pool (circuitbreaker.NewDB)
//     and each webhook channel (circuitbreaker.Webhook)
//   - retry: capped exponential backoff honouring Retry-After (retry.Do)
package resilience
