package core

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/internal/iocache"
	"github.com/fleetwatch/slireport/schema"
)

// cacheSchemaVersion guards cached sample decoding across format changes.
const cacheSchemaVersion = 1

// QueryJob is one expanded query for a (rule, cluster) pair, ready for
// execution.
type QueryJob struct {
	RuleName  string
	ClusterID string
	Query     string
}

// cachedSample is the serialized form of one query outcome in the cache.
type cachedSample struct {
	Value  float64 `json:"value"`
	Absent bool    `json:"absent"`
}

// BuildQueryPlan expands every (rule, cluster) pair into a concrete query.
// Any unresolved placeholder fails the whole plan so configuration defects
// surface before the first metrics call.
func BuildQueryPlan(rules []schema.Rule, clusters []schema.Cluster, globals schema.GlobalVars) ([]QueryJob, error) {
	jobs := make([]QueryJob, 0, len(rules)*len(clusters))
	for _, cluster := range clusters {
		for _, rule := range rules {
			query, err := ExpandQuery(rule, cluster, globals)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, QueryJob{
				RuleName:  rule.Name,
				ClusterID: cluster.ID,
				Query:     query,
			})
		}
	}
	return jobs, nil
}

// ExecuteQueries evaluates every job against the metrics backend using a
// worker pool of cfg.Workers goroutines. All jobs share the asOf instant so
// duration-relative windows line up across the whole report.
//
// A query that exhausts its retries degrades its own result to absent with
// a warning; no single failing query aborts the report. Results come back
// in job order regardless of completion order.
func ExecuteQueries(ctx context.Context, cfg *contract.Config, metrics contract.MetricsClient, mgr contract.CacheManager, jobs []QueryJob, asOf time.Time) []schema.QueryResult {
	results := make([]schema.QueryResult, len(jobs))
	jobCh := make(chan int, len(jobs))
	var wg sync.WaitGroup

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetQueryStore()
	}

	for range cfg.Workers {
		wg.Go(func() {
			for idx := range jobCh {
				// Each goroutine writes a unique index, which is safe.
				results[idx] = executeJob(ctx, cfg, metrics, store, jobs[idx], asOf)
			}
		})
	}

	for idx := range jobs {
		jobCh <- idx
	}
	close(jobCh)

	wg.Wait()
	return results
}

// executeJob evaluates one expanded query, consulting the sample cache
// before the backend and recording fresh samples afterwards.
func executeJob(ctx context.Context, cfg *contract.Config, metrics contract.MetricsClient, store contract.CacheStore, job QueryJob, asOf time.Time) schema.QueryResult {
	result := schema.QueryResult{
		RuleName:    job.RuleName,
		ClusterID:   job.ClusterID,
		EvaluatedAt: asOf,
	}

	key := iocache.QueryKey(job.Query, asOf)
	if sample, ok := cachedLookup(store, key); ok {
		result.Value = sample.Value
		result.Absent = sample.Absent
		return result
	}

	value, absent, err := queryWithRetries(ctx, cfg, metrics, job.Query, asOf)
	if err != nil {
		contract.LogWarn("Report cell degraded to unknown", &contract.MetricsQueryError{
			RuleName:  job.RuleName,
			ClusterID: job.ClusterID,
			Err:       err,
		})
		result.Absent = true
		return result
	}

	result.Value = value
	result.Absent = absent
	cachedRecord(store, key, cachedSample{Value: value, Absent: absent})
	return result
}

// queryWithRetries issues the query with a per-attempt deadline and
// exponential backoff between attempts. Deadline expiry counts as a
// retryable failure like any other backend error.
func queryWithRetries(ctx context.Context, cfg *contract.Config, metrics contract.MetricsClient, query string, asOf time.Time) (float64, bool, error) {
	var value float64
	var absent bool

	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
		defer cancel()

		var err error
		value, absent, err = metrics.Query(attemptCtx, query, asOf)
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(cfg.Retries)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return 0, false, err
	}
	return value, absent, nil
}

// cachedLookup fetches and decodes a cached sample. Any miss or decode
// problem falls through to a live query.
func cachedLookup(store contract.CacheStore, key string) (cachedSample, bool) {
	var sample cachedSample
	if store == nil {
		return sample, false
	}
	data, version, _, err := store.Get(key)
	if err != nil || version != cacheSchemaVersion {
		return sample, false
	}
	if err := json.Unmarshal(data, &sample); err != nil {
		return sample, false
	}
	return sample, true
}

// cachedRecord stores a fresh sample. Cache write failures are only worth a
// warning; the report already has its value.
func cachedRecord(store contract.CacheStore, key string, sample cachedSample) {
	if store == nil {
		return
	}
	data, err := json.Marshal(sample)
	if err != nil {
		return
	}
	if err := store.Set(key, data, cacheSchemaVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Query cache write failed", err)
	}
}
