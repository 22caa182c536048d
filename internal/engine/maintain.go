package engine

import (
	"context"
	"fmt"
	"time"

	"ColdVault/internal/interval"
	"ColdVault/internal/logging"
	"ColdVault/internal/rotation"
)

// Delete removes the most recent backup matching name and returns its
// stored key.
func (e *Engine) Delete(ctx context.Context, name string) (string, error) {
	rec, err := e.mostRecent(ctx, name)
	if err != nil {
		return "", err
	}
	if err := e.backend.Delete(ctx, rec.Key); err != nil {
		return "", err
	}
	return rec.Key, nil
}

// DeleteOlderThan removes every backup matching name whose age at now
// exceeds the interval string (e.g. "1M3W"). Running it again with no new
// backups deletes nothing. Returns the deleted keys.
func (e *Engine) DeleteOlderThan(ctx context.Context, name, intervalStr string, now time.Time) ([]string, error) {
	maxAge, err := interval.Seconds(intervalStr)
	if err != nil {
		return nil, err
	}
	records, err := e.Match(ctx, name)
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	var deleted []string
	for _, rec := range records {
		age := int64(now.Sub(rec.BackupDate) / time.Second)
		if age <= maxAge {
			continue
		}
		logging.Info().Str("key", rec.Key).Int64("age_seconds", age).Msg("deleting expired backup")
		if err := e.backend.Delete(ctx, rec.Key); err != nil {
			return deleted, fmt.Errorf("delete %s: %w", rec.Key, err)
		}
		deleted = append(deleted, rec.Key)
	}
	return deleted, nil
}

// Rotate applies the grandfather-father-son policy to all backups
// matching name and deletes the thinned generations. The policy must be
// validated by the caller; see config.RotationConfig.Policy. Returns the
// deleted keys.
func (e *Engine) Rotate(ctx context.Context, name string, policy rotation.Policy, now time.Time) ([]string, error) {
	records, err := e.Match(ctx, name)
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, len(records))
	for i, rec := range records {
		dates[i] = rec.BackupDate
	}
	toDelete := rotation.ToDelete(dates, policy, now)

	doomed := make(map[time.Time]struct{}, len(toDelete))
	for _, t := range toDelete {
		doomed[t] = struct{}{}
	}

	var deleted []string
	for _, rec := range records {
		if _, ok := doomed[rec.BackupDate]; !ok {
			continue
		}
		logging.Info().Str("key", rec.Key).Msg("rotating out backup")
		if err := e.backend.Delete(ctx, rec.Key); err != nil {
			return deleted, fmt.Errorf("delete %s: %w", rec.Key, err)
		}
		deleted = append(deleted, rec.Key)
	}
	return deleted, nil
}
