// Package reconcile compares two sources of truth, the database and a
// document, entity by entity.
//
// An Adapter loads each source into an index keyed by entity key and knows
// how to compare one entity across both. Reconcile builds both indices
// concurrently, takes the union of their keys and reports for each key
// where it is present and which fields differ.
//
// # Usage Example
//
//	report, err := reconcile.Reconcile(ctx, adapter)
//	if err != nil {
//	    return err
//	}
//	for _, r := range report.Issues() {
//	    log.Info("drift", zap.String("id", r.ID), zap.Strings("mismatch", r.Mismatch))
//	}
package reconcile
