// Package reconcile implements the option/value/variant reconciliation
// engine: merging a caller-supplied change-set of desired product variants
// into a product's persisted configuration without violating uniqueness and
// ordering invariants.
//
// # Stages
//
// A run sequences four components:
//
//  1. Option resolution: each requested option label binds to a canonical
//     option row, reusing explicit IDs or case-insensitive label matches and
//     creating new options at the next free position.
//  2. Value position tracking: per option, the set of value strings already
//     known (seeded from persisted rows, mutated within the run) assigns each
//     distinct value a stable 1-based position.
//  3. Variant materialization: one variant row per change-set entry, bulk
//     inserted, optionally carrying a pre-resolved image URL.
//  4. Value linking: one denormalized option-value row per (variant, option,
//     value) triple, bulk inserted in a single batch.
//
// # Guarantees
//
//   - No two options of a product share a label under case-insensitive
//     comparison.
//   - Rows sharing an option and a case-insensitively equal value always
//     carry the same position; distinct positions per option stay contiguous
//     from 1 with no gaps.
//   - Output order matches input order.
//   - A variant referencing an unresolvable option label is still created;
//     only the offending pair is dropped (logged, not fatal).
//
// # Limits
//
// Stages commit independently with no wrapping transaction, so a failure
// mid-run can leave orphaned options or variants (harmless but visible).
// Concurrent runs against the same product can mint colliding positions.
package reconcile
