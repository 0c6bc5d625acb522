package dedupe

// Package dedupe provides shared singleflight groups used to collapse
// concurrent duplicate requests. A double click on the attack control
// arrives as two requests; only one round runs and both callers get its
// result.

import "golang.org/x/sync/singleflight"

// AttackGroup deduplicates attack requests keyed by the current character.
var AttackGroup singleflight.Group
