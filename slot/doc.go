// Package slot is the single source of truth for "when can this
// operation start on this machine": the greedy list schedulers commit
// operations only through Find, so machine exclusivity holds by
// construction. The Shifting Bottleneck's finalization pass does not
// call Find; it tracks per-machine availability times itself.
package slot
