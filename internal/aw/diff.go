package aw

import "aw-go/internal/model"

// diffSnapshots computes the symmetric difference between two snapshots.
// appeared holds entries present only in after, vanished entries present
// only in before. Because membership covers the status code as well as
// the path, a file whose code changed between captures shows up on both
// sides and the classifier sees the transition.
func diffSnapshots(before, after Snapshot) (appeared, vanished []model.StatusEntry) {
	for e := range after {
		if _, ok := before[e]; !ok {
			appeared = append(appeared, e)
		}
	}
	for e := range before {
		if _, ok := after[e]; !ok {
			vanished = append(vanished, e)
		}
	}
	return appeared, vanished
}
