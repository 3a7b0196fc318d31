// Package events carries view-invalidation signals from the mutation
// services to whatever presentation layer caches read results. Every
// successful commit publishes the set of views whose cached state is
// now stale.
package events

import "time"

// View identifies a cacheable read view
type View string

// Views invalidated by mutations
const (
	// ViewDashboard is the aggregate landing view
	ViewDashboard View = "dashboard"

	// ViewProjects is the project list
	ViewProjects View = "projects"

	// ViewLabels is the label list
	ViewLabels View = "labels"
)

// ViewProject identifies the detail view of a single project
func ViewProject(slug string) View {
	return View("project:" + slug)
}

// Event is a view-invalidation notification emitted after a successful commit
type Event struct {
	Views     []View
	Timestamp time.Time
}
