// Package diagram holds the literal data drawn in the paper's two figures.
//
// # Transport graph
//
// [Graph] is a weighted graph of delivery points (Рисунок 1). Edges flagged
// with Highlight form the shortest route from the warehouse to the client.
//
// # Project network
//
// [Network] is an activity network (Рисунок 2). Connections flagged Critical
// form the critical path; milestones mark the start and finish events.
//
// # Checks
//
// The figures and the text carry pre-computed results. [ShortestPath] and
// [CriticalPath] recompute them so the check command can confirm that the
// highlighted edges still agree with the prose. Rendering never calls them.
package diagram
