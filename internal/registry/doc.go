// Package registry implements the context registry: the on-disk tree of
// categories and configurations, and the .current record of which
// configuration is active per category. The registry only observes the tree:
// categories and configurations are created and removed by the user with
// ordinary filesystem tools.
package registry
