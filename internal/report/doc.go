// Package report turns an analysis.Result into display-ready values.
//
// Everything here is pure: tier lookups (TierColor, TierLabel), the
// care-routine splitter (SplitRoutine), the share text (ShareMessage) and
// BuildView, which bundles all of them for the terminal and websocket views.
//
// Levels outside analysis.MinLevel..MaxLevel yield ErrLevelOutOfRange rather
// than an arbitrary table entry.
package report
