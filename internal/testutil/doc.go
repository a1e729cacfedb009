// Package testutil holds helpers shared by the package tests: captured log
// output, logger-carrying contexts, and temporary workspaces.
package testutil
