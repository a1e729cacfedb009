// Package publish streams report documents to a Socket.IO server so dashboards
// can follow a workspace while it is being edited.
package publish
