// Package report turns pipeline results into documents and renders them as
// text, JSON, YAML or CBOR. The same documents are published to remote
// listeners in watch mode.
package report
