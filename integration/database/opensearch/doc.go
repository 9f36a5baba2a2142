// Package opensearch creates an opensearch-go client, verifies the cluster
// with an info request and registers it as a relay plugin whose API the
// health plugin checks.
package opensearch
