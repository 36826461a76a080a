// Package topic holds the cluster-id-qualified process id convention
// shared by the router (parsing inbound topics) and the supervisor
// (building outbound ones), so both sides agree on the wire format
// without importing each other.
package topic

import "strings"

// Split splits the leading segment of an inbound exec/... topic into its
// cluster id and process id, using the first ":" if present. With no
// prefix, the cluster id is the implicit "master".
func Split(seg string) (cluster, id string) {
	if c, rest, ok := strings.Cut(seg, ":"); ok {
		return c, rest
	}

	return "master", seg
}

// CID returns the cid used in outbound topics: id prefixed by
// "<clusterID>:" only when clusterID is configured (non-empty).
func CID(clusterID, id string) string {
	if clusterID == "" {
		return id
	}

	return clusterID + ":" + id
}

// Out builds the "exec/<cid>/<sub>" topic.
func Out(clusterID, id, sub string) string {
	return "exec/" + CID(clusterID, id) + "/" + sub
}

// System builds the "exec/<id>/system" outbound cooperative-stop topic,
// which is always addressed by bare process id, not cid-qualified,
// matching the external interface contract.
func System(id string) string {
	return "exec/" + id + "/system"
}
