// Package gateway moves catalog snapshots between the client and the shared
// data sources.
//
// Sources are arranged as an ordered list of tiers: the primary API, the
// shared snapshot endpoint (an HTTP resource or an object in an S3 bucket),
// and the local mirror of the last known cloud snapshot. Pull walks the tiers
// and returns the first snapshot newer than the caller's watermark; Push walks
// them and stops at the first tier that accepts the data. The mirror is the
// last tier of both lists.
package gateway
