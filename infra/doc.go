// Package infra contains technical adapters such as the MQTT publisher,
// the metrics exporters and the SQLite stores. These packages should depend
// only on the interfaces defined in the core packages.
package infra
