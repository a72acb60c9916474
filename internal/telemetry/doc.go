// Package telemetry provides observers that consume per-step snapshots:
// an in-memory [Recorder], a zerolog [LogSink], a console [TableSink] and a
// [CSVSink]. Each implements [dynamo.Observer].
package telemetry
