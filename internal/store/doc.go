// Package store keeps the most recent poll cycle reports in memory.
//
// This package is internal to homeworkbot. It backs the optional status
// server: the poll loop writes a [CycleReport] after every cycle and HTTP
// handlers read snapshots concurrently.
//
// The main components are:
//
//   - [Store]: Interface defining report storage operations
//   - [MemoryStore]: Bounded in-memory implementation of Store
//   - [CycleReport]: Storage representation of one poll cycle
//
// Nothing is persisted; reports are lost on restart.
package store
