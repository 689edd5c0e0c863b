// Package policy provides the overflow, cardinality and read-mode
// enumerations shared by queue.Bounded, queue.Keyed, port.ConnectionRegistry
// and the consumer port family.
package policy
