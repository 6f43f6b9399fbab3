// Package service provides the generic CRUD facade over the platform API:
// one parameterized service per entity, with cached reads, group
// invalidation after mutations, and user-facing notifications following a
// single failure policy.
package service
