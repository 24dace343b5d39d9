/*
Package observability turns calculator lifecycle events into Prometheus metrics and
structured audit logs.

Both are exposed as domain.LifecycleHooks so they can be merged and passed to
stackcalc.WithLifecycleHooks.
*/
package observability
