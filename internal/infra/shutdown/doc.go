// Package shutdown coordinates graceful teardown of the agent.
//
// Components register named hooks as they start; on SIGINT/SIGTERM or
// a programmatic trigger the hooks run in reverse registration order
// under one deadline, so the sweep loop stops before the structures it
// drives are closed.
package shutdown
