// Package guard is the route authorization chain evaluated before each
// navigation: tenant, authentication, permission, super-admin, and guest
// stages, each returning Allow, Redirect, or Retry. The dispatcher
// short-circuits on the first non-Allow decision; Retry triggers lazy session
// initialization and one reevaluation.
//
// The route table is ordered, and that order is the fallback priority: a
// navigation denied by the permission or super-admin stage lands on the first
// route the session can access, with the denied path excluded so the result
// can never loop. Two evaluations against the same permission set always
// produce the same destination.
package guard
