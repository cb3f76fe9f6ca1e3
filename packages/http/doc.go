// Package http is the HTTP engine end-to-end suites run on.
//
// It wraps the standard library's http package with:
//   - Directive-driven configuration (connectTimeout, readTimeout, ssl)
//     applied through Configure, so a Client satisfies target.Configurer
//   - Separate connect and read timeouts instead of one overall deadline
//   - Redirect handling and default headers
//   - gjson lookups on response bodies
package http
